package service

import (
	"context"
	"testing"

	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
)

func newStoreService(t *testing.T, store docstore.Store) *StoreService {
	t.Helper()
	svc := NewStoreService(store, repository.NewStoreRepository(store))
	svc.Now = fixedNow
	return svc
}

func seedItem(t *testing.T, store docstore.Store, id string, price int64) {
	t.Helper()
	err := store.Set(context.Background(), repository.StoreItemPath(id), map[string]any{
		"itemId":   id,
		"name":     "Item " + id,
		"itemType": "avatar",
		"price":    price,
	})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
}

func TestPurchase(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", map[string]any{"coins": int64(150)})
	seedItem(t, store, "hat", 100)
	svc := newStoreService(t, store)

	res, err := svc.Purchase(context.Background(), "u1", "hat")
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if !res.Success || res.CoinsRemaining != 50 {
		t.Errorf("result = %+v, want 50 coins remaining", res)
	}
	if got := userField(t, store, "u1", "coins"); got != 50 {
		t.Errorf("coins = %d, want 50", got)
	}
	// 购买不计入累计获得金币
	if got := userField(t, store, "u1", "totalCoinsEarned"); got != 0 {
		t.Errorf("totalCoinsEarned = %d, want 0", got)
	}

	items, err := svc.Inventory(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if len(items) != 1 || items[0].ItemID != "hat" {
		t.Errorf("inventory = %+v", items)
	}
}

func TestPurchaseInsufficientCoins(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", map[string]any{"coins": int64(30)})
	seedItem(t, store, "hat", 100)
	svc := newStoreService(t, store)

	if _, err := svc.Purchase(context.Background(), "u1", "hat"); err != util.ErrInsufficientCoins {
		t.Fatalf("err = %v, want ErrInsufficientCoins", err)
	}
	if got := userField(t, store, "u1", "coins"); got != 30 {
		t.Errorf("coins = %d, failed purchase must not deduct", got)
	}
}

func TestPurchaseAlreadyOwned(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", map[string]any{"coins": int64(500)})
	seedItem(t, store, "hat", 100)
	svc := newStoreService(t, store)

	if _, err := svc.Purchase(context.Background(), "u1", "hat"); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if _, err := svc.Purchase(context.Background(), "u1", "hat"); err != util.ErrItemAlreadyOwned {
		t.Fatalf("err = %v, want ErrItemAlreadyOwned", err)
	}
	if got := userField(t, store, "u1", "coins"); got != 400 {
		t.Errorf("coins = %d, want single deduction to 400", got)
	}
}

func TestPurchaseUnknownItem(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newStoreService(t, store)

	if _, err := svc.Purchase(context.Background(), "u1", "ghost"); err != util.ErrItemNotFound {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
}
