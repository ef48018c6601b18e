package docstore

import (
	"context"
	"errors"
	"testing"
)

func TestTransactionCommitsOnce(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, "users/u1", map[string]any{"coins": 100}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := RunTransaction(ctx, store, func(tx *Tx) error {
		snap, err := tx.Get(ctx, "users/u1")
		if err != nil {
			return err
		}
		coins := snap.Int("coins")
		tx.Update("users/u1", map[string]any{"coins": coins - 30})
		tx.Set("users/u1/inventory/hat", map[string]any{"itemId": "hat"})
		// 事务内读不到自己缓冲的写入
		again, err := tx.Get(ctx, "users/u1/inventory/hat")
		if err != nil {
			return err
		}
		if again.Exists {
			t.Error("buffered write must not be visible to tx reads")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	snap, _ := store.Get(ctx, "users/u1")
	if got := snap.Int("coins"); got != 70 {
		t.Errorf("coins = %d, want 70", got)
	}
	item, _ := store.Get(ctx, "users/u1/inventory/hat")
	if !item.Exists {
		t.Error("inventory doc should exist after commit")
	}
}

func TestTransactionRollbackOnError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, "users/u1", map[string]any{"coins": 100}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sentinel := errors.New("insufficient coins")
	err := RunTransaction(ctx, store, func(tx *Tx) error {
		tx.Update("users/u1", map[string]any{"coins": 0})
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	snap, _ := store.Get(ctx, "users/u1")
	if got := snap.Int("coins"); got != 100 {
		t.Errorf("coins = %d after rollback, want 100", got)
	}
}

func TestTransactionReadCache(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, "users/u1", map[string]any{"xp": 10}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := RunTransaction(ctx, store, func(tx *Tx) error {
		first, err := tx.Get(ctx, "users/u1")
		if err != nil {
			return err
		}
		// 事务外的并发写入不影响已缓存的读取
		if err := store.Set(ctx, "users/u1", map[string]any{"xp": 999}); err != nil {
			return err
		}
		second, err := tx.Get(ctx, "users/u1")
		if err != nil {
			return err
		}
		if first.Int("xp") != second.Int("xp") {
			t.Errorf("cached read changed: %d vs %d", first.Int("xp"), second.Int("xp"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}
