package service

import (
	"context"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
)

// PurchaseResult 购买响应
type PurchaseResult struct {
	Success        bool   `json:"success"`
	ItemID         string `json:"itemId"`
	Price          int64  `json:"price"`
	CoinsRemaining int64  `json:"coinsRemaining"`
}

type StoreService struct {
	Store docstore.Store
	Items *repository.StoreRepository
	Now   func() time.Time
}

// NewStoreService 创建商店服务
func NewStoreService(store docstore.Store, items *repository.StoreRepository) *StoreService {
	return &StoreService{Store: store, Items: items, Now: time.Now}
}

// Purchase 购买商品：余额校验、扣款、入库在同一事务
// 扣款是系统里唯一的负向金币变动，totalCoinsEarned 不受影响。
func (s *StoreService) Purchase(ctx context.Context, uid, itemID string) (*PurchaseResult, error) {
	if itemID == "" {
		return nil, util.Invalid("itemId is required")
	}
	item, err := s.Items.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	var result *PurchaseResult
	err = docstore.RunTransaction(ctx, s.Store, func(tx *docstore.Tx) error {
		userSnap, err := tx.Get(ctx, repository.UserPath(uid))
		if err != nil {
			return err
		}
		if !userSnap.Exists {
			return util.ErrUserNotFound
		}
		var user model.User
		if err := userSnap.DataTo(&user); err != nil {
			return err
		}

		owned, err := tx.Get(ctx, repository.InventoryPath(uid, itemID))
		if err != nil {
			return err
		}
		if owned.Exists {
			return util.ErrItemAlreadyOwned
		}
		if user.Coins < item.Price {
			return util.ErrInsufficientCoins
		}

		tx.Update(repository.UserPath(uid), map[string]any{
			"coins": docstore.Increment(-item.Price),
		})
		tx.Set(repository.InventoryPath(uid, itemID), map[string]any{
			"itemId":      itemID,
			"itemType":    item.ItemType,
			"purchasedAt": now.UTC().Format(time.RFC3339),
		})

		result = &PurchaseResult{
			Success:        true,
			ItemID:         itemID,
			Price:          item.Price,
			CoinsRemaining: user.Coins - item.Price,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Catalog 商品目录
func (s *StoreService) Catalog(ctx context.Context) ([]*model.StoreItem, error) {
	return s.Items.ListItems(ctx)
}

// Inventory 用户已购列表
func (s *StoreService) Inventory(ctx context.Context, uid string) ([]*model.InventoryItem, error) {
	snaps, err := s.Store.Query(ctx, docstore.CollectionQuery(repository.InventoryCollection(uid)))
	if err != nil {
		return nil, err
	}
	items := make([]*model.InventoryItem, 0, len(snaps))
	for _, snap := range snaps {
		var item model.InventoryItem
		if err := snap.DataTo(&item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}
