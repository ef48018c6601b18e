package repository

import (
	"context"

	"finstar_backend/internal/model"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
)

type StoreRepository struct {
	Store docstore.Store
}

// NewStoreRepository 创建商店仓库实例
func NewStoreRepository(store docstore.Store) *StoreRepository {
	return &StoreRepository{Store: store}
}

// FindItem 读取商品定义，不存在返回 ErrItemNotFound
func (r *StoreRepository) FindItem(ctx context.Context, itemID string) (*model.StoreItem, error) {
	snap, err := r.Store.Get(ctx, StoreItemPath(itemID))
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, util.ErrItemNotFound
	}
	var item model.StoreItem
	if err := snap.DataTo(&item); err != nil {
		return nil, err
	}
	item.ID = itemID
	return &item, nil
}

// ListItems 商品目录
func (r *StoreRepository) ListItems(ctx context.Context) ([]*model.StoreItem, error) {
	snaps, err := r.Store.Query(ctx, docstore.CollectionQuery(StoreItemsCollection()))
	if err != nil {
		return nil, err
	}
	items := make([]*model.StoreItem, 0, len(snaps))
	for _, snap := range snaps {
		var item model.StoreItem
		if err := snap.DataTo(&item); err != nil {
			return nil, err
		}
		item.ID = snap.ID()
		items = append(items, &item)
	}
	return items, nil
}
