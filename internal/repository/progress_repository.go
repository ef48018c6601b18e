package repository

import (
	"context"

	"finstar_backend/internal/model"
	"finstar_backend/pkg/docstore"
)

type ProgressRepository struct {
	Store docstore.Store
}

// NewProgressRepository 创建游戏进度仓库实例
func NewProgressRepository(store docstore.Store) *ProgressRepository {
	return &ProgressRepository{Store: store}
}

// FindByGame 读取单个游戏进度，不存在返回零值进度
func (r *ProgressRepository) FindByGame(ctx context.Context, uid, gameID string) (*model.GameProgress, error) {
	snap, err := r.Store.Get(ctx, ProgressPath(uid, gameID))
	if err != nil {
		return nil, err
	}
	progress := &model.GameProgress{GameID: gameID}
	if !snap.Exists {
		return progress, nil
	}
	if err := snap.DataTo(progress); err != nil {
		return nil, err
	}
	progress.GameID = gameID
	return progress, nil
}

// FindAll 读取用户所有游戏进度
func (r *ProgressRepository) FindAll(ctx context.Context, uid string) (map[string]*model.GameProgress, error) {
	snaps, err := r.Store.Query(ctx, docstore.CollectionQuery(ProgressCollection(uid)))
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.GameProgress, len(snaps))
	for _, snap := range snaps {
		var progress model.GameProgress
		if err := snap.DataTo(&progress); err != nil {
			return nil, err
		}
		progress.GameID = snap.ID()
		out[snap.ID()] = &progress
	}
	return out, nil
}
