package repository

import (
	"context"

	"finstar_backend/internal/model"
	"finstar_backend/pkg/docstore"
)

type AchievementRepository struct {
	Store docstore.Store
}

// NewAchievementRepository 创建成就仓库实例
func NewAchievementRepository(store docstore.Store) *AchievementRepository {
	return &AchievementRepository{Store: store}
}

// FindAll 读取用户全部成就文档，按 ID 建索引
func (r *AchievementRepository) FindAll(ctx context.Context, uid string) (map[string]*model.Achievement, error) {
	snaps, err := r.Store.Query(ctx, docstore.CollectionQuery(AchievementsCollection(uid)))
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.Achievement, len(snaps))
	for _, snap := range snaps {
		var a model.Achievement
		if err := snap.DataTo(&a); err != nil {
			return nil, err
		}
		a.ID = snap.ID()
		out[a.ID] = &a
	}
	return out, nil
}

// AchievementFields 成就落库字段
func AchievementFields(a *model.Achievement) map[string]any {
	fields := map[string]any{
		"id":              a.ID,
		"name":            a.Name,
		"description":     a.Description,
		"target":          a.Target,
		"currentProgress": a.CurrentProgress,
		"unlocked":        a.Unlocked,
		"xpReward":        a.XPReward,
		"coinReward":      a.CoinReward,
	}
	if a.UnlockedAt != "" {
		fields["unlockedAt"] = a.UnlockedAt
	}
	return fields
}
