package repository

import (
	"context"

	"finstar_backend/internal/model"
	"finstar_backend/pkg/docstore"
)

type ChallengeRepository struct {
	Store docstore.Store
}

// NewChallengeRepository 创建每日挑战仓库实例
func NewChallengeRepository(store docstore.Store) *ChallengeRepository {
	return &ChallengeRepository{Store: store}
}

// FindByDate 读取某业务日的挑战集，不存在返回 nil
func (r *ChallengeRepository) FindByDate(ctx context.Context, uid, date string) (*model.DailyChallengeSet, error) {
	snap, err := r.Store.Get(ctx, DailyChallengePath(uid, date))
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, nil
	}
	var set model.DailyChallengeSet
	if err := snap.DataTo(&set); err != nil {
		return nil, err
	}
	return &set, nil
}

// Save 整体写入挑战集
func (r *ChallengeRepository) Save(ctx context.Context, uid string, set *model.DailyChallengeSet) error {
	return r.Store.Set(ctx, DailyChallengePath(uid, set.Date), ChallengeSetFields(set))
}

// ChallengeSetFields 挑战集落库字段
func ChallengeSetFields(set *model.DailyChallengeSet) map[string]any {
	challenges := make([]any, 0, len(set.Challenges))
	for _, ch := range set.Challenges {
		challenges = append(challenges, map[string]any{
			"id":          ch.ID,
			"type":        ch.Type,
			"title":       ch.Title,
			"description": ch.Description,
			"target":      ch.Target,
			"progress":    ch.Progress,
			"xpReward":    ch.XPReward,
			"coinReward":  ch.CoinReward,
			"completed":   ch.Completed,
			"claimed":     ch.Claimed,
		})
	}
	return map[string]any{
		"date":         set.Date,
		"challenges":   challenges,
		"generatedAt":  set.GeneratedAt,
		"allCompleted": set.AllCompleted,
		"allClaimed":   set.AllClaimed,
	}
}
