package repository

import (
	"context"

	"finstar_backend/internal/model"
	"finstar_backend/pkg/docstore"
)

type CheckInRepository struct {
	Store docstore.Store
}

// NewCheckInRepository 创建签到仓库实例
func NewCheckInRepository(store docstore.Store) *CheckInRepository {
	return &CheckInRepository{Store: store}
}

// History 按日期降序取最近的签到记录
func (r *CheckInRepository) History(ctx context.Context, uid string, limit int) ([]*model.CheckInRecord, error) {
	q := docstore.CollectionQuery(CheckInCollection(uid)).
		OrderBy("date", true).
		WithLimit(limit)
	snaps, err := r.Store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	records := make([]*model.CheckInRecord, 0, len(snaps))
	for _, snap := range snaps {
		var rec model.CheckInRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, nil
}

// CheckInFields 签到记录落库字段
func CheckInFields(rec *model.CheckInRecord) map[string]any {
	fields := map[string]any{
		"date":        rec.Date,
		"streakDay":   rec.StreakDay,
		"xpEarned":    rec.XPEarned,
		"coinsEarned": rec.CoinsEarned,
		"timestamp":   rec.Timestamp,
	}
	if rec.Milestone != nil {
		fields["milestone"] = *rec.Milestone
	} else {
		fields["milestone"] = nil
	}
	return fields
}
