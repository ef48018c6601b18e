package service

import (
	"context"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
	"finstar_backend/pkg/monitoring"
)

// CheckInResult 签到响应；当日已签到时 Success=false 且带 AlreadyCheckedIn
type CheckInResult struct {
	Success          bool   `json:"success"`
	AlreadyCheckedIn bool   `json:"alreadyCheckedIn,omitempty"`
	Message          string `json:"message,omitempty"`
	StreakDays       int64  `json:"streakDays"`
	XPEarned         int64  `json:"xpEarned,omitempty"`
	CoinsEarned      int64  `json:"coinsEarned,omitempty"`
	Milestone        *int64 `json:"milestone,omitempty"`
	TotalXP          int64  `json:"totalXp,omitempty"`
	Level            int64  `json:"level,omitempty"`
}

type CheckInService struct {
	Store   docstore.Store
	History *repository.CheckInRepository
	Hooks   *ProgressHooks
	Now     func() time.Time
}

// NewCheckInService 创建签到服务
func NewCheckInService(store docstore.Store, history *repository.CheckInRepository, hooks *ProgressHooks) *CheckInService {
	return &CheckInService{Store: store, History: history, Hooks: hooks, Now: time.Now}
}

// CheckIn 处理每日签到：连击推进、奖励发放、历史记录，同一事务完成
func (s *CheckInService) CheckIn(ctx context.Context, uid string) (*CheckInResult, error) {
	now := s.Now()
	today := util.DateIST(now)
	yesterday := util.YesterdayIST(now)

	var result *CheckInResult
	err := docstore.RunTransaction(ctx, s.Store, func(tx *docstore.Tx) error {
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

		todaySnap, err := tx.Get(ctx, repository.CheckInPath(uid, today))
		if err != nil {
			return err
		}
		if todaySnap.Exists {
			result = &CheckInResult{
				Success:          false,
				AlreadyCheckedIn: true,
				Message:          "Already checked in today",
				StreakDays:       user.StreakDays,
			}
			return nil
		}

		// 昨天活跃则连击 +1，否则从 1 重新起算
		streak := int64(1)
		if user.LastActiveDate == yesterday {
			streak = user.StreakDays + 1
		}

		reward, milestone := CheckInReward(streak)
		newXP := user.XP + reward.XP
		info := LevelFromXP(newXP)

		tx.Update(repository.UserPath(uid), map[string]any{
			"xp":               docstore.Increment(reward.XP),
			"level":            info.Level,
			"coins":            docstore.Increment(reward.Coins),
			"totalCoinsEarned": docstore.Increment(reward.Coins),
			"streakDays":       streak,
			"lastActiveDate":   today,
			"lastCheckInAt":    now.UTC().Format(time.RFC3339),
			"totalCheckIns":    docstore.Increment(1),
		})

		record := &model.CheckInRecord{
			Date:        today,
			StreakDay:   streak,
			XPEarned:    reward.XP,
			CoinsEarned: reward.Coins,
			Milestone:   milestone,
			Timestamp:   now.UTC().Format(time.RFC3339),
		}
		tx.Set(repository.CheckInPath(uid, today), repository.CheckInFields(record))

		result = &CheckInResult{
			Success:     true,
			StreakDays:  streak,
			XPEarned:    reward.XP,
			CoinsEarned: reward.Coins,
			Milestone:   milestone,
			TotalXP:     newXP,
			Level:       info.Level,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Success {
		monitoring.ObserveReward("check_in", result.XPEarned, result.CoinsEarned)
		s.Hooks.AfterAction(uid, model.ChallengeEvent{
			XPEarned:    result.XPEarned,
			CoinsEarned: result.CoinsEarned,
		})
	}
	return result, nil
}

// HistoryRecords 最近签到历史
func (s *CheckInService) HistoryRecords(ctx context.Context, uid string, limit int) ([]*model.CheckInRecord, error) {
	if limit <= 0 || limit > 90 {
		limit = 30
	}
	return s.History.History(ctx, uid, limit)
}
