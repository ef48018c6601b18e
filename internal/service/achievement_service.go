package service

import (
	"context"
	"strings"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
	"finstar_backend/pkg/monitoring"
)

type AchievementService struct {
	Store        docstore.Store
	Achievements *repository.AchievementRepository
	Now          func() time.Time
}

// NewAchievementService 创建成就服务
func NewAchievementService(store docstore.Store, achievements *repository.AchievementRepository) *AchievementService {
	return &AchievementService{Store: store, Achievements: achievements, Now: time.Now}
}

// List 返回完整成就目录，已有文档覆盖目录默认值
func (s *AchievementService) List(ctx context.Context, uid string) ([]*model.Achievement, error) {
	stored, err := s.Achievements.FindAll(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Achievement, 0, len(achievementDefs))
	for _, def := range achievementDefs {
		if a, ok := stored[def.ID]; ok {
			out = append(out, a)
			continue
		}
		out = append(out, &model.Achievement{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Target:      def.Target,
			XPReward:    def.Reward.XP,
			CoinReward:  def.Reward.Coins,
		})
	}
	return out, nil
}

// CheckAndUnlock 对照当前统计推进成就进度，达标的当场解锁并发奖
// 解锁单调：一旦解锁不会因统计回退而重新锁定。
func (s *AchievementService) CheckAndUnlock(ctx context.Context, uid string) ([]model.UnlockedAchievement, error) {
	now := s.Now()
	var unlocked []model.UnlockedAchievement

	err := docstore.RunTransaction(ctx, s.Store, func(tx *docstore.Tx) error {
		unlocked = unlocked[:0]

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

		var totalReward Reward
		for _, def := range achievementDefs {
			stat := statForAchievement(def.ID, &user)

			snap, err := tx.Get(ctx, repository.AchievementPath(uid, def.ID))
			if err != nil {
				return err
			}
			current := model.Achievement{
				ID:          def.ID,
				Name:        def.Name,
				Description: def.Description,
				Target:      def.Target,
				XPReward:    def.Reward.XP,
				CoinReward:  def.Reward.Coins,
			}
			if snap.Exists {
				if err := snap.DataTo(&current); err != nil {
					return err
				}
			}
			if current.Unlocked {
				continue
			}

			// 进度单调不回退
			progress := maxInt64(current.CurrentProgress, minInt64(stat, def.Target))
			if stat >= def.Target {
				current.Unlocked = true
				current.CurrentProgress = def.Target
				current.UnlockedAt = now.UTC().Format(time.RFC3339)
				totalReward.XP += def.Reward.XP
				totalReward.Coins += def.Reward.Coins
				unlocked = append(unlocked, model.UnlockedAchievement{
					ID:         def.ID,
					Name:       def.Name,
					XPReward:   def.Reward.XP,
					CoinReward: def.Reward.Coins,
				})
				tx.Set(repository.AchievementPath(uid, def.ID), repository.AchievementFields(&current))
				continue
			}
			if progress != current.CurrentProgress || !snap.Exists {
				current.CurrentProgress = progress
				tx.Set(repository.AchievementPath(uid, def.ID), repository.AchievementFields(&current))
			}
		}

		if totalReward.XP > 0 || totalReward.Coins > 0 {
			info := LevelFromXP(user.XP + totalReward.XP)
			tx.Update(repository.UserPath(uid), map[string]any{
				"xp":               docstore.Increment(totalReward.XP),
				"level":            info.Level,
				"coins":            docstore.Increment(totalReward.Coins),
				"totalCoinsEarned": docstore.Increment(totalReward.Coins),
			})
			monitoring.ObserveReward("achievement", totalReward.XP, totalReward.Coins)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

// statForAchievement 成就对应的统计口径
func statForAchievement(id string, user *model.User) int64 {
	switch {
	case id == "first_game" || strings.HasPrefix(id, "games_"):
		return user.GamesPlayed
	case strings.HasPrefix(id, "lessons_"):
		return user.LessonsCompleted
	case strings.HasPrefix(id, "streak_"):
		return user.StreakDays
	case strings.HasPrefix(id, "level_"):
		return user.Level
	case id == "coins_1000":
		return user.TotalCoinsEarned
	}
	return 0
}
