package service

import (
	"context"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/pkg/logger"

	"go.uber.org/zap"
)

// ProgressHooks 主事务提交后的派生更新：每日挑战进度与成就判定。
// 异步执行，失败只记日志，不影响主流程的响应。
type ProgressHooks struct {
	Challenges   *ChallengeService
	Achievements *AchievementService
}

func NewProgressHooks(challenges *ChallengeService, achievements *AchievementService) *ProgressHooks {
	return &ProgressHooks{Challenges: challenges, Achievements: achievements}
}

func (h *ProgressHooks) AfterAction(uid string, event model.ChallengeEvent) {
	if h == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if h.Challenges != nil {
			if err := h.Challenges.ApplyEvent(ctx, uid, event); err != nil {
				logger.Log.Error("Challenge progress update failed",
					zap.String("uid", uid), zap.Error(err))
			}
		}
		if h.Achievements != nil {
			if _, err := h.Achievements.CheckAndUnlock(ctx, uid); err != nil {
				logger.Log.Error("Achievement check failed",
					zap.String("uid", uid), zap.Error(err))
			}
		}
	}()
}
