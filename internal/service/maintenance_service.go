package service

import (
	"context"
	"time"

	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
	"finstar_backend/pkg/logger"

	"go.uber.org/zap"
)

// 单批处理的用户数
const resetBatchSize = 500

// 预览模式返回的样例 UID 数
const resetSampleSize = 10

// MaintenanceService 定时维护任务：清零断签用户的连击
type MaintenanceService struct {
	Store docstore.Store
	Users *repository.UserRepository
	Now   func() time.Time
}

// NewMaintenanceService 创建维护服务实例
func NewMaintenanceService(store docstore.Store, users *repository.UserRepository) *MaintenanceService {
	return &MaintenanceService{Store: store, Users: users, Now: time.Now}
}

// StreakResetResult 连击清零结果
type StreakResetResult struct {
	Success bool     `json:"success"`
	DryRun  bool     `json:"dryRun"`
	Count   int      `json:"count"`
	Sample  []string `json:"sample,omitempty"`
}

// ResetStreaks 清零昨天之前最后活跃且连击未断的用户，dryRun 只统计不落库
func (s *MaintenanceService) ResetStreaks(ctx context.Context, dryRun bool) (*StreakResetResult, error) {
	now := s.Now()
	yesterday := util.YesterdayIST(now)
	resetAt := now.Format(time.RFC3339)

	result := &StreakResetResult{Success: true, DryRun: dryRun}
	for {
		users, err := s.Users.FindInactiveWithStreak(ctx, yesterday, resetBatchSize)
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			break
		}

		if dryRun {
			result.Count += len(users)
			for _, u := range users {
				if len(result.Sample) < resetSampleSize {
					result.Sample = append(result.Sample, u.UID)
				}
			}
			break
		}

		batch := docstore.NewBatch()
		for _, u := range users {
			batch.Update(repository.UserPath(u.UID), map[string]interface{}{
				"streakDays":     int64(0),
				"streakResetAt":  resetAt,
				"previousStreak": u.StreakDays,
			})
		}
		if err := s.Store.Commit(ctx, batch); err != nil {
			return nil, err
		}
		result.Count += len(users)
		if len(users) < resetBatchSize {
			break
		}
	}

	if !dryRun && result.Count > 0 {
		logger.Log.Info("Streak reset completed", zap.Int("count", result.Count))
	}
	return result, nil
}
