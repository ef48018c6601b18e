package service

import (
	"context"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
	"finstar_backend/pkg/logger"

	"go.uber.org/zap"
)

// 快照与实时镜像都只保留前 100 名
const leaderboardSize = 100

type LeaderboardService struct {
	Store        docstore.Store
	Users        *repository.UserRepository
	Leaderboards *repository.LeaderboardRepository
	Now          func() time.Time
}

// NewLeaderboardService 创建排行榜服务
func NewLeaderboardService(store docstore.Store, users *repository.UserRepository, boards *repository.LeaderboardRepository) *LeaderboardService {
	return &LeaderboardService{Store: store, Users: users, Leaderboards: boards, Now: time.Now}
}

// RefreshResult 刷新响应
type RefreshResult struct {
	Success    bool   `json:"success"`
	Mode       string `json:"mode"`
	SeasonID   string `json:"seasonId"`
	TotalUsers int64  `json:"totalUsers,omitempty"`
	Rank       int64  `json:"rank,omitempty"`
}

// RefreshFull 全量重建：取经验前 100 的用户生成赛季快照并重建实时镜像
func (s *LeaderboardService) RefreshFull(ctx context.Context) (*RefreshResult, error) {
	now := s.Now()
	seasonID := util.SeasonID(now)

	top, err := s.Users.TopByXP(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	total, err := s.Users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	rankings := make([]model.LeaderboardEntry, 0, len(top))
	for i, user := range top {
		rankings = append(rankings, entryForUser(user, int64(i+1)))
	}

	board := &model.LeaderboardSnapshot{
		SeasonID:   seasonID,
		Period:     "monthly",
		Rankings:   rankings,
		TotalUsers: total,
		UpdatedAt:  now.UTC().Format(time.RFC3339),
	}
	if err := s.Leaderboards.SaveSnapshot(ctx, board); err != nil {
		return nil, err
	}
	// 实时镜像坏了可由下一次全量刷新修复，不阻塞快照
	if err := s.Leaderboards.ReplaceLive(ctx, rankings); err != nil {
		logger.Log.Warn("Live leaderboard rebuild failed", zap.Error(err))
	}

	return &RefreshResult{Success: true, Mode: "full", SeasonID: seasonID, TotalUsers: total}, nil
}

// RefreshUser 单用户名次刷新：名次 = 经验更高的用户数 + 1
func (s *LeaderboardService) RefreshUser(ctx context.Context, uid string) (*RefreshResult, error) {
	now := s.Now()
	user, err := s.Users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	higher, err := s.Users.CountWithMoreXP(ctx, user.XP)
	if err != nil {
		return nil, err
	}
	rank := higher + 1

	err = s.Store.Update(ctx, repository.UserPath(uid), map[string]any{
		"rank":          rank,
		"rankUpdatedAt": now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	if rank <= leaderboardSize {
		entry := entryForUser(user, rank)
		if err := s.Leaderboards.UpdateLiveEntry(ctx, entry); err != nil {
			logger.Log.Warn("Live leaderboard entry update failed",
				zap.String("uid", uid), zap.Error(err))
		}
	}

	return &RefreshResult{Success: true, Mode: "user", SeasonID: util.SeasonID(now), Rank: rank}, nil
}

// BoardResult 排行榜查询响应
type BoardResult struct {
	Success bool                       `json:"success"`
	Source  string                     `json:"source"`
	Board   *model.LeaderboardSnapshot `json:"leaderboard"`
}

// Current 当前赛季排行榜：优先实时镜像，镜像为空回落到快照
func (s *LeaderboardService) Current(ctx context.Context) (*BoardResult, error) {
	now := s.Now()
	seasonID := util.SeasonID(now)

	live, err := s.Leaderboards.LiveTop(ctx, leaderboardSize)
	if err != nil {
		logger.Log.Warn("Live leaderboard read failed", zap.Error(err))
	}
	if len(live) > 0 {
		return &BoardResult{
			Success: true,
			Source:  "live",
			Board: &model.LeaderboardSnapshot{
				SeasonID: seasonID,
				Period:   "monthly",
				Rankings: live,
			},
		}, nil
	}

	board, err := s.Leaderboards.FindSnapshot(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		board = &model.LeaderboardSnapshot{SeasonID: seasonID, Period: "monthly", Rankings: []model.LeaderboardEntry{}}
	}
	return &BoardResult{Success: true, Source: "snapshot", Board: board}, nil
}

// Season 指定赛季的快照
func (s *LeaderboardService) Season(ctx context.Context, seasonID string) (*BoardResult, error) {
	board, err := s.Leaderboards.FindSnapshot(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		board = &model.LeaderboardSnapshot{SeasonID: seasonID, Period: "monthly", Rankings: []model.LeaderboardEntry{}}
	}
	return &BoardResult{Success: true, Source: "snapshot", Board: board}, nil
}

func entryForUser(user *model.User, rank int64) model.LeaderboardEntry {
	name := user.DisplayName
	if name == "" {
		name = "Player"
	}
	return model.LeaderboardEntry{
		Rank:        rank,
		UID:         user.UID,
		DisplayName: name,
		XP:          user.XP,
		Level:       user.Level,
		AvatarURL:   user.AvatarURL,
	}
}
