package service

import (
	"context"
	"strings"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
)

// 新用户初始金币
const starterCoins = 200

// 搜索结果上限
const maxSearchLimit = 50

// UserService 用户档案服务
type UserService struct {
	Store    docstore.Store
	Users    *repository.UserRepository
	Progress *repository.ProgressRepository
	Now      func() time.Time
}

// NewUserService 创建用户服务实例
func NewUserService(store docstore.Store, users *repository.UserRepository, progress *repository.ProgressRepository) *UserService {
	return &UserService{Store: store, Users: users, Progress: progress, Now: time.Now}
}

// InitResult 初始化结果，Created 标记本次是否新建
type InitResult struct {
	Success bool        `json:"success"`
	Created bool        `json:"created"`
	User    *model.User `json:"user"`
}

// ProfileResult 档案视图，附带由经验推导的等级状态
type ProfileResult struct {
	Success   bool             `json:"success"`
	User      *model.User      `json:"user"`
	LevelInfo *model.LevelInfo `json:"levelInfo"`
}

// StatsResult 统计视图，含各游戏进度
type StatsResult struct {
	Success   bool                           `json:"success"`
	User      *model.User                    `json:"user"`
	LevelInfo *model.LevelInfo               `json:"levelInfo"`
	Games     map[string]*model.GameProgress `json:"games"`
}

// SearchResult 用户搜索结果
type SearchResult struct {
	Success bool                      `json:"success"`
	Results []*model.UserSearchResult `json:"results"`
}

// Init 首次登录时发放新手档案，已存在则原样返回
func (s *UserService) Init(ctx context.Context, uid, displayName, email string) (*InitResult, error) {
	existing, err := s.Users.FindByUID(ctx, uid)
	if err == nil {
		return &InitResult{Success: true, Created: false, User: existing}, nil
	}
	if err != util.ErrUserNotFound {
		return nil, err
	}

	now := s.Now()
	user := &model.User{
		UID:              uid,
		DisplayName:      displayName,
		DisplayNameLower: strings.ToLower(displayName),
		Email:            email,
		XP:               0,
		Level:            1,
		Coins:            starterCoins,
		StreakDays:       0,
		LastActiveDate:   util.DateIST(now),
		Rank:             nil,
		CreatedAt:        now.Format(time.RFC3339),
	}
	fields := map[string]interface{}{
		"displayName":      user.DisplayName,
		"displayNameLower": user.DisplayNameLower,
		"email":            user.Email,
		"xp":               int64(0),
		"level":            int64(1),
		"coins":            int64(starterCoins),
		"totalCoinsEarned": int64(0),
		"gamesPlayed":      int64(0),
		"lessonsCompleted": int64(0),
		"streakDays":       int64(0),
		"totalCheckIns":    int64(0),
		"lastActiveDate":   user.LastActiveDate,
		"rank":             nil,
		"createdAt":        user.CreatedAt,
	}
	if err := s.Store.Set(ctx, repository.UserPath(uid), fields); err != nil {
		return nil, err
	}
	return &InitResult{Success: true, Created: true, User: user}, nil
}

// Profile 读取用户档案
func (s *UserService) Profile(ctx context.Context, uid string) (*ProfileResult, error) {
	user, err := s.Users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{Success: true, User: user, LevelInfo: levelInfoFor(user.XP)}, nil
}

// Stats 读取用户档案及各游戏进度
func (s *UserService) Stats(ctx context.Context, uid string) (*StatsResult, error) {
	user, err := s.Users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	games, err := s.Progress.FindAll(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &StatsResult{
		Success:   true,
		User:      user,
		LevelInfo: levelInfoFor(user.XP),
		Games:     games,
	}, nil
}

// Search 按昵称前缀搜索用户，结果附带好友关系标志
func (s *UserService) Search(ctx context.Context, uid, query string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return &SearchResult{Success: true, Results: []*model.UserSearchResult{}}, nil
	}
	if limit <= 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	// 多取一条，过滤掉自己后仍能填满 limit
	users, err := s.Users.SearchByNamePrefix(ctx, query, limit+1)
	if err != nil {
		return nil, err
	}

	results := make([]*model.UserSearchResult, 0, len(users))
	for _, u := range users {
		if u.UID == uid {
			continue
		}
		if len(results) >= limit {
			break
		}
		isFriend, err := s.Users.HasFriend(ctx, uid, u.UID)
		if err != nil {
			return nil, err
		}
		isPending := false
		if !isFriend {
			isPending, err = s.Users.HasPendingRequest(ctx, uid, u.UID)
			if err != nil {
				return nil, err
			}
		}
		results = append(results, &model.UserSearchResult{
			UID:         u.UID,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			Level:       u.Level,
			IsFriend:    isFriend,
			IsPending:   isPending,
		})
	}
	return &SearchResult{Success: true, Results: results}, nil
}

func levelInfoFor(xp int64) *model.LevelInfo {
	info := LevelFromXP(xp)
	return &info
}
