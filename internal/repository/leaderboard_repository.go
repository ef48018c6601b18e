package repository

import (
	"context"
	"strconv"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/pkg/docstore"

	"github.com/go-redis/redis/v8"
)

type LeaderboardRepository struct {
	Store docstore.Store
	Redis *redis.Client
}

// NewLeaderboardRepository 创建排行榜仓库实例
func NewLeaderboardRepository(store docstore.Store, rdb *redis.Client) *LeaderboardRepository {
	return &LeaderboardRepository{Store: store, Redis: rdb}
}

// FindSnapshot 读取赛季快照文档，不存在返回 nil
func (r *LeaderboardRepository) FindSnapshot(ctx context.Context, seasonID string) (*model.LeaderboardSnapshot, error) {
	snap, err := r.Store.Get(ctx, LeaderboardPath(seasonID))
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, nil
	}
	var board model.LeaderboardSnapshot
	if err := snap.DataTo(&board); err != nil {
		return nil, err
	}
	return &board, nil
}

// SaveSnapshot 写入赛季快照文档
func (r *LeaderboardRepository) SaveSnapshot(ctx context.Context, board *model.LeaderboardSnapshot) error {
	rankings := make([]any, 0, len(board.Rankings))
	for _, e := range board.Rankings {
		rankings = append(rankings, map[string]any{
			"rank":        e.Rank,
			"uid":         e.UID,
			"displayName": e.DisplayName,
			"xp":          e.XP,
			"level":       e.Level,
			"avatarUrl":   e.AvatarURL,
		})
	}
	return r.Store.Set(ctx, LeaderboardPath(board.SeasonID), map[string]any{
		"seasonId":   board.SeasonID,
		"period":     board.Period,
		"rankings":   rankings,
		"totalUsers": board.TotalUsers,
		"updatedAt":  board.UpdatedAt,
	})
}

// ReplaceLive 全量重建实时镜像：重建 zset 并逐条写入条目 hash
func (r *LeaderboardRepository) ReplaceLive(ctx context.Context, entries []model.LeaderboardEntry) error {
	pipe := r.Redis.TxPipeline()
	pipe.Del(ctx, KeyLeaderboardLive)
	for _, e := range entries {
		pipe.ZAdd(ctx, KeyLeaderboardLive, &redis.Z{Score: float64(e.XP), Member: e.UID})
		pipe.HSet(ctx, KeyLeaderboardEntry(e.UID), entryFields(e))
		pipe.Expire(ctx, KeyLeaderboardEntry(e.UID), 48*time.Hour)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// UpdateLiveEntry 单用户进榜或刷新
func (r *LeaderboardRepository) UpdateLiveEntry(ctx context.Context, e model.LeaderboardEntry) error {
	pipe := r.Redis.TxPipeline()
	pipe.ZAdd(ctx, KeyLeaderboardLive, &redis.Z{Score: float64(e.XP), Member: e.UID})
	pipe.HSet(ctx, KeyLeaderboardEntry(e.UID), entryFields(e))
	pipe.Expire(ctx, KeyLeaderboardEntry(e.UID), 48*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

// LiveTop 实时镜像前 n 名，镜像为空返回空切片
func (r *LeaderboardRepository) LiveTop(ctx context.Context, n int64) ([]model.LeaderboardEntry, error) {
	uids, err := r.Redis.ZRevRange(ctx, KeyLeaderboardLive, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]model.LeaderboardEntry, 0, len(uids))
	for i, uid := range uids {
		fields, err := r.Redis.HGetAll(ctx, KeyLeaderboardEntry(uid)).Result()
		if err != nil {
			return nil, err
		}
		entry := entryFromFields(uid, fields)
		entry.Rank = int64(i + 1)
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryFields(e model.LeaderboardEntry) map[string]interface{} {
	return map[string]interface{}{
		"displayName": e.DisplayName,
		"xp":          e.XP,
		"level":       e.Level,
		"avatarUrl":   e.AvatarURL,
	}
}

func entryFromFields(uid string, fields map[string]string) model.LeaderboardEntry {
	entry := model.LeaderboardEntry{UID: uid, DisplayName: fields["displayName"], AvatarURL: fields["avatarUrl"]}
	entry.XP, _ = strconv.ParseInt(fields["xp"], 10, 64)
	entry.Level, _ = strconv.ParseInt(fields["level"], 10, 64)
	return entry
}
