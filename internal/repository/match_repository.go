package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// 对战状态的存活时长，完结后靠 TTL 自然回收
const matchTTL = 2 * time.Hour

type MatchRepository struct {
	Redis *redis.Client
}

// NewMatchRepository 创建对战仓库实例
func NewMatchRepository(rdb *redis.Client) *MatchRepository {
	return &MatchRepository{Redis: rdb}
}

// Find 读取对战状态，不存在返回 ErrMatchNotFound
func (r *MatchRepository) Find(ctx context.Context, matchID string) (*model.QuizMatch, error) {
	raw, err := r.Redis.Get(ctx, KeyQuizMatch(matchID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	var match model.QuizMatch
	if err := json.Unmarshal([]byte(raw), &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// Save 整体写回对战状态并刷新 TTL
func (r *MatchRepository) Save(ctx context.Context, match *model.QuizMatch) error {
	raw, err := json.Marshal(match)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, KeyQuizMatch(match.ID), raw, matchTTL).Err()
}

// Delete 删除对战并把它移出等待队列
func (r *MatchRepository) Delete(ctx context.Context, match *model.QuizMatch) error {
	pipe := r.Redis.TxPipeline()
	pipe.Del(ctx, KeyQuizMatch(match.ID))
	pipe.SRem(ctx, KeyQuizWaiting(match.Category), match.ID)
	_, err := pipe.Exec(ctx)
	return err
}

// AddWaiting 把对战放进分类等待队列
func (r *MatchRepository) AddWaiting(ctx context.Context, category, matchID string) error {
	pipe := r.Redis.TxPipeline()
	pipe.SAdd(ctx, KeyQuizWaiting(category), matchID)
	pipe.Expire(ctx, KeyQuizWaiting(category), matchTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// RemoveWaiting 把对战移出等待队列
func (r *MatchRepository) RemoveWaiting(ctx context.Context, category, matchID string) error {
	return r.Redis.SRem(ctx, KeyQuizWaiting(category), matchID).Err()
}

// PopWaiting 随机取出一个等待中的对战 ID，队列为空返回空串
func (r *MatchRepository) PopWaiting(ctx context.Context, category string) (string, error) {
	matchID, err := r.Redis.SPop(ctx, KeyQuizWaiting(category)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return matchID, err
}
