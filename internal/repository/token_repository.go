package repository

import (
	"context"

	"finstar_backend/internal/model"
	"finstar_backend/pkg/docstore"
)

type TokenRepository struct {
	Store docstore.Store
}

// NewTokenRepository 创建推送令牌仓库实例
func NewTokenRepository(store docstore.Store) *TokenRepository {
	return &TokenRepository{Store: store}
}

// ListTokens 用户名下所有推送令牌
func (r *TokenRepository) ListTokens(ctx context.Context, uid string) ([]string, error) {
	snaps, err := r.Store.Query(ctx, docstore.CollectionQuery(FCMTokensCollection(uid)))
	if err != nil {
		return nil, err
	}
	tokens := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		tokens = append(tokens, snap.ID())
	}
	return tokens, nil
}

// SaveToken 注册或刷新令牌，文档 ID 即令牌本身
func (r *TokenRepository) SaveToken(ctx context.Context, uid string, token *model.FCMToken) error {
	return r.Store.Set(ctx, FCMTokenPath(uid, token.Token), map[string]any{
		"token":     token.Token,
		"platform":  token.Platform,
		"updatedAt": token.UpdatedAt,
	})
}

// DeleteToken 移除失效令牌
func (r *TokenRepository) DeleteToken(ctx context.Context, uid, token string) error {
	return r.Store.Delete(ctx, FCMTokenPath(uid, token))
}
