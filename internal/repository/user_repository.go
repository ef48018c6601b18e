package repository

import (
	"context"
	"strings"

	"finstar_backend/internal/model"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
)

type UserRepository struct {
	Store docstore.Store
}

// NewUserRepository 创建用户仓库实例
func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{Store: store}
}

// FindByUID 读取用户文档，不存在返回 ErrUserNotFound
func (r *UserRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	snap, err := r.Store.Get(ctx, UserPath(uid))
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, util.ErrUserNotFound
	}
	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, err
	}
	user.UID = uid
	return &user, nil
}

// SearchByNamePrefix 按 displayNameLower 前缀检索用户
func (r *UserRepository) SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]*model.User, error) {
	lower := strings.ToLower(prefix)
	//  是 Unicode 私有区高位码点，构成前缀匹配的右边界
	q := docstore.CollectionQuery(UsersCollection()).
		Where("displayNameLower", docstore.OpGreaterOrEqual, lower).
		Where("displayNameLower", docstore.OpLessOrEqual, lower+"").
		WithLimit(limit)
	snaps, err := r.Store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeUsers(snaps)
}

// TopByXP 按经验降序取前 n 名
func (r *UserRepository) TopByXP(ctx context.Context, n int) ([]*model.User, error) {
	q := docstore.CollectionQuery(UsersCollection()).
		OrderBy("xp", true).
		WithLimit(n)
	snaps, err := r.Store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeUsers(snaps)
}

// CountUsers 用户总数
func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.Store.Count(ctx, docstore.CollectionQuery(UsersCollection()))
}

// CountWithMoreXP 经验高于给定值的用户数，用于推导全量名次
func (r *UserRepository) CountWithMoreXP(ctx context.Context, xp int64) (int64, error) {
	q := docstore.CollectionQuery(UsersCollection()).Where("xp", docstore.OpGreater, xp)
	return r.Store.Count(ctx, q)
}

// FindInactiveWithStreak 查询昨天之前活跃且连击未清零的用户
func (r *UserRepository) FindInactiveWithStreak(ctx context.Context, beforeDate string, limit int) ([]*model.User, error) {
	q := docstore.CollectionQuery(UsersCollection()).
		Where("lastActiveDate", docstore.OpLess, beforeDate).
		Where("streakDays", docstore.OpGreater, 0).
		WithLimit(limit)
	snaps, err := r.Store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeUsers(snaps)
}

// FindActiveOn 查询指定业务日活跃的用户
func (r *UserRepository) FindActiveOn(ctx context.Context, date string, limit int) ([]*model.User, error) {
	q := docstore.CollectionQuery(UsersCollection()).
		Where("lastActiveDate", docstore.OpEqual, date).
		WithLimit(limit)
	snaps, err := r.Store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeUsers(snaps)
}

// HasFriend 是否已是好友
func (r *UserRepository) HasFriend(ctx context.Context, uid, otherUID string) (bool, error) {
	snap, err := r.Store.Get(ctx, FriendPath(uid, otherUID))
	if err != nil {
		return false, err
	}
	return snap.Exists, nil
}

// HasPendingRequest 是否已向对方发出好友申请
func (r *UserRepository) HasPendingRequest(ctx context.Context, uid, otherUID string) (bool, error) {
	snap, err := r.Store.Get(ctx, SentFriendRequestPath(uid, otherUID))
	if err != nil {
		return false, err
	}
	return snap.Exists, nil
}

func decodeUsers(snaps []*docstore.Snapshot) ([]*model.User, error) {
	users := make([]*model.User, 0, len(snaps))
	for _, snap := range snaps {
		var user model.User
		if err := snap.DataTo(&user); err != nil {
			return nil, err
		}
		user.UID = snap.ID()
		users = append(users, &user)
	}
	return users, nil
}
