package repository

import (
	"context"

	"finstar_backend/internal/model"
	"finstar_backend/pkg/docstore"
)

type LessonRepository struct {
	Store docstore.Store
}

// NewLessonRepository 创建课程仓库实例
func NewLessonRepository(store docstore.Store) *LessonRepository {
	return &LessonRepository{Store: store}
}

// FindByID 读取课程定义，允许不存在（奖励走默认值）
func (r *LessonRepository) FindByID(ctx context.Context, lessonID string) (*model.Lesson, error) {
	snap, err := r.Store.Get(ctx, LessonPath(lessonID))
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, nil
	}
	var lesson model.Lesson
	if err := snap.DataTo(&lesson); err != nil {
		return nil, err
	}
	lesson.ID = lessonID
	return &lesson, nil
}
