package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentRow 文档表行，路径为主键，集合路径带索引供查询使用
type documentRow struct {
	Path       string         `gorm:"column:path;primaryKey;size:512"`
	Collection string         `gorm:"column:collection;index;size:512"`
	Data       datatypes.JSON `gorm:"column:data"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (documentRow) TableName() string { return "documents" }

// SQLStore 把文档落在关系库 JSON 列上的实现，自建部署用
// 等值过滤下推到 JSON 表达式，范围过滤与排序在集合行加载后于进程内完成。
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, path string) (*Snapshot, error) {
	if err := validateDocPath(path); err != nil {
		return nil, err
	}
	return getRow(ctx, s.db, path)
}

func getRow(ctx context.Context, db *gorm.DB, path string) (*Snapshot, error) {
	var row documentRow
	err := db.WithContext(ctx).Where("path = ?", path).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Snapshot{Path: path, Exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	fields, err := decodeRow(row)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(path, fields), nil
}

func decodeRow(row documentRow) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(row.Data, &fields); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", row.Path, err)
	}
	return fields, nil
}

func (s *SQLStore) Set(ctx context.Context, path string, data map[string]any) error {
	return s.Commit(ctx, NewBatch().Set(path, data))
}

func (s *SQLStore) Update(ctx context.Context, path string, data map[string]any) error {
	return s.Commit(ctx, NewBatch().Update(path, data))
}

func (s *SQLStore) Delete(ctx context.Context, path string) error {
	return s.Commit(ctx, NewBatch().Delete(path))
}

// Commit 单个数据库事务内按序执行写入，任一失败整体回滚
func (s *SQLStore) Commit(ctx context.Context, b *Batch) error {
	if b.Len() == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range b.writes {
			if err := validateDocPath(w.Path); err != nil {
				return err
			}
			if err := applyRowWrite(ctx, tx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyRowWrite(ctx context.Context, tx *gorm.DB, w Write) error {
	if w.kind == writeDelete {
		return tx.WithContext(ctx).Where("path = ?", w.Path).Delete(&documentRow{}).Error
	}

	var existing map[string]any
	snap, err := getRow(ctx, tx, w.Path)
	if err != nil {
		return err
	}
	if snap.Exists {
		existing = snap.Data()
	}
	next, err := applyWriteLocal(existing, w)
	if err != nil {
		return fmt.Errorf("sql commit: %w", err)
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", w.Path, err)
	}
	row := documentRow{
		Path:       w.Path,
		Collection: parentCollection(w.Path),
		Data:       raw,
		UpdatedAt:  time.Now(),
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLStore) Query(ctx context.Context, q Query) ([]*Snapshot, error) {
	db := s.db.WithContext(ctx).Model(&documentRow{}).Where("collection = ?", q.Collection)
	// 等值条件下推，剩余条件进程内复核
	for _, f := range q.Filters {
		if f.Op == OpEqual {
			switch v := f.Value.(type) {
			case string:
				db = db.Where(datatypes.JSONQuery("data").Equals(v, f.Field))
			case bool:
				db = db.Where(datatypes.JSONQuery("data").Equals(v, f.Field))
			}
		}
	}
	var rows []documentRow
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	snaps := make([]*Snapshot, 0, len(rows))
	for _, row := range rows {
		fields, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, NewSnapshot(row.Path, fields))
	}
	if q.OrderField == "" {
		sortByPath(snaps)
	}
	return applyQuery(snaps, q), nil
}

func (s *SQLStore) Count(ctx context.Context, q Query) (int64, error) {
	snaps, err := s.Query(ctx, Query{Collection: q.Collection, Filters: q.Filters})
	if err != nil {
		return 0, err
	}
	return int64(len(snaps)), nil
}
