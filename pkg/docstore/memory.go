package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore 进程内文档存储，测试与本地开发用
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]any)}
}

func (m *MemoryStore) Get(ctx context.Context, path string) (*Snapshot, error) {
	if err := validateDocPath(path); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields, ok := m.docs[path]
	if !ok {
		return &Snapshot{Path: path, Exists: false}, nil
	}
	return NewSnapshot(path, cloneFields(fields)), nil
}

func (m *MemoryStore) Set(ctx context.Context, path string, data map[string]any) error {
	return m.Commit(ctx, NewBatch().Set(path, data))
}

func (m *MemoryStore) Update(ctx context.Context, path string, data map[string]any) error {
	return m.Commit(ctx, NewBatch().Update(path, data))
}

func (m *MemoryStore) Delete(ctx context.Context, path string) error {
	return m.Commit(ctx, NewBatch().Delete(path))
}

func (m *MemoryStore) Query(ctx context.Context, q Query) ([]*Snapshot, error) {
	m.mu.RLock()
	snaps := make([]*Snapshot, 0)
	for path, fields := range m.docs {
		if parentCollection(path) != q.Collection {
			continue
		}
		snaps = append(snaps, NewSnapshot(path, cloneFields(fields)))
	}
	m.mu.RUnlock()
	// 无排序条件时按路径稳定输出
	if q.OrderField == "" {
		sortByPath(snaps)
	}
	return applyQuery(snaps, q), nil
}

func (m *MemoryStore) Count(ctx context.Context, q Query) (int64, error) {
	snaps, err := m.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	return int64(len(snaps)), nil
}

// Commit 先在副本上求值所有写入，全部成功才替换，保证批次原子性
func (m *MemoryStore) Commit(ctx context.Context, b *Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make(map[string]map[string]any, len(b.writes))
	deleted := make(map[string]bool)
	for _, w := range b.writes {
		if err := validateDocPath(w.Path); err != nil {
			return err
		}
		existing, ok := staged[w.Path]
		if !ok && !deleted[w.Path] {
			existing = m.docs[w.Path]
		}
		next, err := applyWriteLocal(existing, w)
		if err != nil {
			return fmt.Errorf("memory commit: %w", err)
		}
		if next == nil {
			delete(staged, w.Path)
			deleted[w.Path] = true
			continue
		}
		staged[w.Path] = next
		deleted[w.Path] = false
	}
	for path, fields := range staged {
		m.docs[path] = fields
	}
	for path, gone := range deleted {
		if gone {
			delete(m.docs, path)
		}
	}
	return nil
}

func sortByPath(snaps []*Snapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		return strings.Compare(snaps[i].Path, snaps[j].Path) < 0
	})
}
