package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidPath = errors.New("invalid document path")
)

// Store 文档存储统一接口
// 文档以斜杠路径寻址（如 users/{uid}/progress/{gameId}），内容为字段映射。
// 提供四种后端实现：REST 直连、官方 SDK、MySQL(JSON列) 以及内存实现（测试用）。
type Store interface {
	Get(ctx context.Context, path string) (*Snapshot, error)
	// Set 整体覆盖写入文档（不存在则创建）
	Set(ctx context.Context, path string, data map[string]any) error
	// Update 按字段局部更新，文档必须已存在；值可使用 Increment 做原子自增
	Update(ctx context.Context, path string, data map[string]any) error
	Delete(ctx context.Context, path string) error
	Query(ctx context.Context, q Query) ([]*Snapshot, error)
	Count(ctx context.Context, q Query) (int64, error)
	// Commit 原子提交一批写入
	Commit(ctx context.Context, b *Batch) error
}

// Snapshot 单个文档的读取结果
type Snapshot struct {
	Path   string
	Exists bool
	fields map[string]any
}

func NewSnapshot(path string, fields map[string]any) *Snapshot {
	return &Snapshot{Path: path, Exists: fields != nil, fields: fields}
}

func (s *Snapshot) ID() string {
	parts := strings.Split(s.Path, "/")
	return parts[len(parts)-1]
}

func (s *Snapshot) Data() map[string]any {
	if s.fields == nil {
		return map[string]any{}
	}
	return s.fields
}

// DataTo 通过 JSON 往返把文档字段解码到结构体
func (s *Snapshot) DataTo(v any) error {
	if !s.Exists {
		return ErrNotFound
	}
	raw, err := json.Marshal(s.fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (s *Snapshot) Int(field string) int64 {
	n, _ := asInt64(s.Data()[field])
	return n
}

func (s *Snapshot) Float(field string) float64 {
	f, _ := asFloat64(s.Data()[field])
	return f
}

func (s *Snapshot) Str(field string) string {
	v, _ := s.Data()[field].(string)
	return v
}

func (s *Snapshot) Bool(field string) bool {
	v, _ := s.Data()[field].(bool)
	return v
}

// incrementValue Update 中的原子自增哨兵值
type incrementValue struct {
	N int64
}

// Increment 返回字段自增哨兵，仅在 Update / Batch.Update 中有效
func Increment(n int64) any {
	return incrementValue{N: n}
}

type Op string

const (
	OpEqual          Op = "=="
	OpLess           Op = "<"
	OpLessOrEqual    Op = "<="
	OpGreater        Op = ">"
	OpGreaterOrEqual Op = ">="
	OpArrayContains  Op = "array-contains"
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query 集合查询：多个过滤条件恒为 AND 组合，单字段排序，可选条数上限
type Query struct {
	Collection string
	Filters    []Filter
	OrderField string
	Desc       bool
	Limit      int
}

func CollectionQuery(collection string) Query {
	return Query{Collection: collection}
}

func (q Query) Where(field string, op Op, value any) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: op, Value: value})
	return q
}

func (q Query) OrderBy(field string, desc bool) Query {
	q.OrderField = field
	q.Desc = desc
	return q
}

func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

type writeKind int

const (
	writeSet writeKind = iota
	writeUpdate
	writeDelete
)

type Write struct {
	kind writeKind
	Path string
	Data map[string]any
}

// Batch 单次原子提交的写入集合
type Batch struct {
	writes []Write
}

func NewBatch() *Batch { return &Batch{} }

func (b *Batch) Set(path string, data map[string]any) *Batch {
	b.writes = append(b.writes, Write{kind: writeSet, Path: path, Data: data})
	return b
}

func (b *Batch) Update(path string, data map[string]any) *Batch {
	b.writes = append(b.writes, Write{kind: writeUpdate, Path: path, Data: data})
	return b
}

func (b *Batch) Delete(path string) *Batch {
	b.writes = append(b.writes, Write{kind: writeDelete, Path: path})
	return b
}

func (b *Batch) Len() int { return len(b.writes) }

// parentCollection 返回文档路径所属集合（users/u1/progress/g1 -> users/u1/progress）
func parentCollection(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

func validateDocPath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}
	parts := strings.Split(path, "/")
	if len(parts)%2 != 0 {
		return fmt.Errorf("%w: %q must have an even number of segments", ErrInvalidPath, path)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: %q contains empty segment", ErrInvalidPath, path)
		}
	}
	return nil
}

// ---- 内存/SQL 后端共用的查询求值 ----

func matchFilters(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok {
			return false
		}
		switch f.Op {
		case OpEqual:
			if compareValues(v, f.Value) != 0 {
				return false
			}
		case OpLess:
			if compareValues(v, f.Value) >= 0 {
				return false
			}
		case OpLessOrEqual:
			if compareValues(v, f.Value) > 0 {
				return false
			}
		case OpGreater:
			if compareValues(v, f.Value) <= 0 {
				return false
			}
		case OpGreaterOrEqual:
			if compareValues(v, f.Value) < 0 {
				return false
			}
		case OpArrayContains:
			arr, ok := v.([]any)
			if !ok {
				return false
			}
			found := false
			for _, el := range arr {
				if compareValues(el, f.Value) == 0 {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compareValues 数值按 float64 比较，字符串按字典序，其余只支持相等判断
func compareValues(a, b any) int {
	if fa, ok := asFloat64(a); ok {
		if fb, ok := asFloat64(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		return strings.Compare(sa, sb)
	}
	ba, aok := a.(bool)
	bb, bok := b.(bool)
	if aok && bok {
		if ba == bb {
			return 0
		}
		if !ba {
			return -1
		}
		return 1
	}
	if fmt.Sprint(a) == fmt.Sprint(b) {
		return 0
	}
	return -1
}

func applyQuery(snaps []*Snapshot, q Query) []*Snapshot {
	out := make([]*Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if matchFilters(s.Data(), q.Filters) {
			out = append(out, s)
		}
	}
	if q.OrderField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			c := compareValues(out[i].Data()[q.OrderField], out[j].Data()[q.OrderField])
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// applyWriteLocal 内存/SQL 后端对单条写入的本地求值
func applyWriteLocal(existing map[string]any, w Write) (map[string]any, error) {
	switch w.kind {
	case writeSet:
		return cloneFields(resolveIncrements(nil, w.Data)), nil
	case writeUpdate:
		if existing == nil {
			return nil, fmt.Errorf("update %s: %w", w.Path, ErrNotFound)
		}
		merged := cloneFields(existing)
		for k, v := range resolveIncrements(existing, w.Data) {
			merged[k] = v
		}
		return merged, nil
	case writeDelete:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown write kind %d", w.kind)
}

// resolveIncrements 把自增哨兵折算成具体数值（缺失字段按 0 起算）
func resolveIncrements(existing, data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if inc, ok := v.(incrementValue); ok {
			base := int64(0)
			if existing != nil {
				base, _ = asInt64(existing[k])
			}
			out[k] = base + inc.N
			continue
		}
		out[k] = v
	}
	return out
}

func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		// 字段里出现不可序列化的值属于编程错误
		panic(fmt.Sprintf("docstore: unserializable fields: %v", err))
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("docstore: clone failed: %v", err))
	}
	return out
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case time.Time:
		return float64(n.UnixNano()), true
	}
	return 0, false
}
