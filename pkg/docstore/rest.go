package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"finstar_backend/pkg/gcp"
)

const firestoreScope = "https://www.googleapis.com/auth/datastore"

// RESTStore 直连 Firestore REST 协议的文档存储实现
// 批量写入走 documents:commit，自增通过 updateTransforms 下发，
// 保证并发下的增量语义而不是读改写覆盖。
type RESTStore struct {
	projectID string
	client    *http.Client

	// BaseURL 形如 https://firestore.googleapis.com/v1，测试可替换
	BaseURL string
}

func NewRESTStore(account gcp.ServiceAccount) (*RESTStore, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	ts := gcp.NewTokenSource(account, firestoreScope)
	return &RESTStore{
		projectID: account.ProjectID,
		client:    ts.HTTPClient(),
		BaseURL:   "https://firestore.googleapis.com/v1",
	}, nil
}

// NewRESTStoreWithClient 注入客户端，测试用
func NewRESTStoreWithClient(projectID string, client *http.Client, baseURL string) *RESTStore {
	return &RESTStore{projectID: projectID, client: client, BaseURL: baseURL}
}

func (s *RESTStore) rootPath() string {
	return fmt.Sprintf("projects/%s/databases/(default)/documents", s.projectID)
}

// docName 文档完整资源名
func (s *RESTStore) docName(path string) string {
	return s.rootPath() + "/" + path
}

func (s *RESTStore) Get(ctx context.Context, path string) (*Snapshot, error) {
	if err := validateDocPath(path); err != nil {
		return nil, err
	}
	var doc restDocument
	status, err := s.do(ctx, http.MethodGet, s.BaseURL+"/"+s.docName(path), nil, &doc)
	if err != nil {
		if status == http.StatusNotFound {
			return &Snapshot{Path: path, Exists: false}, nil
		}
		return nil, err
	}
	return NewSnapshot(path, decodeFields(doc.Fields)), nil
}

func (s *RESTStore) Set(ctx context.Context, path string, data map[string]any) error {
	return s.Commit(ctx, NewBatch().Set(path, data))
}

func (s *RESTStore) Update(ctx context.Context, path string, data map[string]any) error {
	return s.Commit(ctx, NewBatch().Update(path, data))
}

func (s *RESTStore) Delete(ctx context.Context, path string) error {
	return s.Commit(ctx, NewBatch().Delete(path))
}

func (s *RESTStore) Commit(ctx context.Context, b *Batch) error {
	if b.Len() == 0 {
		return nil
	}
	writes := make([]map[string]any, 0, b.Len())
	for _, w := range b.writes {
		if err := validateDocPath(w.Path); err != nil {
			return err
		}
		writes = append(writes, s.encodeWrite(w))
	}
	body := map[string]any{"writes": writes}
	url := s.BaseURL + "/" + s.rootPath() + ":commit"
	_, err := s.do(ctx, http.MethodPost, url, body, nil)
	return err
}

func (s *RESTStore) encodeWrite(w Write) map[string]any {
	name := s.docName(w.Path)
	switch w.kind {
	case writeDelete:
		return map[string]any{"delete": name}
	case writeSet:
		plain, transforms := splitTransforms(w.Data)
		out := map[string]any{
			"update": map[string]any{"name": name, "fields": encodeFields(plain)},
		}
		if len(transforms) > 0 {
			out["updateTransforms"] = transforms
		}
		return out
	default: // writeUpdate
		plain, transforms := splitTransforms(w.Data)
		fieldPaths := make([]string, 0, len(plain))
		for k := range plain {
			fieldPaths = append(fieldPaths, k)
		}
		out := map[string]any{
			"update":          map[string]any{"name": name, "fields": encodeFields(plain)},
			"updateMask":      map[string]any{"fieldPaths": fieldPaths},
			"currentDocument": map[string]any{"exists": true},
		}
		if len(transforms) > 0 {
			out["updateTransforms"] = transforms
		}
		return out
	}
}

// splitTransforms 把自增哨兵从普通字段中拆出，转成 updateTransforms 条目
func splitTransforms(data map[string]any) (map[string]any, []map[string]any) {
	plain := make(map[string]any, len(data))
	var transforms []map[string]any
	for k, v := range data {
		if inc, ok := v.(incrementValue); ok {
			transforms = append(transforms, map[string]any{
				"fieldPath": k,
				"increment": map[string]any{"integerValue": strconv.FormatInt(inc.N, 10)},
			})
			continue
		}
		plain[k] = v
	}
	return plain, transforms
}

func (s *RESTStore) Query(ctx context.Context, q Query) ([]*Snapshot, error) {
	parent, collectionID, err := splitCollection(q.Collection)
	if err != nil {
		return nil, err
	}
	sq := s.structuredQuery(collectionID, q)
	if q.Limit > 0 {
		sq["limit"] = q.Limit
	}
	if q.OrderField != "" {
		direction := "ASCENDING"
		if q.Desc {
			direction = "DESCENDING"
		}
		sq["orderBy"] = []map[string]any{
			{"field": map[string]any{"fieldPath": q.OrderField}, "direction": direction},
		}
	}
	url := s.queryParentURL(parent) + ":runQuery"
	var results []struct {
		Document *restDocument `json:"document"`
	}
	if _, err := s.do(ctx, http.MethodPost, url, map[string]any{"structuredQuery": sq}, &results); err != nil {
		return nil, err
	}
	snaps := make([]*Snapshot, 0, len(results))
	for _, r := range results {
		if r.Document == nil {
			continue
		}
		path := strings.TrimPrefix(r.Document.Name, s.rootPath()+"/")
		snaps = append(snaps, NewSnapshot(path, decodeFields(r.Document.Fields)))
	}
	return snaps, nil
}

func (s *RESTStore) Count(ctx context.Context, q Query) (int64, error) {
	parent, collectionID, err := splitCollection(q.Collection)
	if err != nil {
		return 0, err
	}
	body := map[string]any{
		"structuredAggregationQuery": map[string]any{
			"structuredQuery": s.structuredQuery(collectionID, q),
			"aggregations": []map[string]any{
				{"alias": "total", "count": map[string]any{}},
			},
		},
	}
	url := s.queryParentURL(parent) + ":runAggregationQuery"
	var results []struct {
		Result struct {
			AggregateFields map[string]map[string]any `json:"aggregateFields"`
		} `json:"result"`
	}
	if _, err := s.do(ctx, http.MethodPost, url, body, &results); err != nil {
		return 0, err
	}
	for _, r := range results {
		if v, ok := r.Result.AggregateFields["total"]; ok {
			n, _ := asInt64(decodeValue(v))
			return n, nil
		}
	}
	return 0, nil
}

func (s *RESTStore) structuredQuery(collectionID string, q Query) map[string]any {
	sq := map[string]any{
		"from": []map[string]any{{"collectionId": collectionID}},
	}
	if len(q.Filters) == 0 {
		return sq
	}
	fieldFilters := make([]map[string]any, 0, len(q.Filters))
	for _, f := range q.Filters {
		fieldFilters = append(fieldFilters, map[string]any{
			"fieldFilter": map[string]any{
				"field": map[string]any{"fieldPath": f.Field},
				"op":    restOp(f.Op),
				"value": encodeValue(f.Value),
			},
		})
	}
	if len(fieldFilters) == 1 {
		sq["where"] = fieldFilters[0]
	} else {
		sq["where"] = map[string]any{
			"compositeFilter": map[string]any{"op": "AND", "filters": fieldFilters},
		}
	}
	return sq
}

func restOp(op Op) string {
	switch op {
	case OpEqual:
		return "EQUAL"
	case OpLess:
		return "LESS_THAN"
	case OpLessOrEqual:
		return "LESS_THAN_OR_EQUAL"
	case OpGreater:
		return "GREATER_THAN"
	case OpGreaterOrEqual:
		return "GREATER_THAN_OR_EQUAL"
	case OpArrayContains:
		return "ARRAY_CONTAINS"
	}
	return "OPERATOR_UNSPECIFIED"
}

// splitCollection 把集合路径拆成父文档路径与末级集合 ID
func splitCollection(collection string) (parent, collectionID string, err error) {
	if collection == "" {
		return "", "", ErrInvalidPath
	}
	parts := strings.Split(collection, "/")
	if len(parts)%2 != 1 {
		return "", "", fmt.Errorf("%w: %q is not a collection path", ErrInvalidPath, collection)
	}
	collectionID = parts[len(parts)-1]
	parent = strings.Join(parts[:len(parts)-1], "/")
	return parent, collectionID, nil
}

func (s *RESTStore) queryParentURL(parent string) string {
	if parent == "" {
		return s.BaseURL + "/" + s.rootPath()
	}
	return s.BaseURL + "/" + s.rootPath() + "/" + parent
}

type restDocument struct {
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields"`
}

type restError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// do 发送请求并解码响应，返回 HTTP 状态码便于 404 判定
func (s *RESTStore) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("firestore request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return resp.StatusCode, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr restError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return resp.StatusCode, fmt.Errorf("firestore: %s (%s)", apiErr.Error.Message, apiErr.Error.Status)
		}
		return resp.StatusCode, fmt.Errorf("firestore: unexpected status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("firestore: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
