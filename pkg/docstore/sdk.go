package docstore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SDKStore 基于官方 SDK 的文档存储实现
type SDKStore struct {
	client *firestore.Client
}

func NewSDKStore(ctx context.Context, projectID string, opts ...option.ClientOption) (*SDKStore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &SDKStore{client: client}, nil
}

func (s *SDKStore) Close() error {
	return s.client.Close()
}

func (s *SDKStore) Get(ctx context.Context, path string) (*Snapshot, error) {
	if err := validateDocPath(path); err != nil {
		return nil, err
	}
	snap, err := s.client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &Snapshot{Path: path, Exists: false}, nil
		}
		return nil, err
	}
	return NewSnapshot(path, snap.Data()), nil
}

func (s *SDKStore) Set(ctx context.Context, path string, data map[string]any) error {
	return s.Commit(ctx, NewBatch().Set(path, data))
}

func (s *SDKStore) Update(ctx context.Context, path string, data map[string]any) error {
	return s.Commit(ctx, NewBatch().Update(path, data))
}

func (s *SDKStore) Delete(ctx context.Context, path string) error {
	return s.Commit(ctx, NewBatch().Delete(path))
}

func (s *SDKStore) Commit(ctx context.Context, b *Batch) error {
	if b.Len() == 0 {
		return nil
	}
	batch := s.client.Batch()
	for _, w := range b.writes {
		if err := validateDocPath(w.Path); err != nil {
			return err
		}
		ref := s.client.Doc(w.Path)
		switch w.kind {
		case writeSet:
			batch.Set(ref, toSDKData(w.Data))
		case writeUpdate:
			batch.Update(ref, toSDKUpdates(w.Data))
		case writeDelete:
			batch.Delete(ref)
		}
	}
	if _, err := batch.Commit(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("commit: %w", ErrNotFound)
		}
		return err
	}
	return nil
}

func toSDKData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if inc, ok := v.(incrementValue); ok {
			out[k] = firestore.Increment(inc.N)
			continue
		}
		out[k] = v
	}
	return out
}

func toSDKUpdates(data map[string]any) []firestore.Update {
	updates := make([]firestore.Update, 0, len(data))
	for k, v := range data {
		value := v
		if inc, ok := v.(incrementValue); ok {
			value = firestore.Increment(inc.N)
		}
		updates = append(updates, firestore.Update{Path: k, Value: value})
	}
	return updates
}

func (s *SDKStore) Query(ctx context.Context, q Query) ([]*Snapshot, error) {
	fq, err := s.buildQuery(q)
	if err != nil {
		return nil, err
	}
	docs, err := fq.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	snaps := make([]*Snapshot, 0, len(docs))
	for _, d := range docs {
		path := q.Collection + "/" + d.Ref.ID
		snaps = append(snaps, NewSnapshot(path, d.Data()))
	}
	return snaps, nil
}

func (s *SDKStore) Count(ctx context.Context, q Query) (int64, error) {
	fq, err := s.buildQuery(q)
	if err != nil {
		return 0, err
	}
	result, err := fq.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, err
	}
	raw, ok := result["total"]
	if !ok {
		return 0, nil
	}
	value, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected aggregation result type %T", raw)
	}
	return value.GetIntegerValue(), nil
}

func (s *SDKStore) buildQuery(q Query) (firestore.Query, error) {
	if q.Collection == "" || len(strings.Split(q.Collection, "/"))%2 == 0 {
		return firestore.Query{}, fmt.Errorf("%w: %q is not a collection path", ErrInvalidPath, q.Collection)
	}
	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, string(f.Op), f.Value)
	}
	if q.OrderField != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderField, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq, nil
}
