package docstore

import "context"

// Tx 乐观事务：读取立即下发并按路径缓存，写入先缓冲，
// fn 正常返回后一次性原子提交。提交时不复核已读文档是否被并发修改，
// 并发冲突下以最后一次提交为准。
type Tx struct {
	store Store
	reads map[string]*Snapshot
	batch *Batch
}

// RunTransaction 以乐观事务方式执行 fn，fn 返回错误则不提交任何写入
func RunTransaction(ctx context.Context, s Store, fn func(tx *Tx) error) error {
	tx := &Tx{
		store: s,
		reads: make(map[string]*Snapshot),
		batch: NewBatch(),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if tx.batch.Len() == 0 {
		return nil
	}
	return s.Commit(ctx, tx.batch)
}

// Get 同一路径在事务内只读一次，后续命中缓存
func (t *Tx) Get(ctx context.Context, path string) (*Snapshot, error) {
	if snap, ok := t.reads[path]; ok {
		return snap, nil
	}
	snap, err := t.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	t.reads[path] = snap
	return snap, nil
}

func (t *Tx) Set(path string, data map[string]any) {
	t.batch.Set(path, data)
}

func (t *Tx) Update(path string, data map[string]any) {
	t.batch.Update(path, data)
}

func (t *Tx) Delete(path string) {
	t.batch.Delete(path)
}
