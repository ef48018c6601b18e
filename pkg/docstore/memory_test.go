package docstore

import (
	"context"
	"testing"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	snap, err := store.Get(ctx, "users/u1")
	if err != nil {
		t.Fatalf("get missing doc: %v", err)
	}
	if snap.Exists {
		t.Error("missing doc should report Exists=false")
	}

	if err := store.Set(ctx, "users/u1", map[string]any{"xp": 100, "displayName": "Asha"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	snap, err = store.Get(ctx, "users/u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !snap.Exists {
		t.Fatal("doc should exist after set")
	}
	if got := snap.Int("xp"); got != 100 {
		t.Errorf("xp = %d, want 100", got)
	}
	if got := snap.Str("displayName"); got != "Asha" {
		t.Errorf("displayName = %q, want Asha", got)
	}

	if err := store.Delete(ctx, "users/u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	snap, _ = store.Get(ctx, "users/u1")
	if snap.Exists {
		t.Error("doc should be gone after delete")
	}
}

func TestMemoryStoreUpdateIncrement(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Update(ctx, "users/u1", map[string]any{"coins": Increment(5)}); err == nil {
		t.Error("update on missing doc should fail")
	}

	if err := store.Set(ctx, "users/u1", map[string]any{"coins": 200, "level": 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Update(ctx, "users/u1", map[string]any{"coins": Increment(-50), "level": 2}); err != nil {
		t.Fatalf("update: %v", err)
	}
	snap, _ := store.Get(ctx, "users/u1")
	if got := snap.Int("coins"); got != 150 {
		t.Errorf("coins = %d, want 150", got)
	}
	if got := snap.Int("level"); got != 2 {
		t.Errorf("level = %d, want 2", got)
	}
}

func TestMemoryStoreCommitAtomicity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	batch := NewBatch().
		Set("users/u1", map[string]any{"xp": 10}).
		Update("users/missing", map[string]any{"xp": Increment(1)})
	if err := store.Commit(ctx, batch); err == nil {
		t.Fatal("commit with failing update should error")
	}
	snap, _ := store.Get(ctx, "users/u1")
	if snap.Exists {
		t.Error("failed commit must not apply any write")
	}
}

func TestMemoryStoreQuery(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	users := []struct {
		id string
		xp int
	}{{"a", 300}, {"b", 100}, {"c", 500}, {"d", 200}}
	for _, u := range users {
		if err := store.Set(ctx, "users/"+u.id, map[string]any{"xp": u.xp, "streakDays": 3}); err != nil {
			t.Fatalf("set %s: %v", u.id, err)
		}
	}
	// 子集合文档不应出现在父集合查询里
	if err := store.Set(ctx, "users/a/progress/quiz_battle", map[string]any{"xp": 999}); err != nil {
		t.Fatalf("set subdoc: %v", err)
	}

	snaps, err := store.Query(ctx, CollectionQuery("users").
		Where("xp", OpGreater, 150).
		OrderBy("xp", true).
		WithLimit(2))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d docs, want 2", len(snaps))
	}
	if snaps[0].ID() != "c" || snaps[1].ID() != "a" {
		t.Errorf("order = %s,%s, want c,a", snaps[0].ID(), snaps[1].ID())
	}

	n, err := store.Count(ctx, CollectionQuery("users").Where("streakDays", OpGreater, 0))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Errorf("count = %d, want 4", n)
	}
}
