package docstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestRESTStore(handler http.Handler) (*RESTStore, *httptest.Server) {
	srv := httptest.NewServer(handler)
	store := NewRESTStoreWithClient("demo-project", srv.Client(), srv.URL)
	return store, srv
}

func TestRESTStoreGet(t *testing.T) {
	store, srv := newTestRESTStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects/demo-project/databases/(default)/documents/users/u1":
			json.NewEncoder(w).Encode(map[string]any{
				"name": "projects/demo-project/databases/(default)/documents/users/u1",
				"fields": map[string]any{
					"xp":    map[string]any{"integerValue": "1250"},
					"level": map[string]any{"integerValue": "2"},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 404, "message": "not found", "status": "NOT_FOUND"},
			})
		}
	}))
	defer srv.Close()

	snap, err := store.Get(context.Background(), "users/u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !snap.Exists || snap.Int("xp") != 1250 {
		t.Errorf("snap = exists=%v xp=%d", snap.Exists, snap.Int("xp"))
	}

	missing, err := store.Get(context.Background(), "users/nobody")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing.Exists {
		t.Error("404 should map to Exists=false, not an error")
	}
}

func TestRESTStoreCommitEncoding(t *testing.T) {
	var captured map[string]any
	store, srv := newTestRESTStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/demo-project/databases/(default)/documents:commit" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]any{"writeResults": []any{}})
	}))
	defer srv.Close()

	batch := NewBatch().
		Update("users/u1", map[string]any{"coins": Increment(25), "streakDays": 4}).
		Delete("users/u1/dailyChallenges/2026-08-27")
	if err := store.Commit(context.Background(), batch); err != nil {
		t.Fatalf("commit: %v", err)
	}

	writes := captured["writes"].([]any)
	if len(writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(writes))
	}

	upd := writes[0].(map[string]any)
	if upd["currentDocument"].(map[string]any)["exists"] != true {
		t.Error("update must require document existence")
	}
	mask := upd["updateMask"].(map[string]any)["fieldPaths"].([]any)
	if len(mask) != 1 || mask[0] != "streakDays" {
		t.Errorf("updateMask = %v, want [streakDays]", mask)
	}
	transforms := upd["updateTransforms"].([]any)
	tr := transforms[0].(map[string]any)
	if tr["fieldPath"] != "coins" || tr["increment"].(map[string]any)["integerValue"] != "25" {
		t.Errorf("transform = %v", tr)
	}

	del := writes[1].(map[string]any)
	want := "projects/demo-project/databases/(default)/documents/users/u1/dailyChallenges/2026-08-27"
	if del["delete"] != want {
		t.Errorf("delete = %v, want %s", del["delete"], want)
	}
}

func TestRESTStoreQueryEncoding(t *testing.T) {
	store, srv := newTestRESTStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/demo-project/databases/(default)/documents:runQuery" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		sq := body["structuredQuery"].(map[string]any)
		from := sq["from"].([]any)[0].(map[string]any)
		if from["collectionId"] != "users" {
			t.Errorf("collectionId = %v", from["collectionId"])
		}
		if sq["limit"] != float64(100) {
			t.Errorf("limit = %v", sq["limit"])
		}
		json.NewEncoder(w).Encode([]any{
			map[string]any{"document": map[string]any{
				"name":   "projects/demo-project/databases/(default)/documents/users/u9",
				"fields": map[string]any{"xp": map[string]any{"integerValue": "900"}},
			}},
			map[string]any{"readTime": "2026-08-28T10:30:00Z"},
		})
	}))
	defer srv.Close()

	snaps, err := store.Query(context.Background(), CollectionQuery("users").
		OrderBy("xp", true).
		WithLimit(100))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("got %d snaps, want 1", len(snaps))
	}
	if snaps[0].Path != "users/u9" || snaps[0].Int("xp") != 900 {
		t.Errorf("snap = %s xp=%d", snaps[0].Path, snaps[0].Int("xp"))
	}
}
