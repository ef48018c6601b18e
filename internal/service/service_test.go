package service

import (
	"context"
	"testing"
	"time"

	"finstar_backend/internal/repository"
	"finstar_backend/pkg/docstore"
)

// 固定在 IST 2025-06-15 的下午，避免测试跨越业务日界线
func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func seedUser(t *testing.T, store docstore.Store, uid string, overrides map[string]any) {
	t.Helper()
	fields := map[string]any{
		"displayName":      "Tester",
		"displayNameLower": "tester",
		"xp":               int64(0),
		"level":            int64(1),
		"coins":            int64(200),
		"totalCoinsEarned": int64(0),
		"gamesPlayed":      int64(0),
		"lessonsCompleted": int64(0),
		"streakDays":       int64(0),
		"totalCheckIns":    int64(0),
		"createdAt":        fixedNow().Format(time.RFC3339),
	}
	for k, v := range overrides {
		fields[k] = v
	}
	if err := store.Set(context.Background(), repository.UserPath(uid), fields); err != nil {
		t.Fatalf("seed user %s: %v", uid, err)
	}
}

func userField(t *testing.T, store docstore.Store, uid, field string) int64 {
	t.Helper()
	snap, err := store.Get(context.Background(), repository.UserPath(uid))
	if err != nil {
		t.Fatalf("get user %s: %v", uid, err)
	}
	if !snap.Exists {
		t.Fatalf("user %s does not exist", uid)
	}
	return snap.Int(field)
}
