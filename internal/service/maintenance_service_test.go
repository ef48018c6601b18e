package service

import (
	"context"
	"testing"

	"finstar_backend/internal/repository"
	"finstar_backend/pkg/docstore"
)

func newMaintenanceService(store docstore.Store) *MaintenanceService {
	svc := NewMaintenanceService(store, repository.NewUserRepository(store))
	svc.Now = fixedNow
	return svc
}

func TestResetStreaks(t *testing.T) {
	store := docstore.NewMemoryStore()
	// 两天没来，连击应清零
	seedUser(t, store, "stale", map[string]any{
		"streakDays":     int64(5),
		"lastActiveDate": "2025-06-12",
	})
	// 昨天来过，连击保留
	seedUser(t, store, "yesterday", map[string]any{
		"streakDays":     int64(3),
		"lastActiveDate": "2025-06-14",
	})
	// 不活跃但本来就没有连击，不该出现在结果里
	seedUser(t, store, "nostreak", map[string]any{
		"streakDays":     int64(0),
		"lastActiveDate": "2025-06-01",
	})
	svc := newMaintenanceService(store)

	res, err := svc.ResetStreaks(context.Background(), false)
	if err != nil {
		t.Fatalf("ResetStreaks: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("count = %d, want 1", res.Count)
	}
	if got := userField(t, store, "stale", "streakDays"); got != 0 {
		t.Errorf("stale streakDays = %d, want 0", got)
	}
	if got := userField(t, store, "stale", "previousStreak"); got != 5 {
		t.Errorf("previousStreak = %d, want 5", got)
	}
	if got := userField(t, store, "yesterday", "streakDays"); got != 3 {
		t.Errorf("yesterday streakDays = %d, want untouched 3", got)
	}
}

func TestResetStreaksDryRun(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "stale", map[string]any{
		"streakDays":     int64(5),
		"lastActiveDate": "2025-06-10",
	})
	svc := newMaintenanceService(store)

	res, err := svc.ResetStreaks(context.Background(), true)
	if err != nil {
		t.Fatalf("ResetStreaks: %v", err)
	}
	if !res.DryRun || res.Count != 1 {
		t.Errorf("result = %+v, want dry-run count 1", res)
	}
	if len(res.Sample) != 1 || res.Sample[0] != "stale" {
		t.Errorf("sample = %v", res.Sample)
	}
	if got := userField(t, store, "stale", "streakDays"); got != 5 {
		t.Errorf("dry run must not modify data, streakDays = %d", got)
	}
}
