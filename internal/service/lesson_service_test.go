package service

import (
	"context"
	"testing"

	"finstar_backend/internal/repository"
	"finstar_backend/pkg/docstore"
)

func newLessonService(store docstore.Store) *LessonService {
	svc := NewLessonService(store, repository.NewLessonRepository(store), nil)
	svc.Now = fixedNow
	return svc
}

func TestLessonFirstCompletion(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newLessonService(store)

	res, err := svc.Complete(context.Background(), "u1", &LessonCompletion{
		LessonID:  "budgeting-101",
		QuizScore: i64(80),
		TimeSpent: 120,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !res.FirstCompletion {
		t.Error("expected first completion")
	}
	// 默认 50 + 80/10 = 58
	if res.XPEarned != 58 || res.CoinsEarned != 10 {
		t.Errorf("reward = %d/%d, want 58/10", res.XPEarned, res.CoinsEarned)
	}
	if got := userField(t, store, "u1", "lessonsCompleted"); got != 1 {
		t.Errorf("lessonsCompleted = %d, want 1", got)
	}
}

func TestLessonPerfectScoreBonus(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newLessonService(store)

	res, err := svc.Complete(context.Background(), "u1", &LessonCompletion{
		LessonID:  "budgeting-101",
		QuizScore: i64(100),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	// 50 + 10 + 满分加成 20 = 80，金币 10 + 5 = 15
	if res.XPEarned != 80 || res.CoinsEarned != 15 {
		t.Errorf("reward = %d/%d, want 80/15", res.XPEarned, res.CoinsEarned)
	}
}

func TestLessonReplayPaysReducedReward(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newLessonService(store)

	req := &LessonCompletion{LessonID: "budgeting-101", QuizScore: i64(80)}
	if _, err := svc.Complete(context.Background(), "u1", req); err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	res, err := svc.Complete(context.Background(), "u1", req)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	if res.FirstCompletion {
		t.Error("replay must not count as first completion")
	}
	// 58 * 0.2 = 11，10 * 0.2 = 2
	if res.XPEarned != 11 || res.CoinsEarned != 2 {
		t.Errorf("replay reward = %d/%d, want 11/2", res.XPEarned, res.CoinsEarned)
	}
	if got := userField(t, store, "u1", "lessonsCompleted"); got != 1 {
		t.Errorf("lessonsCompleted = %d, replay must not increment", got)
	}
}

func TestLessonReplayFloor(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newLessonService(store)

	req := &LessonCompletion{LessonID: "budgeting-101"}
	if _, err := svc.Complete(context.Background(), "u1", req); err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	res, err := svc.Complete(context.Background(), "u1", req)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	// 50*0.2=10 但金币 10*0.2=2 恰在保底
	if res.XPEarned != 10 || res.CoinsEarned != 2 {
		t.Errorf("replay reward = %d/%d, want 10/2", res.XPEarned, res.CoinsEarned)
	}
}

func TestLessonCustomReward(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	err := store.Set(context.Background(), repository.LessonPath("investing-201"), map[string]any{
		"id":         "investing-201",
		"title":      "Investing Basics",
		"xpReward":   int64(120),
		"coinReward": int64(40),
	})
	if err != nil {
		t.Fatalf("seed lesson: %v", err)
	}
	svc := newLessonService(store)

	res, err := svc.Complete(context.Background(), "u1", &LessonCompletion{LessonID: "investing-201"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if res.XPEarned != 120 || res.CoinsEarned != 40 {
		t.Errorf("reward = %d/%d, want 120/40", res.XPEarned, res.CoinsEarned)
	}
}

func TestLessonValidation(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newLessonService(store)

	if _, err := svc.Complete(context.Background(), "u1", &LessonCompletion{}); err == nil {
		t.Error("missing lessonId should fail")
	}
	if _, err := svc.Complete(context.Background(), "u1", &LessonCompletion{LessonID: "x", QuizScore: i64(200)}); err == nil {
		t.Error("quizScore above 100 should fail")
	}
	if _, err := svc.Complete(context.Background(), "u1", &LessonCompletion{LessonID: "x", TimeSpent: -1}); err == nil {
		t.Error("negative timeSpent should fail")
	}
}
