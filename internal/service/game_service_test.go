package service

import (
	"context"
	"testing"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
)

func newGameService(store docstore.Store) *GameService {
	svc := NewGameService(store, repository.NewProgressRepository(store), nil)
	svc.Now = fixedNow
	return svc
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }
func boolPtr(v bool) *bool   { return &v }

func TestSubmitUnknownGame(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newGameService(store)

	if _, err := svc.Submit(context.Background(), "u1", "poker", &GameSubmission{}); err != util.ErrInvalidGame {
		t.Fatalf("err = %v, want ErrInvalidGame", err)
	}
}

func TestSubmitLifeSwipe(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newGameService(store)

	sub := &GameSubmission{
		Score: i64(800),
		Seed:  "seed-1",
		Allocations: map[string]int64{
			"savings": 3000,
			"invest":  2000,
			"needs":   4000,
			"wants":   1000,
		},
	}
	res, err := svc.Submit(context.Background(), "u1", model.GameLifeSwipe, sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// savingsRate 50% -> +12（封顶），应急金达标 +8，分数 800 -> +16，基础 20，合计 50 封顶
	if res.XPEarned != 50 {
		t.Errorf("XPEarned = %d, want 50", res.XPEarned)
	}
	if res.CoinsEarned != 60 {
		t.Errorf("CoinsEarned = %d, want 60", res.CoinsEarned)
	}
	if res.Score != 800 {
		t.Errorf("Score = %d, want 800", res.Score)
	}
	if got := userField(t, store, "u1", "gamesPlayed"); got != 1 {
		t.Errorf("gamesPlayed = %d, want 1", got)
	}

	progress, err := svc.Progress.FindByGame(context.Background(), "u1", model.GameLifeSwipe)
	if err != nil {
		t.Fatalf("FindByGame: %v", err)
	}
	if progress.HighScore != 800 || progress.TimesPlayed != 1 {
		t.Errorf("progress = %+v", progress)
	}
	if progress.LastSeed != "seed-1" {
		t.Errorf("LastSeed = %q", progress.LastSeed)
	}
}

func TestSubmitAccumulatesProgressTotals(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newGameService(store)

	sub := &GameSubmission{
		Score: i64(800),
		Seed:  "seed-1",
		Allocations: map[string]int64{
			"savings": 3000,
			"invest":  2000,
			"needs":   4000,
			"wants":   1000,
		},
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(context.Background(), "u1", model.GameLifeSwipe, sub); err != nil {
			t.Fatalf("Submit %d: %v", i+1, err)
		}
	}

	snap, err := store.Get(context.Background(), repository.ProgressPath("u1", model.GameLifeSwipe))
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if !snap.Exists {
		t.Fatalf("progress document missing")
	}
	// 每局 50 XP / 60 金币，累计字段随局数增长
	if got := snap.Int("totalXp"); got != 100 {
		t.Errorf("totalXp = %d, want 100", got)
	}
	if got := snap.Int("totalCoins"); got != 120 {
		t.Errorf("totalCoins = %d, want 120", got)
	}
}

func TestSubmitLifeSwipeRejectsBadAllocations(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newGameService(store)

	sub := &GameSubmission{
		Score:       i64(500),
		Seed:        "seed-1",
		Allocations: map[string]int64{"savings": 9000},
	}
	if _, err := svc.Submit(context.Background(), "u1", model.GameLifeSwipe, sub); err == nil {
		t.Fatal("expected error for allocations not summing to 10000")
	}
	if got := userField(t, store, "u1", "gamesPlayed"); got != 0 {
		t.Errorf("gamesPlayed = %d, want 0 after rejected submission", got)
	}
}

func TestSubmitBudgetBlitz(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newGameService(store)

	sub := &GameSubmission{
		Score:            i64(400),
		Level:            i64(3),
		CorrectDecisions: i64(9),
		TotalDecisions:   i64(10),
	}
	res, err := svc.Submit(context.Background(), "u1", model.GameBudgetBlitz, sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// 400/10 + 3*5 + int(0.9*20) = 40+15+18 = 73
	if res.XPEarned != 73 {
		t.Errorf("XPEarned = %d, want 73", res.XPEarned)
	}
	if res.CoinsEarned != 58 {
		t.Errorf("CoinsEarned = %d, want 58", res.CoinsEarned)
	}
	if res.Accuracy == nil || *res.Accuracy != 90 {
		t.Errorf("Accuracy = %v, want 90", res.Accuracy)
	}
}

func TestSubmitBudgetBlitzXPCap(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newGameService(store)

	sub := &GameSubmission{
		Score:            i64(10000),
		Level:            i64(100),
		CorrectDecisions: i64(10),
		TotalDecisions:   i64(10),
	}
	res, err := svc.Submit(context.Background(), "u1", model.GameBudgetBlitz, sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.XPEarned != 100 {
		t.Errorf("XPEarned = %d, want capped 100", res.XPEarned)
	}
}

func TestSubmitQuizBattlePerfectWin(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newGameService(store)

	sub := &GameSubmission{
		CorrectAnswers: i64(10),
		TotalQuestions: i64(10),
		TimeBonus:      f64(30),
		IsWinner:       boolPtr(true),
	}
	res, err := svc.Submit(context.Background(), "u1", model.GameQuizBattle, sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// 100 + 30 + 50 + 25 = 205 -> 封顶 150
	if res.XPEarned != 150 {
		t.Errorf("XPEarned = %d, want 150", res.XPEarned)
	}
	if res.CoinsEarned != 90 {
		t.Errorf("CoinsEarned = %d, want 90", res.CoinsEarned)
	}
	if res.Score != 1030 {
		t.Errorf("Score = %d, want 1030", res.Score)
	}

	progress, err := svc.Progress.FindByGame(context.Background(), "u1", model.GameQuizBattle)
	if err != nil {
		t.Fatalf("FindByGame: %v", err)
	}
	if progress.PerfectScores != 1 || progress.Wins != 1 || progress.Losses != 0 {
		t.Errorf("progress = %+v", progress)
	}
}

func TestSubmitMarketExplorer(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newGameService(store)

	sub := &GameSubmission{
		InitialValue:   f64(10000),
		PortfolioValue: f64(11000),
		AssetsHeld:     i64(4),
		DecisionsMade:  i64(8),
	}
	res, err := svc.Submit(context.Background(), "u1", model.GameMarketExplorer, sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// ret 0.1：20 + min(5,30) + int(0.8*15)=12 + min(16,10)=10 = 47
	if res.XPEarned != 47 {
		t.Errorf("XPEarned = %d, want 47", res.XPEarned)
	}
	if res.CoinsEarned != 47 {
		t.Errorf("CoinsEarned = %d, want 47", res.CoinsEarned)
	}
	// score: min(max(0.1*500+500,0),800)=550 + 0.8*200=160 -> 710
	if res.Score != 710 {
		t.Errorf("Score = %d, want 710", res.Score)
	}
	if res.PortfolioReturn == nil || *res.PortfolioReturn != 10 {
		t.Errorf("PortfolioReturn = %v, want 10", res.PortfolioReturn)
	}
	if res.DiversificationScore == nil || *res.DiversificationScore != 80 {
		t.Errorf("DiversificationScore = %v, want 80", res.DiversificationScore)
	}

	progress, err := svc.Progress.FindByGame(context.Background(), "u1", model.GameMarketExplorer)
	if err != nil {
		t.Fatalf("FindByGame: %v", err)
	}
	if progress.BestReturn < 0.0999 || progress.BestReturn > 0.1001 {
		t.Errorf("BestReturn = %f, want 0.1", progress.BestReturn)
	}
}

func TestSubmitMarketExplorerLossKeepsNegativeBestReturn(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newGameService(store)

	sub := &GameSubmission{
		InitialValue:   f64(10000),
		PortfolioValue: f64(9000),
	}
	res, err := svc.Submit(context.Background(), "u1", model.GameMarketExplorer, sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// 亏损局只有基础 20，下限 10
	if res.XPEarned != 20 {
		t.Errorf("XPEarned = %d, want 20", res.XPEarned)
	}

	progress, err := svc.Progress.FindByGame(context.Background(), "u1", model.GameMarketExplorer)
	if err != nil {
		t.Fatalf("FindByGame: %v", err)
	}
	// 首局基线 -1，亏损 -0.1 仍应刷新它
	if progress.BestReturn > -0.0999 || progress.BestReturn < -0.1001 {
		t.Errorf("BestReturn = %f, want -0.1", progress.BestReturn)
	}
}

func TestSubmitLevelsUp(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", map[string]any{"xp": int64(980), "level": int64(1)})
	svc := newGameService(store)

	sub := &GameSubmission{
		CorrectAnswers: i64(5),
		TotalQuestions: i64(10),
		TimeBonus:      f64(0),
	}
	res, err := svc.Submit(context.Background(), "u1", model.GameQuizBattle, sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.LeveledUp || res.Level != 2 {
		t.Errorf("LeveledUp = %v Level = %d, want level up to 2", res.LeveledUp, res.Level)
	}
	if got := userField(t, store, "u1", "level"); got != 2 {
		t.Errorf("stored level = %d, want 2", got)
	}
}
