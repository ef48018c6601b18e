package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
)

func newChallengeService(store docstore.Store) *ChallengeService {
	svc := NewChallengeService(store, repository.NewChallengeRepository(store))
	svc.Now = fixedNow
	svc.Rand = rand.New(rand.NewSource(1))
	return svc
}

func TestDailyGeneratesThreeChallenges(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newChallengeService(store)

	res, err := svc.Daily(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if !res.Generated {
		t.Error("expected first call to generate")
	}
	if res.Date != util.DateIST(fixedNow()) {
		t.Errorf("date = %s", res.Date)
	}
	if len(res.Set.Challenges) != 3 {
		t.Fatalf("challenge count = %d, want 3", len(res.Set.Challenges))
	}
	seen := map[string]bool{}
	for _, ch := range res.Set.Challenges {
		if seen[ch.Type] {
			t.Errorf("duplicate challenge type %s", ch.Type)
		}
		seen[ch.Type] = true
		if ch.Target <= 0 {
			t.Errorf("challenge %s target = %d", ch.ID, ch.Target)
		}
		if ch.XPReward <= 0 || ch.CoinReward <= 0 {
			t.Errorf("challenge %s rewards = %d/%d", ch.ID, ch.XPReward, ch.CoinReward)
		}
	}
}

func TestDailyIsIdempotentWithoutForce(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newChallengeService(store)

	first, err := svc.Daily(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	second, err := svc.Daily(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if second.Generated {
		t.Error("second call should not regenerate")
	}
	for i, ch := range second.Set.Challenges {
		if ch.ID != first.Set.Challenges[i].ID {
			t.Errorf("challenge %d changed between calls", i)
		}
	}

	forced, err := svc.Daily(context.Background(), "u1", true)
	if err != nil {
		t.Fatalf("Daily force: %v", err)
	}
	if !forced.Generated {
		t.Error("forced call should regenerate")
	}
}

// 直接预置一组确定的挑战，绕开随机生成
func seedChallengeSet(t *testing.T, store docstore.Store, uid string, challenges []model.Challenge) {
	t.Helper()
	set := &model.DailyChallengeSet{
		Date:        util.DateIST(fixedNow()),
		Challenges:  challenges,
		GeneratedAt: fixedNow().UTC().Format(time.RFC3339),
	}
	repo := repository.NewChallengeRepository(store)
	if err := repo.Save(context.Background(), uid, set); err != nil {
		t.Fatalf("seed challenges: %v", err)
	}
}

func TestApplyEventProgressAndReward(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newChallengeService(store)
	seedChallengeSet(t, store, "u1", []model.Challenge{
		{ID: "c1", Type: model.ChallengePlayGames, Target: 2, XPReward: 40, CoinReward: 20},
		{ID: "c2", Type: model.ChallengeEarnXP, Target: 100, XPReward: 80, CoinReward: 40},
	})

	// 第一局：playGames 1/2，earnXp 30/100，都未完成
	if err := svc.ApplyEvent(context.Background(), "u1", model.ChallengeEvent{GamesPlayed: 1, XPEarned: 30}); err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if got := userField(t, store, "u1", "xp"); got != 0 {
		t.Errorf("xp = %d, want 0 before any completion", got)
	}

	// 第二局：playGames 完成，发 40/20
	if err := svc.ApplyEvent(context.Background(), "u1", model.ChallengeEvent{GamesPlayed: 1, XPEarned: 30}); err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if got := userField(t, store, "u1", "xp"); got != 40 {
		t.Errorf("xp = %d, want 40 after playGames completion", got)
	}
	if got := userField(t, store, "u1", "coins"); got != 220 {
		t.Errorf("coins = %d, want 220", got)
	}

	// 超额事件只记到 target，不重复发奖
	if err := svc.ApplyEvent(context.Background(), "u1", model.ChallengeEvent{GamesPlayed: 5}); err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if got := userField(t, store, "u1", "xp"); got != 40 {
		t.Errorf("xp = %d, completed challenge must not pay twice", got)
	}

	res, err := svc.Daily(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	for _, ch := range res.Set.Challenges {
		if ch.ID == "c1" {
			if !ch.Completed || ch.Progress != 2 {
				t.Errorf("c1 = %+v", ch)
			}
		}
		if ch.ID == "c2" {
			if ch.Completed || ch.Progress != 60 {
				t.Errorf("c2 = %+v", ch)
			}
		}
	}
}

func TestApplyEventWithoutGeneratedSetIsNoop(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newChallengeService(store)

	if err := svc.ApplyEvent(context.Background(), "u1", model.ChallengeEvent{GamesPlayed: 1}); err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if got := userField(t, store, "u1", "xp"); got != 0 {
		t.Errorf("xp = %d, want 0", got)
	}
}

func TestClaimRequiresCompletion(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedUser(t, store, "u1", nil)
	svc := newChallengeService(store)
	seedChallengeSet(t, store, "u1", []model.Challenge{
		{ID: "c1", Type: model.ChallengePlayGames, Target: 1, XPReward: 10, CoinReward: 5, Completed: true, Progress: 1},
		{ID: "c2", Type: model.ChallengeEarnXP, Target: 100, XPReward: 10, CoinReward: 5},
	})

	if _, err := svc.Claim(context.Background(), "u1", "c2"); err == nil {
		t.Error("claiming an incomplete challenge should fail")
	}
	res, err := svc.Claim(context.Background(), "u1", "c1")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if res.Set.AllClaimed {
		t.Error("AllClaimed should stay false while c2 is unclaimed")
	}
	for _, ch := range res.Set.Challenges {
		if ch.ID == "c1" && !ch.Claimed {
			t.Error("c1 should be claimed")
		}
	}
	if _, err := svc.Claim(context.Background(), "u1", "missing"); err == nil {
		t.Error("claiming an unknown challenge should fail")
	}
}
