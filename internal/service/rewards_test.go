package service

import "testing"

func TestCheckInReward(t *testing.T) {
	tests := []struct {
		streak    int64
		xp        int64
		coins     int64
		milestone *int64
	}{
		{1, 20, 5, nil},
		{3, 70, 25, int64Ptr(3)},
		{6, 20, 5, nil},
		{7, 130, 60, int64Ptr(7)},
		{8, 30, 10, nil},
		{14, 240, 115, int64Ptr(14)},
		{30, 560, 225, int64Ptr(30)},
		{31, 60, 25, nil},
	}
	for _, tt := range tests {
		reward, milestone := CheckInReward(tt.streak)
		if reward.XP != tt.xp || reward.Coins != tt.coins {
			t.Errorf("CheckInReward(%d) = %d XP / %d coins, want %d / %d",
				tt.streak, reward.XP, reward.Coins, tt.xp, tt.coins)
		}
		if (milestone == nil) != (tt.milestone == nil) {
			t.Errorf("CheckInReward(%d) milestone = %v, want %v", tt.streak, milestone, tt.milestone)
			continue
		}
		if milestone != nil && *milestone != *tt.milestone {
			t.Errorf("CheckInReward(%d) milestone = %d, want %d", tt.streak, *milestone, *tt.milestone)
		}
	}
}

func TestGameRewardDefaults(t *testing.T) {
	if cfg := GameRewards.LifeSwipe; cfg.MaxXP != 50 || cfg.CoinRatio != 1.2 {
		t.Errorf("LifeSwipe = %+v", cfg)
	}
	if cfg := GameRewards.BudgetBlitz; cfg.MaxXP != 100 || cfg.CoinRatio != 0.8 {
		t.Errorf("BudgetBlitz = %+v", cfg)
	}
	if cfg := GameRewards.QuizBattle; cfg.MaxXP != 150 || cfg.CoinRatio != 0.6 {
		t.Errorf("QuizBattle = %+v", cfg)
	}
	if cfg := GameRewards.MarketExplorer; cfg.MinXP != 10 || cfg.MaxXP != 75 || cfg.CoinRatio != 1 {
		t.Errorf("MarketExplorer = %+v", cfg)
	}
}

func TestQuizBattleRewardIsTunable(t *testing.T) {
	saved := GameRewards.QuizBattle
	defer func() { GameRewards.QuizBattle = saved }()
	GameRewards.QuizBattle.MaxXP = 60

	outcome, err := evaluateQuizBattle(&GameSubmission{
		CorrectAnswers: int64Ptr(10),
		TotalQuestions: int64Ptr(10),
		TimeBonus:      f64(30),
		IsWinner:       boolPtr(true),
	})
	if err != nil {
		t.Fatalf("evaluateQuizBattle: %v", err)
	}
	if outcome.reward.XP != 60 {
		t.Errorf("XP = %d, want tuned cap 60", outcome.reward.XP)
	}
	if outcome.reward.Coins != 36 {
		t.Errorf("Coins = %d, want 36", outcome.reward.Coins)
	}
}

func TestAchievementReward(t *testing.T) {
	if r := AchievementReward("first_game"); r.XP != 100 || r.Coins != 50 {
		t.Errorf("first_game reward = %+v", r)
	}
	if r := AchievementReward("streak_30"); r.XP != 1000 || r.Coins != 500 {
		t.Errorf("streak_30 reward = %+v", r)
	}
	if r := AchievementReward("perfect_quiz"); r.XP != 200 || r.Coins != 100 {
		t.Errorf("perfect_quiz reward = %+v", r)
	}
	if r := AchievementReward("market_master"); r.XP != 500 || r.Coins != 250 {
		t.Errorf("market_master reward = %+v", r)
	}
	if r := AchievementReward("unknown_id"); r.XP != 100 || r.Coins != 50 {
		t.Errorf("fallback reward = %+v", r)
	}
}

func int64Ptr(v int64) *int64 { return &v }
