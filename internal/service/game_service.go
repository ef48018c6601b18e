package service

import (
	"context"
	"math"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
	"finstar_backend/pkg/monitoring"
)

// GameSubmission 单局结算请求，各游戏字段各取所需
type GameSubmission struct {
	// life_swipe / budget_blitz
	Score *int64 `json:"score"`

	// life_swipe：万分比分配，总和必须恰为 10000
	Allocations map[string]int64 `json:"allocations"`
	Seed        string           `json:"seed"`

	// budget_blitz
	Level            *int64 `json:"level"`
	CorrectDecisions *int64 `json:"correctDecisions"`
	TotalDecisions   *int64 `json:"totalDecisions"`

	// quiz_battle
	CorrectAnswers *int64   `json:"correctAnswers"`
	TotalQuestions *int64   `json:"totalQuestions"`
	TimeBonus      *float64 `json:"timeBonus"`
	IsWinner       *bool    `json:"isWinner"`

	// market_explorer
	InitialValue   *float64 `json:"initialValue"`
	PortfolioValue *float64 `json:"portfolioValue"`
	AssetsHeld     *int64   `json:"assetsHeld"`
	DecisionsMade  *int64   `json:"decisionsMade"`
}

// GameResult 单局结算响应
type GameResult struct {
	Success     bool   `json:"success"`
	GameID      string `json:"gameId"`
	XPEarned    int64  `json:"xpEarned"`
	CoinsEarned int64  `json:"coinsEarned"`
	Score       int64  `json:"score"`
	TotalXP     int64  `json:"totalXp"`
	Level       int64  `json:"level"`
	LeveledUp   bool   `json:"leveledUp"`
	Coins       int64  `json:"coins"`

	// 游戏专属附加字段
	Accuracy             *int64   `json:"accuracy,omitempty"`
	PortfolioReturn      *float64 `json:"portfolioReturn,omitempty"`
	DiversificationScore *int64   `json:"diversificationScore,omitempty"`
}

type GameService struct {
	Store    docstore.Store
	Progress *repository.ProgressRepository
	Hooks    *ProgressHooks
	Now      func() time.Time
}

// NewGameService 创建游戏结算服务
func NewGameService(store docstore.Store, progress *repository.ProgressRepository, hooks *ProgressHooks) *GameService {
	return &GameService{Store: store, Progress: progress, Hooks: hooks, Now: time.Now}
}

// Submit 校验提交、计算奖励并在单个事务里更新用户与游戏进度
func (s *GameService) Submit(ctx context.Context, uid, gameID string, sub *GameSubmission) (*GameResult, error) {
	if !model.IsKnownGame(gameID) {
		return nil, util.ErrInvalidGame
	}

	outcome, err := evaluateGame(gameID, sub)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	result := &GameResult{
		Success:              true,
		GameID:               gameID,
		XPEarned:             outcome.reward.XP,
		CoinsEarned:          outcome.reward.Coins,
		Score:                outcome.reward.Score,
		Accuracy:             outcome.accuracy,
		PortfolioReturn:      outcome.portfolioReturn,
		DiversificationScore: outcome.diversificationScore,
	}

	err = docstore.RunTransaction(ctx, s.Store, func(tx *docstore.Tx) error {
		userSnap, err := tx.Get(ctx, repository.UserPath(uid))
		if err != nil {
			return err
		}
		if !userSnap.Exists {
			return util.ErrUserNotFound
		}
		var user model.User
		if err := userSnap.DataTo(&user); err != nil {
			return err
		}

		newXP := user.XP + outcome.reward.XP
		info := LevelFromXP(newXP)
		result.TotalXP = newXP
		result.Level = info.Level
		result.LeveledUp = info.Level > user.Level
		result.Coins = user.Coins + outcome.reward.Coins

		tx.Update(repository.UserPath(uid), map[string]any{
			"xp":               docstore.Increment(outcome.reward.XP),
			"level":            info.Level,
			"coins":            docstore.Increment(outcome.reward.Coins),
			"totalCoinsEarned": docstore.Increment(outcome.reward.Coins),
			"gamesPlayed":      docstore.Increment(1),
		})

		progressSnap, err := tx.Get(ctx, repository.ProgressPath(uid, gameID))
		if err != nil {
			return err
		}
		progress := model.GameProgress{GameID: gameID}
		if progressSnap.Exists {
			if err := progressSnap.DataTo(&progress); err != nil {
				return err
			}
		} else if gameID == model.GameMarketExplorer {
			// 新档位的收益基线，任何真实收益都应能刷新它
			progress.BestReturn = -1
		}
		outcome.applyProgress(&progress)
		progress.TimesPlayed++
		progress.TotalXP += outcome.reward.XP
		progress.TotalCoins += outcome.reward.Coins
		progress.LastPlayed = now.UTC().Format(time.RFC3339)
		tx.Set(repository.ProgressPath(uid, gameID), progressFields(&progress))
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ObserveReward("game", outcome.reward.XP, outcome.reward.Coins)
	s.Hooks.AfterAction(uid, model.ChallengeEvent{
		GamesPlayed:  1,
		XPEarned:     outcome.reward.XP,
		CoinsEarned:  outcome.reward.Coins,
		PerfectScore: outcome.perfect,
		QuizWon:      outcome.quizWon,
	})
	return result, nil
}

// gameOutcome 评估结果与进度更新函数
type gameOutcome struct {
	reward        model.GameReward
	applyProgress func(p *model.GameProgress)
	perfect       bool
	quizWon       bool

	accuracy             *int64
	portfolioReturn      *float64
	diversificationScore *int64
}

func evaluateGame(gameID string, sub *GameSubmission) (*gameOutcome, error) {
	switch gameID {
	case model.GameLifeSwipe:
		return evaluateLifeSwipe(sub)
	case model.GameBudgetBlitz:
		return evaluateBudgetBlitz(sub)
	case model.GameQuizBattle:
		return evaluateQuizBattle(sub)
	case model.GameMarketExplorer:
		return evaluateMarketExplorer(sub)
	}
	return nil, util.ErrInvalidGame
}

func evaluateLifeSwipe(sub *GameSubmission) (*gameOutcome, error) {
	if sub.Seed == "" {
		return nil, util.Invalid("seed is required")
	}
	if sub.Score == nil || *sub.Score < 0 || *sub.Score > 1000 {
		return nil, util.Invalid("score must be an integer between 0 and 1000")
	}
	if len(sub.Allocations) == 0 {
		return nil, util.Invalid("allocations are required")
	}
	var sum int64
	for _, v := range sub.Allocations {
		if v < 0 {
			return nil, util.Invalid("allocations must be non-negative")
		}
		sum += v
	}
	if sum != 10000 {
		return nil, util.Invalid("allocations must sum to 10000, got %d", sum)
	}

	cfg := GameRewards.LifeSwipe
	score := *sub.Score
	savings := sub.Allocations["savings"]
	invest := sub.Allocations["invest"]
	savingsRate := float64(savings+invest) / 100
	emergencyFundMet := savings >= cfg.EmergencyFundMin

	xp := cfg.BaseXP
	xp += minInt64(int64(savingsRate/cfg.SavingsStepPct)*cfg.SavingsStepXP, cfg.SavingsBonusCap)
	if emergencyFundMet {
		xp += cfg.EmergencyFundXP
	}
	xp += score / cfg.ScoreStep * cfg.ScoreStepXP
	xp = clampInt64(xp, cfg.MinXP, cfg.MaxXP)
	coins := coinsFor(xp, cfg.CoinRatio)

	allocations := make(map[string]int, len(sub.Allocations))
	for k, v := range sub.Allocations {
		allocations[k] = int(v)
	}
	return &gameOutcome{
		reward: model.GameReward{XP: xp, Coins: coins, Score: score},
		applyProgress: func(p *model.GameProgress) {
			p.HighScore = maxInt64(p.HighScore, score)
			p.BestSavingsRate = math.Max(p.BestSavingsRate, savingsRate)
			p.LastAllocations = allocations
			p.LastSeed = sub.Seed
		},
	}, nil
}

func evaluateBudgetBlitz(sub *GameSubmission) (*gameOutcome, error) {
	if sub.Score == nil || *sub.Score < 0 || *sub.Score > 10000 {
		return nil, util.Invalid("score must be an integer between 0 and 10000")
	}
	if sub.Level == nil || *sub.Level < 1 || *sub.Level > 100 {
		return nil, util.Invalid("level must be between 1 and 100")
	}
	if sub.CorrectDecisions == nil || sub.TotalDecisions == nil {
		return nil, util.Invalid("correctDecisions and totalDecisions are required")
	}
	correct, total := *sub.CorrectDecisions, *sub.TotalDecisions
	if correct < 0 || total < 0 || correct > total {
		return nil, util.Invalid("invalid decision counts")
	}

	cfg := GameRewards.BudgetBlitz
	score, level := *sub.Score, *sub.Level
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	xp := score/cfg.ScoreDivisor + level*cfg.LevelXP + int64(accuracy*float64(cfg.AccuracyXP))
	if xp > cfg.MaxXP {
		xp = cfg.MaxXP
	}
	coins := coinsFor(xp, cfg.CoinRatio)
	accuracyPct := int64(math.Round(accuracy * 100))

	return &gameOutcome{
		reward:   model.GameReward{XP: xp, Coins: coins, Score: score},
		accuracy: &accuracyPct,
		applyProgress: func(p *model.GameProgress) {
			p.HighScore = maxInt64(p.HighScore, score)
			p.HighestLevel = maxInt64(p.HighestLevel, level)
			p.TotalCorrectDecisions += correct
			p.TotalDecisions += total
		},
	}, nil
}

func evaluateQuizBattle(sub *GameSubmission) (*gameOutcome, error) {
	if sub.TotalQuestions == nil || *sub.TotalQuestions < 1 || *sub.TotalQuestions > 50 {
		return nil, util.Invalid("totalQuestions must be between 1 and 50")
	}
	if sub.CorrectAnswers == nil || *sub.CorrectAnswers < 0 || *sub.CorrectAnswers > *sub.TotalQuestions {
		return nil, util.Invalid("correctAnswers must be between 0 and totalQuestions")
	}
	if sub.TimeBonus == nil || *sub.TimeBonus < 0 || *sub.TimeBonus > 100 {
		return nil, util.Invalid("timeBonus must be between 0 and 100")
	}

	cfg := GameRewards.QuizBattle
	correct, total := *sub.CorrectAnswers, *sub.TotalQuestions
	timeBonus := int64(*sub.TimeBonus)
	perfect := correct == total
	winner := sub.IsWinner != nil && *sub.IsWinner

	xp := correct*cfg.CorrectXP + timeBonus
	if perfect {
		xp += cfg.PerfectBonusXP
	}
	if winner {
		xp += cfg.WinBonusXP
	}
	if xp > cfg.MaxXP {
		xp = cfg.MaxXP
	}
	coins := coinsFor(xp, cfg.CoinRatio)
	score := correct*100 + timeBonus

	return &gameOutcome{
		reward:  model.GameReward{XP: xp, Coins: coins, Score: score},
		perfect: perfect,
		quizWon: winner,
		applyProgress: func(p *model.GameProgress) {
			p.HighScore = maxInt64(p.HighScore, score)
			if perfect {
				p.PerfectScores++
			}
			if winner {
				p.Wins++
			} else {
				p.Losses++
			}
		},
	}, nil
}

func evaluateMarketExplorer(sub *GameSubmission) (*gameOutcome, error) {
	if sub.InitialValue == nil || *sub.InitialValue <= 0 {
		return nil, util.Invalid("initialValue must be positive")
	}
	if sub.PortfolioValue == nil || *sub.PortfolioValue < 0 {
		return nil, util.Invalid("portfolioValue must be non-negative")
	}

	iv, pv := *sub.InitialValue, *sub.PortfolioValue
	ret := (pv - iv) / iv

	assets := int64(0)
	if sub.AssetsHeld != nil {
		assets = *sub.AssetsHeld
	}
	divScore := math.Min(float64(assets)/5, 1)

	decisions := int64(0)
	if sub.DecisionsMade != nil {
		decisions = *sub.DecisionsMade
	}

	cfg := GameRewards.MarketExplorer
	xp := cfg.BaseXP
	if ret > 0 {
		xp += minInt64(int64(ret*cfg.ReturnXPRate), cfg.ReturnBonusCap)
	}
	xp += int64(divScore * float64(cfg.DiversificationXP))
	xp += minInt64(decisions*cfg.DecisionXP, cfg.DecisionBonusCap)
	xp = clampInt64(xp, cfg.MinXP, cfg.MaxXP)
	coins := coinsFor(xp, cfg.CoinRatio)

	score := int64(math.Min(math.Max(ret*500+500, 0), 800) + divScore*200)
	returnPct := math.Round(ret*10000) / 100
	divPct := int64(math.Round(divScore * 100))

	return &gameOutcome{
		reward:               model.GameReward{XP: xp, Coins: coins, Score: score},
		portfolioReturn:      &returnPct,
		diversificationScore: &divPct,
		applyProgress: func(p *model.GameProgress) {
			p.HighScore = maxInt64(p.HighScore, score)
			p.BestReturn = math.Max(p.BestReturn, ret)
		},
	}, nil
}

// progressFields 进度文档落库字段，零值字段不落库
func progressFields(p *model.GameProgress) map[string]any {
	fields := map[string]any{
		"gameId":      p.GameID,
		"timesPlayed": p.TimesPlayed,
		"highScore":   p.HighScore,
		"totalXp":     p.TotalXP,
		"totalCoins":  p.TotalCoins,
		"lastPlayed":  p.LastPlayed,
	}
	switch p.GameID {
	case model.GameLifeSwipe:
		fields["bestSavingsRate"] = p.BestSavingsRate
		fields["lastAllocations"] = p.LastAllocations
		fields["lastSeed"] = p.LastSeed
	case model.GameBudgetBlitz:
		fields["highestLevel"] = p.HighestLevel
		fields["totalCorrectDecisions"] = p.TotalCorrectDecisions
		fields["totalDecisions"] = p.TotalDecisions
	case model.GameQuizBattle:
		fields["perfectScores"] = p.PerfectScores
		fields["wins"] = p.Wins
		fields["losses"] = p.Losses
	case model.GameMarketExplorer:
		fields["bestReturn"] = p.BestReturn
	}
	return fields
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
