package service

import "finstar_backend/internal/model"

// Reward 一次 XP/金币发放
type Reward struct {
	XP    int64 `json:"xp"`
	Coins int64 `json:"coins"`
}

// RewardConfig 四款游戏的奖励参数。公式骨架在各 evaluator 里，数值全部集中
// 在这里，调参不碰引擎
type RewardConfig struct {
	LifeSwipe      LifeSwipeRewards
	BudgetBlitz    BudgetBlitzRewards
	QuizBattle     QuizBattleRewards
	MarketExplorer MarketExplorerRewards
}

type LifeSwipeRewards struct {
	BaseXP           int64
	SavingsStepPct   float64 // 每满 step 个百分点储蓄率加一档
	SavingsStepXP    int64
	SavingsBonusCap  int64
	EmergencyFundMin int64 // savings 门槛，万分比
	EmergencyFundXP  int64
	ScoreStep        int64 // 每满 step 分加一档
	ScoreStepXP      int64
	MinXP            int64
	MaxXP            int64
	CoinRatio        float64
}

type BudgetBlitzRewards struct {
	ScoreDivisor int64
	LevelXP      int64
	AccuracyXP   int64 // 满准确率时的加成
	MaxXP        int64
	CoinRatio    float64
}

type QuizBattleRewards struct {
	CorrectXP      int64
	PerfectBonusXP int64
	WinBonusXP     int64
	MaxXP          int64
	CoinRatio      float64
}

type MarketExplorerRewards struct {
	BaseXP            int64
	ReturnXPRate      float64 // 收益率转 XP 的放大系数
	ReturnBonusCap    int64
	DiversificationXP int64 // 满分散度时的加成
	DecisionXP        int64
	DecisionBonusCap  int64
	MinXP             int64
	MaxXP             int64
	CoinRatio         float64
}

// GameRewards 默认奖励参数
var GameRewards = RewardConfig{
	LifeSwipe: LifeSwipeRewards{
		BaseXP:           20,
		SavingsStepPct:   5,
		SavingsStepXP:    2,
		SavingsBonusCap:  12,
		EmergencyFundMin: 1000,
		EmergencyFundXP:  8,
		ScoreStep:        100,
		ScoreStepXP:      2,
		MinXP:            0,
		MaxXP:            50,
		CoinRatio:        1.2,
	},
	BudgetBlitz: BudgetBlitzRewards{
		ScoreDivisor: 10,
		LevelXP:      5,
		AccuracyXP:   20,
		MaxXP:        100,
		CoinRatio:    0.8,
	},
	QuizBattle: QuizBattleRewards{
		CorrectXP:      10,
		PerfectBonusXP: 50,
		WinBonusXP:     25,
		MaxXP:          150,
		CoinRatio:      0.6,
	},
	MarketExplorer: MarketExplorerRewards{
		BaseXP:            20,
		ReturnXPRate:      50,
		ReturnBonusCap:    30,
		DiversificationXP: 15,
		DecisionXP:        2,
		DecisionBonusCap:  10,
		MinXP:             10,
		MaxXP:             75,
		CoinRatio:         1,
	},
}

// coinsFor 金币恒为该游戏 XP 的固定比例，向下取整
func coinsFor(xp int64, ratio float64) int64 {
	return int64(float64(xp) * ratio)
}

// 签到基础奖励与每满一周的加成
const (
	checkInBaseXP      = 20
	checkInBaseCoins   = 5
	checkInWeeklyXP    = 10
	checkInWeeklyCoins = 5
)

// streakMilestones 连击里程碑的一次性奖励
var streakMilestones = map[int64]Reward{
	3:  {XP: 50, Coins: 20},
	7:  {XP: 100, Coins: 50},
	14: {XP: 200, Coins: 100},
	30: {XP: 500, Coins: 200},
}

// CheckInReward 按连击天数计算当日签到奖励，milestone 命中里程碑时非 nil
func CheckInReward(streakDays int64) (reward Reward, milestone *int64) {
	reward = Reward{
		XP:    checkInBaseXP + (streakDays/7)*checkInWeeklyXP,
		Coins: checkInBaseCoins + (streakDays/7)*checkInWeeklyCoins,
	}
	if bonus, ok := streakMilestones[streakDays]; ok {
		reward.XP += bonus.XP
		reward.Coins += bonus.Coins
		day := streakDays
		milestone = &day
	}
	return reward, milestone
}

// 课程默认奖励与重复完成折扣
const (
	lessonDefaultXP     = 50
	lessonDefaultCoins  = 10
	lessonPerfectXP     = 20
	lessonPerfectCoins  = 5
	lessonReplayRate    = 0.2
	lessonReplayMinXP   = 5
	lessonReplayMinCoin = 2
)

// achievementDef 成就定义
type achievementDef struct {
	ID          string
	Name        string
	Description string
	Target      int64
	Reward      Reward
}

// 成就目录，顺序即展示顺序
var achievementDefs = []achievementDef{
	{"first_game", "First Steps", "Play your first game", 1, Reward{XP: 100, Coins: 50}},
	{"games_10", "Getting Started", "Play 10 games", 10, Reward{XP: 500, Coins: 200}},
	{"games_50", "Game Master", "Play 50 games", 50, Reward{XP: 1000, Coins: 500}},
	{"lessons_5", "Eager Learner", "Complete 5 lessons", 5, Reward{XP: 400, Coins: 150}},
	{"lessons_10", "Knowledge Seeker", "Complete 10 lessons", 10, Reward{XP: 800, Coins: 300}},
	{"streak_3", "Consistent", "Maintain a 3-day streak", 3, Reward{XP: 150, Coins: 75}},
	{"streak_7", "Week Warrior", "Maintain a 7-day streak", 7, Reward{XP: 300, Coins: 150}},
	{"streak_14", "Dedicated", "Maintain a 14-day streak", 14, Reward{XP: 500, Coins: 250}},
	{"streak_30", "Committed", "Maintain a 30-day streak", 30, Reward{XP: 1000, Coins: 500}},
	{"level_5", "Rising Star", "Reach level 5", 5, Reward{XP: 250, Coins: 100}},
	{"level_10", "Experienced", "Reach level 10", 10, Reward{XP: 500, Coins: 200}},
	{"level_25", "Veteran", "Reach level 25", 25, Reward{XP: 1000, Coins: 500}},
	{"coins_1000", "Saver", "Earn 1000 coins in total", 1000, Reward{XP: 600, Coins: 250}},
}

// 目录之外的成就 ID 使用的兜底奖励
var defaultAchievementReward = Reward{XP: 100, Coins: 50}

// AchievementReward 按成就 ID 查奖励
func AchievementReward(id string) Reward {
	for _, def := range achievementDefs {
		if def.ID == id {
			return def.Reward
		}
	}
	switch id {
	case "perfect_quiz":
		return Reward{XP: 200, Coins: 100}
	case "market_master":
		return Reward{XP: 500, Coins: 250}
	}
	return defaultAchievementReward
}

// challengeTemplate 每日挑战模板，target 从候选里随机挑
type challengeTemplate struct {
	Type        string
	Title       string
	Description string
	Targets     []int64
}

var challengeTemplates = []challengeTemplate{
	{model.ChallengePlayGames, "Game On", "Play %d games today", []int64{2, 3, 5}},
	{model.ChallengeEarnXP, "XP Hunter", "Earn %d XP today", []int64{50, 100, 200}},
	{model.ChallengeEarnCoins, "Coin Collector", "Earn %d coins today", []int64{30, 50, 100}},
	{model.ChallengeCompleteLesson, "Study Time", "Complete %d lessons today", []int64{1, 2}},
	{model.ChallengePerfectScore, "Perfectionist", "Get a perfect quiz score", []int64{1}},
}
