package model

// 可提交结算的游戏 ID
const (
	GameLifeSwipe      = "life_swipe"
	GameMarketExplorer = "market_explorer"
	GameQuizBattle     = "quiz_battle"
	GameBudgetBlitz    = "budget_blitz"
)

var GameIDs = []string{GameLifeSwipe, GameMarketExplorer, GameQuizBattle, GameBudgetBlitz}

func IsKnownGame(id string) bool {
	for _, g := range GameIDs {
		if g == id {
			return true
		}
	}
	return false
}

// GameProgress users/{uid}/progress/{gameId} 文档，字段按游戏各取所需
type GameProgress struct {
	GameID      string `json:"gameId,omitempty"`
	TimesPlayed int64  `json:"timesPlayed"`
	HighScore   int64  `json:"highScore,omitempty"`
	TotalXP     int64  `json:"totalXp"`
	TotalCoins  int64  `json:"totalCoins"`
	LastPlayed  string `json:"lastPlayed,omitempty"`

	// life_swipe
	BestSavingsRate float64        `json:"bestSavingsRate,omitempty"`
	LastAllocations map[string]int `json:"lastAllocations,omitempty"`
	LastSeed        string         `json:"lastSeed,omitempty"`

	// budget_blitz
	HighestLevel          int64 `json:"highestLevel,omitempty"`
	TotalCorrectDecisions int64 `json:"totalCorrectDecisions,omitempty"`
	TotalDecisions        int64 `json:"totalDecisions,omitempty"`

	// quiz_battle
	PerfectScores int64 `json:"perfectScores,omitempty"`
	Wins          int64 `json:"wins,omitempty"`
	Losses        int64 `json:"losses,omitempty"`

	// market_explorer
	BestReturn float64 `json:"bestReturn,omitempty"`
}

// GameReward 单局结算产生的奖励
type GameReward struct {
	XP    int64 `json:"xpEarned"`
	Coins int64 `json:"coinsEarned"`
	Score int64 `json:"score"`
}
