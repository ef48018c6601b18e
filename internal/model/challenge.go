package model

// 每日挑战类型
const (
	ChallengePlayGames      = "playGames"
	ChallengeEarnXP         = "earnXp"
	ChallengeEarnCoins      = "earnCoins"
	ChallengeCompleteLesson = "completeLesson"
	ChallengePerfectScore   = "perfectScore"
	ChallengeWinQuiz        = "winQuiz"
)

// Challenge 每日挑战单项
type Challenge struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Target      int64  `json:"target"`
	Progress    int64  `json:"progress"`
	XPReward    int64  `json:"xpReward"`
	CoinReward  int64  `json:"coinReward"`
	Completed   bool   `json:"completed"`
	Claimed     bool   `json:"claimed"`
}

// DailyChallengeSet users/{uid}/dailyChallenges/{date} 文档
type DailyChallengeSet struct {
	Date         string      `json:"date"`
	Challenges   []Challenge `json:"challenges"`
	GeneratedAt  string      `json:"generatedAt"`
	AllCompleted bool        `json:"allCompleted"`
	AllClaimed   bool        `json:"allClaimed"`
}

// ChallengeEvent 一次业务动作折算出的挑战进度增量
type ChallengeEvent struct {
	GamesPlayed      int64
	XPEarned         int64
	CoinsEarned      int64
	LessonsCompleted int64
	PerfectScore     bool
	QuizWon          bool
}
