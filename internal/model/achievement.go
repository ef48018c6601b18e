package model

// Achievement users/{uid}/achievements/{id} 文档
type Achievement struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Target          int64  `json:"target"`
	CurrentProgress int64  `json:"currentProgress"`
	Unlocked        bool   `json:"unlocked"`
	UnlockedAt      string `json:"unlockedAt,omitempty"`
	XPReward        int64  `json:"xpReward"`
	CoinReward      int64  `json:"coinReward"`
}

// UnlockedAchievement 返回给客户端的新解锁条目
type UnlockedAchievement struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	XPReward   int64  `json:"xpReward"`
	CoinReward int64  `json:"coinReward"`
}
