package model

// User users/{uid} 文档
type User struct {
	UID              string  `json:"uid,omitempty"`
	DisplayName      string  `json:"displayName,omitempty"`
	DisplayNameLower string  `json:"displayNameLower,omitempty"`
	Email            string  `json:"email,omitempty"`
	AvatarURL        string  `json:"avatarUrl,omitempty"`
	XP               int64   `json:"xp"`
	Level            int64   `json:"level"`
	Coins            int64   `json:"coins"`
	TotalCoinsEarned int64   `json:"totalCoinsEarned"`
	GamesPlayed      int64   `json:"gamesPlayed"`
	LessonsCompleted int64   `json:"lessonsCompleted"`
	StreakDays       int64   `json:"streakDays"`
	LastActiveDate   string  `json:"lastActiveDate,omitempty"`
	LastCheckInAt    string  `json:"lastCheckInAt,omitempty"`
	TotalCheckIns    int64   `json:"totalCheckIns"`
	Rank             *int64  `json:"rank"`
	RankUpdatedAt    string  `json:"rankUpdatedAt,omitempty"`
	CreatedAt        string  `json:"createdAt,omitempty"`
}

// LevelInfo 由累计经验推导出的等级状态
type LevelInfo struct {
	Level          int64 `json:"level"`
	CurrentXP      int64 `json:"currentXp"`
	XPForNextLevel int64 `json:"xpForNextLevel"`
}
