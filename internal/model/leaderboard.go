package model

// LeaderboardEntry 排行榜单行
type LeaderboardEntry struct {
	Rank        int64  `json:"rank"`
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	XP          int64  `json:"xp"`
	Level       int64  `json:"level"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// LeaderboardSnapshot leaderboards/{seasonId} 文档
type LeaderboardSnapshot struct {
	SeasonID   string             `json:"seasonId"`
	Period     string             `json:"period"`
	Rankings   []LeaderboardEntry `json:"rankings"`
	TotalUsers int64              `json:"totalUsers"`
	UpdatedAt  string             `json:"updatedAt"`
}
