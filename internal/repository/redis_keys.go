package repository

// Redis 键约定
const (
	// 实时排行榜 zset，member=uid，score=xp
	KeyLeaderboardLive = "leaderboard:live"

	keyLeaderboardEntryPrefix = "leaderboard:live:entry:"
	keyQuizMatchPrefix        = "quiz:match:"
	keyQuizWaitingPrefix      = "quiz:waiting:"
)

func KeyLeaderboardEntry(uid string) string {
	return keyLeaderboardEntryPrefix + uid
}

func KeyQuizMatch(matchID string) string {
	return keyQuizMatchPrefix + matchID
}

// KeyQuizWaiting 某分类下等待匹配的 match ID 集合
func KeyQuizWaiting(category string) string {
	return keyQuizWaitingPrefix + category
}
