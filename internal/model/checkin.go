package model

// CheckInRecord users/{uid}/checkInHistory/{date} 文档
type CheckInRecord struct {
	Date        string `json:"date"`
	StreakDay   int64  `json:"streakDay"`
	XPEarned    int64  `json:"xpEarned"`
	CoinsEarned int64  `json:"coinsEarned"`
	Milestone   *int64 `json:"milestone"`
	Timestamp   string `json:"timestamp"`
}
