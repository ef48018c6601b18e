package model

// Lesson lessons/{id} 文档，奖励字段缺省时用默认值
type Lesson struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title,omitempty"`
	XPReward   int64  `json:"xpReward,omitempty"`
	CoinReward int64  `json:"coinReward,omitempty"`
}

// LessonProgress users/{uid}/lessonProgress/{lessonId} 文档
type LessonProgress struct {
	LessonID         string `json:"lessonId"`
	Completed        bool   `json:"completed"`
	Attempts         int64  `json:"attempts"`
	XPEarned         int64  `json:"xpEarned"`
	CoinsEarned      int64  `json:"coinsEarned"`
	BestQuizScore    int64  `json:"bestQuizScore"`
	TotalTimeSpent   int64  `json:"totalTimeSpent"`
	FirstCompletedAt string `json:"firstCompletedAt,omitempty"`
	LastAttemptAt    string `json:"lastAttemptAt,omitempty"`
}
