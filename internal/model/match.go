package model

// 对战状态机：waiting -> matched -> in_progress -> completed / cancelled
const (
	MatchWaiting    = "waiting"
	MatchMatched    = "matched"
	MatchInProgress = "in_progress"
	MatchCompleted  = "completed"
	MatchCancelled  = "cancelled"
)

// QuizQuestion 题库条目，下发给客户端时不含 CorrectAnswer
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Category      string   `json:"category,omitempty"`
}

// MatchPlayer 对战中的一方
type MatchPlayer struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Ready       bool   `json:"ready"`
	Score       int64  `json:"score"`
	Answered    int    `json:"answered"`
}

// QuizMatch Redis 中的实时对战状态
type QuizMatch struct {
	ID          string        `json:"id"`
	Category    string        `json:"category"`
	Status      string        `json:"status"`
	Players     []MatchPlayer `json:"players"`
	Questions   []QuizQuestion `json:"questions,omitempty"`
	Winner      string        `json:"winner,omitempty"`
	ForfeitedBy string        `json:"forfeitedBy,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	StartTime   string        `json:"startTime,omitempty"`
	EndTime     string        `json:"endTime,omitempty"`
}

// PlayerIndex 返回 uid 在 Players 里的下标，不在局内返回 -1
func (m *QuizMatch) PlayerIndex(uid string) int {
	for i, p := range m.Players {
		if p.UID == uid {
			return i
		}
	}
	return -1
}

// Sanitized 返回剔除正确答案的对战视图
func (m *QuizMatch) Sanitized() *QuizMatch {
	out := *m
	if len(m.Questions) > 0 {
		questions := make([]QuizQuestion, len(m.Questions))
		for i, q := range m.Questions {
			q.CorrectAnswer = -1
			questions[i] = q
		}
		out.Questions = questions
	}
	return &out
}
