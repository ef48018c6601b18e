package service

import (
	"context"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
	"finstar_backend/pkg/monitoring"
)

// LessonCompletion 课程完成请求
type LessonCompletion struct {
	LessonID  string `json:"lessonId"`
	QuizScore *int64 `json:"quizScore"`
	TimeSpent int64  `json:"timeSpent"`
}

// LessonResult 课程完成响应
type LessonResult struct {
	Success         bool  `json:"success"`
	FirstCompletion bool  `json:"firstCompletion"`
	XPEarned        int64 `json:"xpEarned"`
	CoinsEarned     int64 `json:"coinsEarned"`
	TotalXP         int64 `json:"totalXp"`
	Level           int64 `json:"level"`
	LeveledUp       bool  `json:"leveledUp"`
}

type LessonService struct {
	Store   docstore.Store
	Lessons *repository.LessonRepository
	Hooks   *ProgressHooks
	Now     func() time.Time
}

// NewLessonService 创建课程服务
func NewLessonService(store docstore.Store, lessons *repository.LessonRepository, hooks *ProgressHooks) *LessonService {
	return &LessonService{Store: store, Lessons: lessons, Hooks: hooks, Now: time.Now}
}

// Complete 结算一次课程完成，重复完成按两成发放并保留最好成绩
func (s *LessonService) Complete(ctx context.Context, uid string, req *LessonCompletion) (*LessonResult, error) {
	if req.LessonID == "" {
		return nil, util.Invalid("lessonId is required")
	}
	if req.QuizScore != nil && (*req.QuizScore < 0 || *req.QuizScore > 100) {
		return nil, util.Invalid("quizScore must be between 0 and 100")
	}
	if req.TimeSpent < 0 {
		return nil, util.Invalid("timeSpent must be non-negative")
	}

	lesson, err := s.Lessons.FindByID(ctx, req.LessonID)
	if err != nil {
		return nil, err
	}

	baseXP := int64(lessonDefaultXP)
	baseCoins := int64(lessonDefaultCoins)
	if lesson != nil {
		if lesson.XPReward > 0 {
			baseXP = lesson.XPReward
		}
		if lesson.CoinReward > 0 {
			baseCoins = lesson.CoinReward
		}
	}

	quizScore := int64(0)
	if req.QuizScore != nil {
		quizScore = *req.QuizScore
	}

	now := s.Now()
	var result *LessonResult
	err = docstore.RunTransaction(ctx, s.Store, func(tx *docstore.Tx) error {
		userSnap, err := tx.Get(ctx, repository.UserPath(uid))
		if err != nil {
			return err
		}
		if !userSnap.Exists {
			return util.ErrUserNotFound
		}
		var user model.User
		if err := userSnap.DataTo(&user); err != nil {
			return err
		}

		progressSnap, err := tx.Get(ctx, repository.LessonProgressPath(uid, req.LessonID))
		if err != nil {
			return err
		}
		progress := model.LessonProgress{LessonID: req.LessonID}
		if progressSnap.Exists {
			if err := progressSnap.DataTo(&progress); err != nil {
				return err
			}
		}
		firstCompletion := !progress.Completed

		xp := baseXP + quizScore/10
		coins := baseCoins
		if quizScore == 100 {
			xp += lessonPerfectXP
			coins += lessonPerfectCoins
		}
		if !firstCompletion {
			// 重复完成按两成发放，保底 5 XP / 2 金币
			xp = maxInt64(int64(float64(xp)*lessonReplayRate), lessonReplayMinXP)
			coins = maxInt64(int64(float64(coins)*lessonReplayRate), lessonReplayMinCoin)
		}

		newXP := user.XP + xp
		info := LevelFromXP(newXP)

		userUpdate := map[string]any{
			"xp":               docstore.Increment(xp),
			"level":            info.Level,
			"coins":            docstore.Increment(coins),
			"totalCoinsEarned": docstore.Increment(coins),
		}
		if firstCompletion {
			userUpdate["lessonsCompleted"] = docstore.Increment(1)
		}
		tx.Update(repository.UserPath(uid), userUpdate)

		nowStr := now.UTC().Format(time.RFC3339)
		progress.Completed = true
		progress.Attempts++
		progress.XPEarned += xp
		progress.CoinsEarned += coins
		progress.BestQuizScore = maxInt64(progress.BestQuizScore, quizScore)
		progress.TotalTimeSpent += req.TimeSpent
		progress.LastAttemptAt = nowStr
		if firstCompletion {
			progress.FirstCompletedAt = nowStr
		}
		tx.Set(repository.LessonProgressPath(uid, req.LessonID), lessonProgressFields(&progress))

		result = &LessonResult{
			Success:         true,
			FirstCompletion: firstCompletion,
			XPEarned:        xp,
			CoinsEarned:     coins,
			TotalXP:         newXP,
			Level:           info.Level,
			LeveledUp:       info.Level > user.Level,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ObserveReward("lesson", result.XPEarned, result.CoinsEarned)
	if result.FirstCompletion {
		s.Hooks.AfterAction(uid, model.ChallengeEvent{
			XPEarned:         result.XPEarned,
			CoinsEarned:      result.CoinsEarned,
			LessonsCompleted: 1,
		})
	}
	return result, nil
}

func lessonProgressFields(p *model.LessonProgress) map[string]any {
	fields := map[string]any{
		"lessonId":       p.LessonID,
		"completed":      p.Completed,
		"attempts":       p.Attempts,
		"xpEarned":       p.XPEarned,
		"coinsEarned":    p.CoinsEarned,
		"bestQuizScore":  p.BestQuizScore,
		"totalTimeSpent": p.TotalTimeSpent,
		"lastAttemptAt":  p.LastAttemptAt,
	}
	if p.FirstCompletedAt != "" {
		fields["firstCompletedAt"] = p.FirstCompletedAt
	}
	return fields
}
