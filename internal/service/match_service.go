package service

import (
	"context"
	"math/rand"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 每答对一题的得分
const pointsPerCorrectAnswer = 10

// MatchService 实时问答对战服务，状态整体存放在 Redis
type MatchService struct {
	Matches *repository.MatchRepository
	Users   *repository.UserRepository
	Now     func() time.Time
	Rand    *rand.Rand
	NewID   func() string
}

// NewMatchService 创建对战服务实例
func NewMatchService(matches *repository.MatchRepository, users *repository.UserRepository) *MatchService {
	return &MatchService{
		Matches: matches,
		Users:   users,
		Now:     time.Now,
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		NewID:   uuid.NewString,
	}
}

// AnswerResult 提交答案后的回执
type AnswerResult struct {
	Success       bool             `json:"success"`
	Correct       bool             `json:"correct"`
	CorrectAnswer int              `json:"correctAnswer"`
	Score         int64            `json:"score"`
	Match         *model.QuizMatch `json:"match"`
}

// FindMatch 随机匹配：优先接入等待中的对战，没有则建新局等待
func (s *MatchService) FindMatch(ctx context.Context, uid, category string) (*model.QuizMatch, error) {
	if category == "" {
		category = "general"
	}

	// 等待队列里可能残留已过期的对战 ID，最多跳过几个
	for attempt := 0; attempt < 3; attempt++ {
		matchID, err := s.Matches.PopWaiting(ctx, category)
		if err != nil {
			return nil, err
		}
		if matchID == "" {
			break
		}
		match, err := s.Matches.Find(ctx, matchID)
		if err == util.ErrMatchNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if match.Status != model.MatchWaiting {
			continue
		}
		if match.PlayerIndex(uid) >= 0 {
			// 自己挂起的局，放回队列继续等待对手
			if err := s.Matches.AddWaiting(ctx, category, matchID); err != nil {
				return nil, err
			}
			return match.Sanitized(), nil
		}
		return s.joinWaiting(ctx, match, uid)
	}

	match := &model.QuizMatch{
		ID:        s.NewID(),
		Category:  category,
		Status:    model.MatchWaiting,
		Players:   []model.MatchPlayer{s.playerFor(ctx, uid)},
		Questions: s.pickQuestions(),
		CreatedAt: s.Now().Format(time.RFC3339),
	}
	if err := s.Matches.Save(ctx, match); err != nil {
		return nil, err
	}
	if err := s.Matches.AddWaiting(ctx, category, match.ID); err != nil {
		return nil, err
	}
	return match.Sanitized(), nil
}

// JoinMatch 按 ID 加入指定对战，常用于邀请链接
func (s *MatchService) JoinMatch(ctx context.Context, uid, matchID string) (*model.QuizMatch, error) {
	match, err := s.Matches.Find(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.PlayerIndex(uid) >= 0 {
		return match.Sanitized(), nil
	}
	if match.Status != model.MatchWaiting || len(match.Players) >= 2 {
		return nil, util.ErrMatchUnavailable
	}
	return s.joinWaiting(ctx, match, uid)
}

func (s *MatchService) joinWaiting(ctx context.Context, match *model.QuizMatch, uid string) (*model.QuizMatch, error) {
	match.Players = append(match.Players, s.playerFor(ctx, uid))
	match.Status = model.MatchMatched
	if err := s.Matches.Save(ctx, match); err != nil {
		return nil, err
	}
	if err := s.Matches.RemoveWaiting(ctx, match.Category, match.ID); err != nil {
		logger.Log.Warn("Waiting queue removal failed", zap.String("matchID", match.ID), zap.Error(err))
	}
	return match.Sanitized(), nil
}

// Ready 标记准备就绪，双方都就绪后对战进入答题阶段
func (s *MatchService) Ready(ctx context.Context, uid, matchID string) (*model.QuizMatch, error) {
	match, err := s.Matches.Find(ctx, matchID)
	if err != nil {
		return nil, err
	}
	idx := match.PlayerIndex(uid)
	if idx < 0 {
		return nil, util.ErrNotInMatch
	}
	if match.Status != model.MatchMatched {
		return nil, util.ErrMatchNotReady
	}

	match.Players[idx].Ready = true
	if match.Players[0].Ready && match.Players[1].Ready {
		match.Status = model.MatchInProgress
		match.StartTime = s.Now().Format(time.RFC3339)
	}
	if err := s.Matches.Save(ctx, match); err != nil {
		return nil, err
	}
	return match.Sanitized(), nil
}

// SubmitAnswer 提交一题答案并计分，双方都答完后结算胜负
func (s *MatchService) SubmitAnswer(ctx context.Context, uid, matchID string, questionIndex, answer int) (*AnswerResult, error) {
	match, err := s.Matches.Find(ctx, matchID)
	if err != nil {
		return nil, err
	}
	idx := match.PlayerIndex(uid)
	if idx < 0 {
		return nil, util.ErrNotInMatch
	}
	if match.Status != model.MatchInProgress {
		return nil, util.ErrMatchNotReady
	}
	if questionIndex < 0 || questionIndex >= len(match.Questions) {
		return nil, util.ErrMatchNotReady
	}
	// 题目按顺序作答，忽略重复提交
	if questionIndex != match.Players[idx].Answered {
		return nil, util.ErrMatchNotReady
	}

	question := match.Questions[questionIndex]
	correct := answer == question.CorrectAnswer
	if correct {
		match.Players[idx].Score += pointsPerCorrectAnswer
	}
	match.Players[idx].Answered++

	finished := true
	for _, p := range match.Players {
		if p.Answered < len(match.Questions) {
			finished = false
			break
		}
	}
	if finished {
		match.Status = model.MatchCompleted
		match.EndTime = s.Now().Format(time.RFC3339)
		match.Winner = matchWinner(match)
	}
	if err := s.Matches.Save(ctx, match); err != nil {
		return nil, err
	}

	view := match.Sanitized()
	if match.Status == model.MatchCompleted {
		view = match
	}
	return &AnswerResult{
		Success:       true,
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Score:         match.Players[idx].Score,
		Match:         view,
	}, nil
}

// LeaveMatch 退出对战：等待中直接取消，对局中判对方获胜
func (s *MatchService) LeaveMatch(ctx context.Context, uid, matchID string) (*model.QuizMatch, error) {
	match, err := s.Matches.Find(ctx, matchID)
	if err != nil {
		return nil, err
	}
	idx := match.PlayerIndex(uid)
	if idx < 0 {
		return nil, util.ErrNotInMatch
	}

	switch match.Status {
	case model.MatchWaiting:
		match.Status = model.MatchCancelled
		if err := s.Matches.Delete(ctx, match); err != nil {
			return nil, err
		}
		return match.Sanitized(), nil
	case model.MatchMatched, model.MatchInProgress:
		match.Status = model.MatchCompleted
		match.ForfeitedBy = uid
		match.EndTime = s.Now().Format(time.RFC3339)
		for _, p := range match.Players {
			if p.UID != uid {
				match.Winner = p.UID
			}
		}
		if err := s.Matches.Save(ctx, match); err != nil {
			return nil, err
		}
		return match, nil
	default:
		return match, nil
	}
}

// GetMatch 读取对战状态，完结后才返回正确答案
func (s *MatchService) GetMatch(ctx context.Context, uid, matchID string) (*model.QuizMatch, error) {
	match, err := s.Matches.Find(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.PlayerIndex(uid) < 0 {
		return nil, util.ErrNotInMatch
	}
	if match.Status == model.MatchCompleted {
		return match, nil
	}
	return match.Sanitized(), nil
}

func (s *MatchService) playerFor(ctx context.Context, uid string) model.MatchPlayer {
	player := model.MatchPlayer{UID: uid, DisplayName: "Player"}
	if s.Users != nil {
		if user, err := s.Users.FindByUID(ctx, uid); err == nil && user.DisplayName != "" {
			player.DisplayName = user.DisplayName
		}
	}
	return player
}

func (s *MatchService) pickQuestions() []model.QuizQuestion {
	pool := make([]model.QuizQuestion, len(quizQuestionBank))
	copy(pool, quizQuestionBank)
	s.Rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > questionsPerMatch {
		pool = pool[:questionsPerMatch]
	}
	return pool
}

func matchWinner(match *model.QuizMatch) string {
	if len(match.Players) != 2 {
		return ""
	}
	switch {
	case match.Players[0].Score > match.Players[1].Score:
		return match.Players[0].UID
	case match.Players[1].Score > match.Players[0].Score:
		return match.Players[1].UID
	default:
		return "tie"
	}
}
