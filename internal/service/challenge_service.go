package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/docstore"
	"finstar_backend/pkg/monitoring"
)

// 每日固定发放的挑战数
const dailyChallengeCount = 3

type ChallengeService struct {
	Store      docstore.Store
	Challenges *repository.ChallengeRepository
	Now        func() time.Time
	Rand       *rand.Rand
}

// NewChallengeService 创建每日挑战服务
func NewChallengeService(store docstore.Store, challenges *repository.ChallengeRepository) *ChallengeService {
	return &ChallengeService{
		Store:      store,
		Challenges: challenges,
		Now:        time.Now,
		Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// DailyResult 挑战查询/生成响应
type DailyResult struct {
	Success   bool                     `json:"success"`
	Generated bool                     `json:"generated"`
	Date      string                   `json:"date"`
	Set       *model.DailyChallengeSet `json:"dailyChallenges"`
}

// Daily 返回当日挑战集，缺失或要求强制重新生成时发一组新的
func (s *ChallengeService) Daily(ctx context.Context, uid string, forceRegenerate bool) (*DailyResult, error) {
	now := s.Now()
	today := util.DateIST(now)

	existing, err := s.Challenges.FindByDate(ctx, uid, today)
	if err != nil {
		return nil, err
	}
	if existing != nil && !forceRegenerate {
		return &DailyResult{Success: true, Generated: false, Date: today, Set: existing}, nil
	}

	set := s.generate(today, now)
	if err := s.Challenges.Save(ctx, uid, set); err != nil {
		return nil, err
	}
	return &DailyResult{Success: true, Generated: true, Date: today, Set: set}, nil
}

// generate 从模板池随机挑三个，目标与奖励带随机扰动
func (s *ChallengeService) generate(date string, now time.Time) *model.DailyChallengeSet {
	picked := make([]challengeTemplate, len(challengeTemplates))
	copy(picked, challengeTemplates)
	s.Rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	picked = picked[:dailyChallengeCount]

	challenges := make([]model.Challenge, 0, dailyChallengeCount)
	for i, tpl := range picked {
		target := tpl.Targets[s.Rand.Intn(len(tpl.Targets))]
		description := tpl.Description
		if strings.Contains(description, "%d") {
			description = fmt.Sprintf(description, target)
		}
		baseReward := target * 10
		challenges = append(challenges, model.Challenge{
			ID:          fmt.Sprintf("daily_%s_%d", date, i),
			Type:        tpl.Type,
			Title:       tpl.Title,
			Description: description,
			Target:      target,
			Progress:    0,
			XPReward:    baseReward + int64(s.Rand.Intn(20)),
			CoinReward:  baseReward/2 + int64(s.Rand.Intn(10)),
			Completed:   false,
			Claimed:     false,
		})
	}

	return &model.DailyChallengeSet{
		Date:         date,
		Challenges:   challenges,
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		AllCompleted: false,
		AllClaimed:   false,
	}
}

// ApplyEvent 把一次业务动作折算进当日挑战，完成瞬间在同一事务发放奖励
func (s *ChallengeService) ApplyEvent(ctx context.Context, uid string, event model.ChallengeEvent) error {
	today := util.DateIST(s.Now())

	return docstore.RunTransaction(ctx, s.Store, func(tx *docstore.Tx) error {
		snap, err := tx.Get(ctx, repository.DailyChallengePath(uid, today))
		if err != nil {
			return err
		}
		if !snap.Exists {
			return nil
		}
		var set model.DailyChallengeSet
		if err := snap.DataTo(&set); err != nil {
			return err
		}

		var reward Reward
		changed := false
		allCompleted := true
		for i := range set.Challenges {
			ch := &set.Challenges[i]
			if ch.Completed {
				continue
			}
			delta := eventDelta(ch.Type, event)
			if delta > 0 {
				ch.Progress = minInt64(ch.Progress+delta, ch.Target)
				changed = true
				if ch.Progress >= ch.Target {
					// 奖励只在未完成到完成的瞬间发一次
					ch.Completed = true
					reward.XP += ch.XPReward
					reward.Coins += ch.CoinReward
				}
			}
			if !ch.Completed {
				allCompleted = false
			}
		}
		if !changed {
			return nil
		}
		set.AllCompleted = allCompleted

		tx.Set(repository.DailyChallengePath(uid, today), repository.ChallengeSetFields(&set))

		if reward.XP > 0 || reward.Coins > 0 {
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
			info := LevelFromXP(user.XP + reward.XP)
			tx.Update(repository.UserPath(uid), map[string]any{
				"xp":               docstore.Increment(reward.XP),
				"level":            info.Level,
				"coins":            docstore.Increment(reward.Coins),
				"totalCoinsEarned": docstore.Increment(reward.Coins),
			})
			monitoring.ObserveReward("challenge", reward.XP, reward.Coins)
		}
		return nil
	})
}

// Claim 客户端确认领取已完成挑战的展示状态
func (s *ChallengeService) Claim(ctx context.Context, uid, challengeID string) (*DailyResult, error) {
	today := util.DateIST(s.Now())

	var out *model.DailyChallengeSet
	err := docstore.RunTransaction(ctx, s.Store, func(tx *docstore.Tx) error {
		snap, err := tx.Get(ctx, repository.DailyChallengePath(uid, today))
		if err != nil {
			return err
		}
		if !snap.Exists {
			return util.Invalid("no challenges generated for today")
		}
		var set model.DailyChallengeSet
		if err := snap.DataTo(&set); err != nil {
			return err
		}

		found := false
		allClaimed := true
		for i := range set.Challenges {
			ch := &set.Challenges[i]
			if ch.ID == challengeID {
				found = true
				if !ch.Completed {
					return util.Invalid("challenge %s is not completed yet", challengeID)
				}
				ch.Claimed = true
			}
			if !ch.Claimed {
				allClaimed = false
			}
		}
		if !found {
			return util.Invalid("challenge %s not found", challengeID)
		}
		set.AllClaimed = allClaimed
		tx.Set(repository.DailyChallengePath(uid, today), repository.ChallengeSetFields(&set))
		out = &set
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DailyResult{Success: true, Date: today, Set: out}, nil
}

// eventDelta 某类型挑战从这次动作里获得的进度
func eventDelta(challengeType string, event model.ChallengeEvent) int64 {
	switch challengeType {
	case model.ChallengePlayGames:
		return event.GamesPlayed
	case model.ChallengeEarnXP:
		return event.XPEarned
	case model.ChallengeEarnCoins:
		return event.CoinsEarned
	case model.ChallengeCompleteLesson:
		return event.LessonsCompleted
	case model.ChallengePerfectScore:
		if event.PerfectScore {
			return 1
		}
	case model.ChallengeWinQuiz:
		if event.QuizWon {
			return 1
		}
	}
	return 0
}
