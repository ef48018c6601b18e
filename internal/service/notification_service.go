package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finstar_backend/internal/model"
	"finstar_backend/internal/repository"
	"finstar_backend/internal/util"
	"finstar_backend/pkg/gcp"
	"finstar_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	messagingScope = "https://www.googleapis.com/auth/firebase.messaging"
	fcmBaseURL     = "https://fcm.googleapis.com"

	// 批量提醒单次最多触达的用户数
	reminderBatchLimit = 500
)

// NotificationService 推送服务，走 FCM HTTP v1 接口逐令牌下发
type NotificationService struct {
	ProjectID string
	Tokens    *repository.TokenRepository
	Users     *repository.UserRepository
	Client    *http.Client
	BaseURL   string
	Now       func() time.Time
}

// NewNotificationService 创建推送服务实例
func NewNotificationService(account gcp.ServiceAccount, tokens *repository.TokenRepository, users *repository.UserRepository) *NotificationService {
	return &NotificationService{
		ProjectID: account.ProjectID,
		Tokens:    tokens,
		Users:     users,
		Client:    gcp.NewTokenSource(account, messagingScope).HTTPClient(),
		BaseURL:   fcmBaseURL,
		Now:       time.Now,
	}
}

// NotifyResult 推送结果统计
type NotifyResult struct {
	Success    bool `json:"success"`
	Recipients int  `json:"recipients"`
	Sent       int  `json:"sent"`
	Failed     int  `json:"failed"`
	Pruned     int  `json:"pruned"`
}

// RegisterToken 注册或刷新设备令牌
func (s *NotificationService) RegisterToken(ctx context.Context, uid, token, platform string) error {
	return s.Tokens.SaveToken(ctx, uid, &model.FCMToken{
		Token:     token,
		Platform:  platform,
		UpdatedAt: s.Now().Format(time.RFC3339),
	})
}

// UnregisterToken 注销设备令牌
func (s *NotificationService) UnregisterToken(ctx context.Context, uid, token string) error {
	return s.Tokens.DeleteToken(ctx, uid, token)
}

// SendToUser 向单个用户的所有设备推送，失效令牌顺手清理
func (s *NotificationService) SendToUser(ctx context.Context, uid, title, body string, data map[string]string) (*NotifyResult, error) {
	tokens, err := s.Tokens.ListTokens(ctx, uid)
	if err != nil {
		return nil, err
	}

	result := &NotifyResult{Success: true, Recipients: 1}
	for _, token := range tokens {
		err := s.send(ctx, token, title, body, data)
		switch {
		case err == nil:
			result.Sent++
		case isUnregistered(err):
			result.Pruned++
			if delErr := s.Tokens.DeleteToken(ctx, uid, token); delErr != nil {
				logger.Log.Warn("Stale token cleanup failed", zap.String("uid", uid), zap.Error(delErr))
			}
		default:
			result.Failed++
			logger.Log.Warn("FCM send failed", zap.String("uid", uid), zap.Error(err))
		}
	}
	return result, nil
}

// StreakReminder 给连击待续的用户发提醒：今天还没活跃且连击未清零
func (s *NotificationService) StreakReminder(ctx context.Context) (*NotifyResult, error) {
	today := util.DateIST(s.Now())
	users, err := s.Users.FindInactiveWithStreak(ctx, today, reminderBatchLimit)
	if err != nil {
		return nil, err
	}
	return s.broadcast(ctx, users, func(u *model.User) (string, string) {
		title := "Don't break your streak!"
		body := fmt.Sprintf("You're on a %d-day streak. Check in today to keep it going!", u.StreakDays)
		return title, body
	})
}

// ChallengeReminder 给今天已活跃的用户提醒完成每日挑战
func (s *NotificationService) ChallengeReminder(ctx context.Context) (*NotifyResult, error) {
	today := util.DateIST(s.Now())
	users, err := s.Users.FindActiveOn(ctx, today, reminderBatchLimit)
	if err != nil {
		return nil, err
	}
	return s.broadcast(ctx, users, func(u *model.User) (string, string) {
		return "Daily challenges are waiting", "Finish today's challenges before they reset at midnight!"
	})
}

func (s *NotificationService) broadcast(ctx context.Context, users []*model.User, message func(*model.User) (string, string)) (*NotifyResult, error) {
	total := &NotifyResult{Success: true}
	for _, u := range users {
		title, body := message(u)
		res, err := s.SendToUser(ctx, u.UID, title, body, nil)
		if err != nil {
			logger.Log.Warn("Reminder send failed", zap.String("uid", u.UID), zap.Error(err))
			continue
		}
		total.Recipients++
		total.Sent += res.Sent
		total.Failed += res.Failed
		total.Pruned += res.Pruned
	}
	return total, nil
}

// fcmMessage FCM HTTP v1 单条消息
type fcmMessage struct {
	Message struct {
		Token        string            `json:"token"`
		Notification map[string]string `json:"notification"`
		Data         map[string]string `json:"data,omitempty"`
	} `json:"message"`
}

type fcmError struct {
	Status string
	Body   string
}

func (e *fcmError) Error() string {
	return fmt.Sprintf("fcm: %s: %s", e.Status, e.Body)
}

func (s *NotificationService) send(ctx context.Context, token, title, body string, data map[string]string) error {
	payload := fcmMessage{}
	payload.Message.Token = token
	payload.Message.Notification = map[string]string{"title": title, "body": body}
	payload.Message.Data = map[string]string{"click_action": "FLUTTER_NOTIFICATION_CLICK"}
	for k, v := range data {
		payload.Message.Data[k] = v
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/v1/projects/%s/messages:send", s.BaseURL, s.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &fcmError{Status: resp.Status, Body: string(respBody)}
}

// isUnregistered 判断 FCM 是否报告令牌已失效
func isUnregistered(err error) bool {
	fe, ok := err.(*fcmError)
	if !ok {
		return false
	}
	return strings.Contains(fe.Body, "UNREGISTERED") || strings.Contains(fe.Body, "NOT_FOUND")
}
