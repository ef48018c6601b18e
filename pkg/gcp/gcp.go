package gcp

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenEndpoint = "https://oauth2.googleapis.com/token"
	jwtGrantType  = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// 令牌在过期前 5 分钟即视为失效，提前换新
	expiryBuffer = 5 * time.Minute
)

var ErrMissingCredentials = errors.New("gcp: missing service account credentials")

// ServiceAccount Google 服务账号凭据
// PrivateKey 为 base64 编码的 PEM 私钥，避免配置文件里的多行转义问题。
type ServiceAccount struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

func (sa ServiceAccount) Validate() error {
	if sa.ProjectID == "" || sa.ClientEmail == "" || sa.PrivateKey == "" {
		return ErrMissingCredentials
	}
	return nil
}

// DecodeKey 解析 base64 PEM 为 RSA 私钥
func (sa ServiceAccount) DecodeKey() (*rsa.PrivateKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(sa.PrivateKey)
	if err != nil {
		// 兼容直接传明文 PEM 的情况
		pemBytes = []byte(sa.PrivateKey)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return key, nil
}

// TokenSource 服务账号 OAuth2 访问令牌源，带缓存
type TokenSource struct {
	account ServiceAccount
	scopes  []string

	// 测试注入点
	Endpoint string
	Client   *http.Client
	Now      func() time.Time

	mu     sync.Mutex
	key    *rsa.PrivateKey
	token  string
	expiry time.Time
}

func NewTokenSource(account ServiceAccount, scopes ...string) *TokenSource {
	return &TokenSource{
		account:  account,
		scopes:   scopes,
		Endpoint: tokenEndpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
		Now:      time.Now,
	}
}

// Token 返回有效的访问令牌，缓存未到提前失效线时直接复用
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.Now()
	if ts.token != "" && now.Before(ts.expiry.Add(-expiryBuffer)) {
		return ts.token, nil
	}

	assertion, err := ts.signAssertion(now)
	if err != nil {
		return "", err
	}
	token, expiresIn, err := ts.exchange(ctx, assertion)
	if err != nil {
		return "", err
	}
	ts.token = token
	ts.expiry = now.Add(time.Duration(expiresIn) * time.Second)
	return token, nil
}

func (ts *TokenSource) signAssertion(now time.Time) (string, error) {
	if err := ts.account.Validate(); err != nil {
		return "", err
	}
	if ts.key == nil {
		key, err := ts.account.DecodeKey()
		if err != nil {
			return "", err
		}
		ts.key = key
	}
	claims := jwt.MapClaims{
		"iss":   ts.account.ClientEmail,
		"sub":   ts.account.ClientEmail,
		"aud":   tokenEndpoint,
		"scope": strings.Join(ts.scopes, " "),
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(ts.key)
}

func (ts *TokenSource) exchange(ctx context.Context, assertion string) (string, int64, error) {
	form := url.Values{
		"grant_type": {jwtGrantType},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.Client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("token exchange: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", 0, fmt.Errorf("token exchange: decode response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", 0, errors.New("token exchange: empty access_token")
	}
	return payload.AccessToken, payload.ExpiresIn, nil
}

// authTransport 在每个请求上附加 Bearer 令牌
type authTransport struct {
	source *TokenSource
	base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token(req.Context())
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(clone)
}

// HTTPClient 返回自动携带访问令牌的 HTTP 客户端
func (ts *TokenSource) HTTPClient() *http.Client {
	return &http.Client{
		Transport: &authTransport{source: ts, base: http.DefaultTransport},
		Timeout:   30 * time.Second,
	}
}
