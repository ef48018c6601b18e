package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	certsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

	// 公钥缓存时长
	certsTTL = 24 * time.Hour

	// iat 允许的时钟偏移
	issuedAtLeeway = 300 * time.Second
)

var (
	ErrInvalidToken = errors.New("invalid id token")
	ErrTokenExpired = errors.New("id token expired")
)

// Claims 验证通过后暴露给业务层的身份信息
type Claims struct {
	UID   string
	Email string
	Name  string
}

// Verifier 校验 Firebase ID Token
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Claims, error)
}

// tokenClaims ID Token 里与校验相关的声明
type tokenClaims struct {
	Sub   string `json:"sub"`
	Aud   string `json:"aud"`
	Iss   string `json:"iss"`
	Exp   int64  `json:"exp"`
	Iat   int64  `json:"iat"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (tc *tokenClaims) toClaims() *Claims {
	return &Claims{UID: tc.Sub, Email: tc.Email, Name: tc.Name}
}

// validate 共同的声明校验，full 与 light 两条路径保持一致
func validate(tc *tokenClaims, projectID string, now time.Time) error {
	if tc.Sub == "" {
		return fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	if tc.Exp <= now.Unix() {
		return ErrTokenExpired
	}
	if tc.Iat > now.Add(issuedAtLeeway).Unix() {
		return fmt.Errorf("%w: issued in the future", ErrInvalidToken)
	}
	if tc.Aud != projectID {
		return fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if tc.Iss != "https://securetoken.google.com/"+projectID {
		return fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	return nil
}

func mapToTokenClaims(m jwt.MapClaims) (*tokenClaims, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var tc tokenClaims
	if err := json.Unmarshal(raw, &tc); err != nil {
		return nil, err
	}
	return &tc, nil
}

// LightVerifier 仅校验声明不验签，适用于网关已做过验签的内网部署
type LightVerifier struct {
	ProjectID string
	Now       func() time.Time
}

func NewLightVerifier(projectID string) *LightVerifier {
	return &LightVerifier{ProjectID: projectID, Now: time.Now}
}

func (v *LightVerifier) Verify(ctx context.Context, idToken string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	tc, err := mapToTokenClaims(token.Claims.(jwt.MapClaims))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := validate(tc, v.ProjectID, v.Now()); err != nil {
		return nil, err
	}
	return tc.toClaims(), nil
}

// FullVerifier 拉取 securetoken 公钥验签后再校验声明
type FullVerifier struct {
	ProjectID string
	Now       func() time.Time
	Client    *http.Client
	CertsURL  string

	mu      sync.Mutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

func NewFullVerifier(projectID string) *FullVerifier {
	return &FullVerifier{
		ProjectID: projectID,
		Now:       time.Now,
		Client:    &http.Client{Timeout: 10 * time.Second},
		CertsURL:  certsURL,
	}
}

func (v *FullVerifier) Verify(ctx context.Context, idToken string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}), jwt.WithoutClaimsValidation())
	token, err := parser.Parse(idToken, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("%w: missing kid header", ErrInvalidToken)
		}
		key, err := v.publicKey(ctx, kid)
		if err != nil {
			return nil, err
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	tc, err := mapToTokenClaims(token.Claims.(jwt.MapClaims))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := validate(tc, v.ProjectID, v.Now()); err != nil {
		return nil, err
	}
	return tc.toClaims(), nil
}

func (v *FullVerifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keys != nil && v.Now().Sub(v.fetched) < certsTTL {
		if key, ok := v.keys[kid]; ok {
			return key, nil
		}
	}
	// 缓存没有对应 kid 时强制刷新，覆盖密钥轮换
	if err := v.refreshLocked(ctx); err != nil {
		return nil, err
	}
	key, ok := v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kid %s", ErrInvalidToken, kid)
	}
	return key, nil
}

func (v *FullVerifier) refreshLocked(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.CertsURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch securetoken certs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch securetoken certs: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	var raw map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("decode securetoken certs: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(raw))
	for kid, certPEM := range raw {
		block, _ := pem.Decode([]byte(certPEM))
		if block == nil {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			continue
		}
		if pub, ok := cert.PublicKey.(*rsa.PublicKey); ok {
			keys[kid] = pub
		}
	}
	if len(keys) == 0 {
		return errors.New("securetoken certs: no usable keys")
	}
	v.keys = keys
	v.fetched = v.Now()
	return nil
}
