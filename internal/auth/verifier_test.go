package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testProject = "demo-project"

func mintToken(t *testing.T, mutate func(claims jwt.MapClaims)) string {
	t.Helper()
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	claims := jwt.MapClaims{
		"sub":   "user-1",
		"aud":   testProject,
		"iss":   "https://securetoken.google.com/" + testProject,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"email": "asha@example.com",
	}
	if mutate != nil {
		mutate(claims)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unverified"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func newTestVerifier() *LightVerifier {
	v := NewLightVerifier(testProject)
	v.Now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }
	return v
}

func TestLightVerifierAcceptsValidClaims(t *testing.T) {
	claims, err := newTestVerifier().Verify(context.Background(), mintToken(t, nil))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UID != "user-1" {
		t.Errorf("uid = %s", claims.UID)
	}
	if claims.Email != "asha@example.com" {
		t.Errorf("email = %s", claims.Email)
	}
}

func TestLightVerifierRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(jwt.MapClaims)
		wantErr error
	}{
		{"missing sub", func(c jwt.MapClaims) { delete(c, "sub") }, ErrInvalidToken},
		{"expired", func(c jwt.MapClaims) { c["exp"] = time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC).Unix() }, ErrTokenExpired},
		{"issued far in future", func(c jwt.MapClaims) { c["iat"] = time.Date(2026, 8, 28, 11, 0, 0, 0, time.UTC).Unix() }, ErrInvalidToken},
		{"wrong audience", func(c jwt.MapClaims) { c["aud"] = "other-project" }, ErrInvalidToken},
		{"wrong issuer", func(c jwt.MapClaims) { c["iss"] = "https://accounts.google.com" }, ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestVerifier().Verify(context.Background(), mintToken(t, tc.mutate))
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestLightVerifierAllowsSmallIatSkew(t *testing.T) {
	token := mintToken(t, func(c jwt.MapClaims) {
		// 5 分钟以内的时钟偏移可以接受
		c["iat"] = time.Date(2026, 8, 28, 10, 4, 0, 0, time.UTC).Unix()
	})
	if _, err := newTestVerifier().Verify(context.Background(), token); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestLightVerifierRejectsGarbage(t *testing.T) {
	if _, err := newTestVerifier().Verify(context.Background(), "not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
