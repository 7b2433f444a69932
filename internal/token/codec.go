// Package token signs and verifies the portal's two bearer token categories:
// short-lived access tokens and long-lived refresh tokens. The two categories
// use independent secrets, so a leaked access secret cannot forge refresh
// tokens and vice versa.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/peterkingsmesn/jig-backend/internal/config"
	apperrors "github.com/peterkingsmesn/jig-backend/internal/errors"
)

// Token lifetimes are fixed constants, not configurable per call.
const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrMissingSecret = errors.New("token: signing secret is not configured")
	ErrInvalidToken  = errors.New("token: invalid token")
	ErrTokenExpired  = errors.New("token: token expired")
)

// Secrets holds the two signing secrets, resolved once at startup.
type Secrets struct {
	Access  []byte
	Refresh []byte
}

// SecretsFromConfig validates and materializes the signing secrets.
// Both must be set and must differ; the process refuses to issue tokens otherwise.
func SecretsFromConfig(cfg config.AuthConfig) (Secrets, error) {
	if cfg.AccessSecret == "" {
		return Secrets{}, apperrors.Configuration("JWT_SECRET")
	}
	if cfg.RefreshSecret == "" {
		return Secrets{}, apperrors.Configuration("JWT_REFRESH_SECRET")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return Secrets{}, apperrors.Configuration("JWT_REFRESH_SECRET must differ from JWT_SECRET")
	}
	return Secrets{
		Access:  []byte(cfg.AccessSecret),
		Refresh: []byte(cfg.RefreshSecret),
	}, nil
}

// Codec signs and verifies both token categories.
type Codec struct {
	secrets Secrets
}

func NewCodec(secrets Secrets) *Codec {
	return &Codec{secrets: secrets}
}

// IssueAccess signs claims with the access secret and a 1-hour expiry.
func (c *Codec) IssueAccess(claims Claims) (string, error) {
	return c.issue(claims, c.secrets.Access, AccessTokenTTL)
}

// IssueRefresh signs claims with the refresh secret and a 7-day expiry.
func (c *Codec) IssueRefresh(claims Claims) (string, error) {
	return c.issue(claims, c.secrets.Refresh, RefreshTokenTTL)
}

// VerifyAccess verifies an access token and returns its claims. Signature
// mismatch, malformed structure, and expiry all surface as ErrInvalidToken to
// callers that do not care; IsExpired distinguishes expiry for logging.
func (c *Codec) VerifyAccess(tokenString string) (Claims, error) {
	return c.verify(tokenString, c.secrets.Access)
}

// VerifyRefresh verifies a refresh token and returns its claims.
func (c *Codec) VerifyRefresh(tokenString string) (Claims, error) {
	return c.verify(tokenString, c.secrets.Refresh)
}

// IsExpired reports whether a verification failure was caused by expiry.
func IsExpired(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

func (c *Codec) issue(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

func (c *Codec) verify(tokenString string, secret []byte) (Claims, error) {
	if len(secret) == 0 {
		return Claims{}, ErrMissingSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
