package jwtauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-telehealth/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token is invalid")
)

// sessionClaims es el payload que firmamos. Mantiene los nombres
// user_id/email en el JSON para no romper clientes existentes.
type sessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Provider implementa auth.AuthVerifier y auth.TokenIssuer con
// JWT HS256 firmado localmente. El TTL por defecto es 7 días.
type Provider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewProvider(secret string, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Provider{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (p *Provider) Issue(ctx context.Context, claims auth.Claims) (string, error) {
	if strings.TrimSpace(claims.UserID) == "" {
		return "", errors.New("claims missing user id")
	}

	now := p.now()
	sc := sessionClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sc)
	return tok.SignedString(p.secret)
}

func (p *Provider) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return p.now() }))
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrTokenInvalid
	}

	sc, ok := parsed.Claims.(*sessionClaims)
	if !ok || strings.TrimSpace(sc.UserID) == "" {
		return auth.Claims{}, ErrTokenInvalid
	}

	return auth.Claims{UserID: sc.UserID, Email: sc.Email}, nil
}
