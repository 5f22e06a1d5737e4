package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 24 * time.Hour

// Claims is what a verified token says about its bearer.
type Claims struct {
	Subject   string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type jwtClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 identity tokens. Tokens are not stored
// anywhere; a token stays valid until it expires.
type Service struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewService(key []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{key: key, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of s that reads the current time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now
	return &c
}

func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) Issue(identityID string, role domain.Role) (string, error) {
	if identityID == "" {
		return "", errors.New("issue token: empty subject")
	}

	now := s.now()
	claims := jwtClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Verify returns domain.ErrTokenInvalid for any malformed, mis-signed or expired token.
func (s *Service) Verify(raw string) (*Claims, error) {
	var c jwtClaims
	tok, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if c.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	out := &Claims{Subject: c.Subject, Role: c.Role, ExpiresAt: c.ExpiresAt.Time}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	return out, nil
}
