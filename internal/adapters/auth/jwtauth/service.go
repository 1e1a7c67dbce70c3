package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pet-adoption-marketplace/internal/ports/auth"
)

const (
	DefaultIssuer   = "pet-pal-app"
	DefaultAudience = "pet-pal-users"
)

var (
	ErrSecretRequired = errors.New("jwt secret required")
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
)

type Config struct {
	Secret string

	// TTL 0 = tokens sin expiración.
	TTL time.Duration

	Issuer   string
	Audience string
}

// Service emite y verifica tokens HS256. Implementa auth.TokenIssuer y auth.AuthVerifier.
type Service struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func New(cfg Config) (*Service, error) {
	if len(strings.TrimSpace(cfg.Secret)) == 0 {
		return nil, ErrSecretRequired
	}
	iss := strings.TrimSpace(cfg.Issuer)
	if iss == "" {
		iss = DefaultIssuer
	}
	aud := strings.TrimSpace(cfg.Audience)
	if aud == "" {
		aud = DefaultAudience
	}
	return &Service{
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TTL,
		issuer:   iss,
		audience: aud,
		now:      time.Now,
	}, nil
}

func (s *Service) Issue(ctx context.Context, c auth.Claims) (string, error) {
	if !c.IsAuthenticated() {
		return "", errors.New("claims without email")
	}

	now := s.now()
	claims := tokenClaims{
		Email: c.Email,
		Role:  c.Role,
		Name:  c.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  c.Email,
			Issuer:   s.issuer,
			Audience: jwt.ClaimStrings{s.audience},
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Claims{}, ErrExpiredToken
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	out := auth.Claims{
		Email: strings.TrimSpace(claims.Email),
		Role:  strings.TrimSpace(claims.Role),
		Name:  strings.TrimSpace(claims.Name),
	}
	if !out.IsAuthenticated() {
		return auth.Claims{}, fmt.Errorf("%w: missing email", ErrInvalidToken)
	}
	if out.Role == "" {
		out.Role = auth.RoleUser
	}
	return out, nil
}
