package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/trajefino/api/internal/domain"
)

// TokenConfig contains token signing settings.
type TokenConfig struct {
	SecretKey           string
	AccessTokenDuration time.Duration
}

// Claims are the JWT claims carried by access tokens. The subject is the
// user name and Role carries the access level checked by route middleware.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates HMAC access tokens.
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates a token issuer from the given settings.
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(cfg.SecretKey),
		duration: cfg.AccessTokenDuration,
		now:      time.Now,
	}
}

// IssueToken signs an access token for the given user.
func (t *TokenIssuer) IssueToken(user *domain.User) (string, error) {
	now := t.now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies an access token, returning the user
// name and role it carries. It implements httputil.TokenValidator.
func (t *TokenIssuer) ValidateToken(_ context.Context, tokenString string) (string, domain.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.IsValid() {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.Role, nil
}
