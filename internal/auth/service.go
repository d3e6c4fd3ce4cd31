package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/trajefino/api/internal/domain"
	"github.com/trajefino/api/internal/users"
)

// Service handles login and registration on top of the users service.
type Service struct {
	users  *users.Service
	issuer *TokenIssuer
}

// NewService creates a new auth service.
func NewService(userService *users.Service, issuer *TokenIssuer) *Service {
	return &Service{users: userService, issuer: issuer}
}

// Session is the result of a successful login or registration.
type Session struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
}

// Login verifies the credentials and issues an access token. Unknown
// users and bad passwords both map to ErrInvalidCredentials so callers
// cannot probe for existing accounts.
func (s *Service) Login(ctx context.Context, userName, password string) (*Session, error) {
	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !user.Enabled {
		return nil, ErrUserDisabled
	}
	if !s.users.CheckPassword(user, password) {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Register creates a new account and logs it in.
func (s *Service) Register(ctx context.Context, input users.CreateUserInput) (*Session, error) {
	user, err := s.users.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.newSession(user)
}

func (s *Service) newSession(user *domain.User) (*Session, error) {
	token, err := s.issuer.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{
		Token:    token,
		UserName: user.UserName,
		FullName: user.FullName,
	}, nil
}
