package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/itchan-dev/wall/shared/domain"
	internal_errors "github.com/itchan-dev/wall/shared/errors"
	"github.com/itchan-dev/wall/shared/jwt"
	"github.com/itchan-dev/wall/shared/logger"
)

type AuthService interface {
	Login(ctx context.Context, password string) (token string, expires time.Time, err error)
}

type Auth struct {
	passwordHash []byte
	session      jwt.SessionService
}

// NewAuth takes a bcrypt hash of the admin password. With no hash every login is refused.
func NewAuth(passwordHash []byte, session jwt.SessionService) *Auth {
	return &Auth{passwordHash: passwordHash, session: session}
}

// AdminPasswordHash picks the configured bcrypt hash, or hashes the plain password once.
// Both empty yields nil, which disables admin login.
func AdminPasswordHash(plain, hash string) ([]byte, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("admin password hash is not a bcrypt hash: %w", err)
		}
		return []byte(hash), nil
	}
	if plain == "" {
		return nil, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return h, nil
}

func (s *Auth) Login(ctx context.Context, password string) (string, time.Time, error) {
	if len(s.passwordHash) == 0 {
		logger.Log.Warn("admin login attempted but no admin password is configured")
		return "", time.Time{}, internal_errors.Auth()
	}
	if password == "" || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		logger.Log.Info("admin login refused")
		return "", time.Time{}, internal_errors.Auth()
	}

	token, expires, err := s.session.Issue(domain.SessionClaims{Admin: true})
	if err != nil {
		logger.Log.Error("failed to issue admin session", "error", err)
		return "", time.Time{}, internal_errors.Auth()
	}
	logger.Log.Info("admin logged in")
	return token, expires, nil
}
