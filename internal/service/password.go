package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/job_board/internal/repo"
	"github.com/Skotchmaster/job_board/internal/transport"
	pkg_hash "github.com/Skotchmaster/job_board/pkg/hash"
	"github.com/Skotchmaster/job_board/pkg/validator"
)

const (
	ResetTokenTTL       = time.Hour
	resetRateLimitScope = "forgot_password"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

type RateLimiter interface {
	Allow(ctx context.Context, scope, key string) (bool, error)
}

type PasswordService struct {
	Repo        *repo.GormRepo
	Mailer      Mailer
	Limiter     RateLimiter
	FrontendURL string
	Now         func() time.Time
}

func (s *PasswordService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ForgotPassword stores the sha256 of a fresh token and mails the raw token as a link.
func (s *PasswordService) ForgotPassword(ctx context.Context, req transport.ForgotPasswordRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if s.Limiter != nil {
		ok, err := s.Limiter.Allow(ctx, resetRateLimitScope, strings.ToLower(req.Email))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: reset already requested, try again later", ErrRateLimited)
		}
	}

	user, err := s.Repo.UserByEmail(ctx, req.Email)
	if err != nil {
		return notFound(err, "user")
	}

	token, err := NewResetToken()
	if err != nil {
		return err
	}
	if err := s.Repo.SetResetToken(ctx, user.ID, HashResetToken(token), s.now().Add(ResetTokenTTL)); err != nil {
		return err
	}

	link := strings.TrimRight(s.FrontendURL, "/") + "/reset-password/" + token
	if err := s.Mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

func (s *PasswordService) ResetPassword(ctx context.Context, token string, req transport.ResetPasswordRequest) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrValidation)
	}
	if err := validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.Repo.UserByResetToken(ctx, HashResetToken(token), s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invalid or expired token", ErrValidation)
		}
		return err
	}

	pwHash, err := pkg_hash.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.Repo.ResetPassword(ctx, user.ID, pwHash)
}

func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
