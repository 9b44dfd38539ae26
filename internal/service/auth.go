package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/job_board/internal/models"
	"github.com/Skotchmaster/job_board/internal/repo"
	"github.com/Skotchmaster/job_board/internal/transport"
	pkg_hash "github.com/Skotchmaster/job_board/pkg/hash"
	"github.com/Skotchmaster/job_board/pkg/logging"
	"github.com/Skotchmaster/job_board/pkg/tokens"
	"github.com/Skotchmaster/job_board/pkg/validator"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Events    EventPublisher
	Now       func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	req.Email = strings.TrimSpace(req.Email)
	if err := validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.RoleID == 0 {
		req.RoleID = models.RoleApplicant
	}

	taken, err := s.Repo.EmailTaken(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Username: req.Email,
		Password: pwHash,
		FullName: req.FullName,
		RoleID:   req.RoleID,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, user.ID, map[string]any{
		"type":   EventUserRegistered,
		"userID": user.ID,
		"email":  user.Email,
		"roleID": user.RoleID,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	if err := validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.Repo.UserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.Password, req.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, _, err := tokens.NewAccessToken(tokens.AccessClaims{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		RoleID:   user.RoleID,
	}, s.JWTSecret, s.now())
	if err != nil {
		return nil, err
	}

	return &transport.LoginResponse{
		Token: token,
		User: transport.UserView{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			RoleID:   user.RoleID,
		},
	}, nil
}
