package services

import (
	"context"
	"errors"
	"strings"

	"github.com/K-Thour/PointsServer/metrics"
	"github.com/K-Thour/PointsServer/models"
	"github.com/K-Thour/PointsServer/utils"

	"go.uber.org/zap"
)

type Mailer interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is the body returned by register and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users  *UserStore
	tokens *utils.TokenService
	mailer Mailer
	log    *zap.Logger
}

func NewAuthService(users *UserStore, tokens *utils.TokenService, mailer Mailer, log *zap.Logger) *AuthService {
	if mailer == nil {
		mailer = utils.NopMailer{}
	}
	return &AuthService{users: users, tokens: tokens, mailer: mailer, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		metrics.RecordAuthEvent("register", false)
		return nil, Conflict(MsgUserExists)
	case !errors.Is(err, ErrNotFound):
		return nil, Internal(err)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, Internal(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with another registration for the same address
		if errors.Is(err, ErrEmailTaken) {
			metrics.RecordAuthEvent("register", false)
			return nil, Conflict(MsgUserExists)
		}
		return nil, Internal(err)
	}

	token, err := s.tokens.GenerateJWT(user.ID)
	if err != nil {
		return nil, Internal(err)
	}

	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		s.log.Warn("welcome email failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	metrics.RecordAuthEvent("register", true)
	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.RecordAuthEvent("login", false)
			return nil, Malformed(MsgInvalidCreds)
		}
		return nil, Internal(err)
	}

	if !utils.CheckPasswordHash(in.Password, user.Password) {
		metrics.RecordAuthEvent("login", false)
		return nil, Malformed(MsgInvalidCreds)
	}

	token, err := s.tokens.GenerateJWT(user.ID)
	if err != nil {
		return nil, Internal(err)
	}
	metrics.RecordAuthEvent("login", true)
	return &AuthResult{Token: token, User: user}, nil
}
