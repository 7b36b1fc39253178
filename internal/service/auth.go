package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tasktrack/internal/hash"
	"tasktrack/internal/models"
	"tasktrack/internal/repository"
	"tasktrack/internal/token"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService interface {
	Register(email, password string) (*models.User, error)
	Login(email, password string) (string, time.Time, *models.User, error)
}

type authService struct {
	repo   repository.UserRepository
	hasher *hash.Hasher
	tokens *token.Manager
	logger *zap.Logger
}

func NewAuthService(repo repository.UserRepository, hasher *hash.Hasher, tokens *token.Manager, logger *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

func (s *authService) Register(email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.Create(email, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return user, nil
}

func (s *authService) Login(email, password string) (string, time.Time, *models.User, error) {
	user, err := s.repo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return "", time.Time{}, nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}

	tokenString, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return "", time.Time{}, nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))
	return tokenString, expiresAt, user, nil
}
