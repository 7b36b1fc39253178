package service

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tasktrack/internal/models"
	"tasktrack/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrSelfTarget   = errors.New("operation may not target your own account")
	ErrInvalidRole  = errors.New("invalid role")
)

// AdminService implements the cross-user operations available to admins.
// Authentication and the role gate happen in middleware; the self-target
// rules live here so they hold no matter how the handlers are wired.
type AdminService interface {
	ListUsers() ([]models.User, error)
	DeleteUser(callerID, targetID string) error
	UpdateRole(callerID, targetID string, role models.Role) (*models.User, error)
}

type adminService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewAdminService(repo repository.UserRepository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger}
}

func (s *adminService) ListUsers() ([]models.User, error) {
	users, err := s.repo.List()
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *adminService) DeleteUser(callerID, targetID string) error {
	if callerID == targetID {
		return ErrSelfTarget
	}

	deleted, err := s.repo.Delete(targetID)
	if err != nil {
		s.logger.Error("Failed to delete user", zap.String("user_id", targetID), zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}

	s.logger.Info("User deleted", zap.String("user_id", targetID), zap.String("deleted_by", callerID))
	return nil
}

func (s *adminService) UpdateRole(callerID, targetID string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if callerID == targetID {
		return nil, ErrSelfTarget
	}

	user, err := s.repo.UpdateRole(targetID, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to update role", zap.String("user_id", targetID), zap.Error(err))
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.logger.Info("User role updated",
		zap.String("user_id", targetID),
		zap.String("role", string(role)),
		zap.String("updated_by", callerID))
	return user, nil
}
