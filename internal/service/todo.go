package service

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"tasktrack/internal/models"
	"tasktrack/internal/repository"
)

const maxContentLength = 500

var (
	ErrContentRequired = errors.New("todo content is required")
	ErrContentTooLong  = errors.New("todo content must be at most 500 characters")
	ErrNoFields        = errors.New("no fields supplied for update")
	ErrTodoNotFound    = errors.New("todo not found")
)

// TodoService applies ownership scoping to every operation: the owner id
// always comes from the verified claim set, never from client input. A todo
// belonging to another user is reported as not found.
type TodoService interface {
	List(ownerID string) ([]models.Todo, error)
	Create(ownerID, content string) (*models.Todo, error)
	Update(ownerID, id string, content *string, completed *bool) (*models.Todo, error)
	Delete(ownerID, id string) error
	Stats(ownerID string) (*models.TodoStats, error)
}

type todoService struct {
	repo   repository.TodoRepository
	logger *zap.Logger
}

func NewTodoService(repo repository.TodoRepository, logger *zap.Logger) TodoService {
	return &todoService{repo: repo, logger: logger}
}

func (s *todoService) List(ownerID string) ([]models.Todo, error) {
	todos, err := s.repo.ListByOwner(ownerID)
	if err != nil {
		s.logger.Error("Failed to list todos", zap.Error(err))
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func (s *todoService) Create(ownerID, content string) (*models.Todo, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	todo, err := s.repo.Create(ownerID, content)
	if err != nil {
		s.logger.Error("Failed to create todo", zap.Error(err))
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Update(ownerID, id string, content *string, completed *bool) (*models.Todo, error) {
	if content == nil && completed == nil {
		return nil, ErrNoFields
	}
	if content != nil {
		trimmed, err := validateContent(*content)
		if err != nil {
			return nil, err
		}
		content = &trimmed
	}

	// Ownership check first; a row owned by someone else is indistinguishable
	// from a missing one.
	if _, err := s.repo.FindOwned(id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		s.logger.Error("Failed to look up todo", zap.Error(err))
		return nil, fmt.Errorf("failed to look up todo: %w", err)
	}

	todo, err := s.repo.Update(id, ownerID, content, completed)
	if err != nil {
		// The row can vanish between the check and the update.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		s.logger.Error("Failed to update todo", zap.Error(err))
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Delete(ownerID, id string) error {
	deleted, err := s.repo.Delete(id, ownerID)
	if err != nil {
		s.logger.Error("Failed to delete todo", zap.Error(err))
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}

func (s *todoService) Stats(ownerID string) (*models.TodoStats, error) {
	total, err := s.repo.Count(ownerID)
	if err != nil {
		s.logger.Error("Failed to count todos", zap.Error(err))
		return nil, fmt.Errorf("failed to count todos: %w", err)
	}
	completed, err := s.repo.CountCompleted(ownerID)
	if err != nil {
		s.logger.Error("Failed to count completed todos", zap.Error(err))
		return nil, fmt.Errorf("failed to count completed todos: %w", err)
	}

	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return &models.TodoStats{
		Total:          total,
		Completed:      completed,
		Pending:        total - completed,
		CompletionRate: rate,
	}, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrContentRequired
	}
	// The limit is in characters, not bytes; multibyte text counts per rune.
	if utf8.RuneCountInString(content) > maxContentLength {
		return "", ErrContentTooLong
	}
	return content, nil
}
