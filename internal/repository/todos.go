package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"tasktrack/internal/models"
)

// TodoRepository persists todo items. Every query is filtered by the owning
// user's id: a row belonging to another owner behaves exactly like a missing
// row.
type TodoRepository interface {
	ListByOwner(ownerID string) ([]models.Todo, error)
	Create(ownerID, content string) (*models.Todo, error)
	FindOwned(id, ownerID string) (*models.Todo, error)
	Update(id, ownerID string, content *string, completed *bool) (*models.Todo, error)
	Delete(id, ownerID string) (bool, error)
	Count(ownerID string) (int, error)
	CountCompleted(ownerID string) (int, error)
}

type todoRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewTodoRepository(db *sqlx.DB, log *logrus.Logger) TodoRepository {
	return &todoRepository{db: db, log: log}
}

func (r *todoRepository) ListByOwner(ownerID string) ([]models.Todo, error) {
	todos := []models.Todo{}
	query := `SELECT id, owner_id, content, completed, created_at, updated_at
	          FROM todos WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := r.db.Select(&todos, query, ownerID); err != nil {
		r.log.Errorf("Failed to list todos for owner %s: %v", ownerID, err)
		return nil, err
	}
	return todos, nil
}

func (r *todoRepository) Create(ownerID, content string) (*models.Todo, error) {
	todo := &models.Todo{}
	query := `INSERT INTO todos (id, owner_id, content, completed)
	          VALUES ($1, $2, $3, false)
	          RETURNING id, owner_id, content, completed, created_at, updated_at`
	if err := r.db.QueryRowx(query, uuid.NewString(), ownerID, content).StructScan(todo); err != nil {
		r.log.Errorf("Failed to insert todo: %v", err)
		return nil, err
	}
	return todo, nil
}

func (r *todoRepository) FindOwned(id, ownerID string) (*models.Todo, error) {
	var todo models.Todo
	query := `SELECT id, owner_id, content, completed, created_at, updated_at
	          FROM todos WHERE id = $1 AND owner_id = $2`
	if err := r.db.Get(&todo, query, id, ownerID); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Update applies the supplied fields only. Both fields nil is a caller bug;
// the service layer rejects empty updates before reaching the store.
func (r *todoRepository) Update(id, ownerID string, content *string, completed *bool) (*models.Todo, error) {
	setParts := []string{}
	args := []interface{}{}

	if content != nil {
		args = append(args, *content)
		setParts = append(setParts, fmt.Sprintf("content = $%d", len(args)))
	}
	if completed != nil {
		args = append(args, *completed)
		setParts = append(setParts, fmt.Sprintf("completed = $%d", len(args)))
	}
	setParts = append(setParts, "updated_at = now()")

	args = append(args, id, ownerID)
	query := fmt.Sprintf(`UPDATE todos SET %s WHERE id = $%d AND owner_id = $%d
	          RETURNING id, owner_id, content, completed, created_at, updated_at`,
		strings.Join(setParts, ", "), len(args)-1, len(args))

	todo := &models.Todo{}
	if err := r.db.QueryRowx(query, args...).StructScan(todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (r *todoRepository) Delete(id, ownerID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM todos WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		r.log.Errorf("Failed to delete todo %s: %v", id, err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *todoRepository) Count(ownerID string) (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM todos WHERE owner_id = $1`, ownerID); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *todoRepository) CountCompleted(ownerID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM todos WHERE owner_id = $1 AND completed = true`
	if err := r.db.Get(&count, query, ownerID); err != nil {
		return 0, err
	}
	return count, nil
}
