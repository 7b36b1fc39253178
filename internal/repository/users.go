package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"tasktrack/internal/models"
)

// ErrDuplicateEmail is returned when an insert hits the unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

type UserRepository interface {
	Create(email, passwordHash string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	List() ([]models.User, error)
	Delete(id string) (bool, error)
	UpdateRole(id string, role models.Role) (*models.User, error)
}

type userRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewUserRepository(db *sqlx.DB, log *logrus.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) Create(email, passwordHash string) (*models.User, error) {
	user := &models.User{}
	query := `INSERT INTO users (id, email, password_hash, role)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, email, password_hash, role, created_at, updated_at`
	err := r.db.QueryRowx(query, uuid.NewString(), email, passwordHash, models.RoleUser).StructScan(user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		r.log.Errorf("Failed to insert user: %v", err)
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1`
	if err := r.db.Get(&user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE id = $1`
	if err := r.db.Get(&user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List() ([]models.User, error) {
	users := []models.User{}
	query := `SELECT id, email, password_hash, role, created_at, updated_at FROM users ORDER BY created_at DESC`
	if err := r.db.Select(&users, query); err != nil {
		r.log.Errorf("Failed to list users: %v", err)
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete user %s: %v", id, err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *userRepository) UpdateRole(id string, role models.Role) (*models.User, error) {
	user := &models.User{}
	query := `UPDATE users SET role = $1, updated_at = now() WHERE id = $2
	          RETURNING id, email, password_hash, role, created_at, updated_at`
	if err := r.db.QueryRowx(query, role, id).StructScan(user); err != nil {
		return nil, err
	}
	return user, nil
}
