package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "timeclock/internal/errors"
	"timeclock/models"
	"timeclock/ports"
)

// UserRepositoryImpl implements UserRepository for PostgreSQL
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create inserts a new user
func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, name, email, created_at, updated_at)
		VALUES (:id, :name, :email, :created_at, :updated_at)
	`, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return apperrors.ValidationError("email is already taken")
		}
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return &user, nil
}

// List returns all users ordered by creation time
func (r *UserRepositoryImpl) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT id, name, email, created_at, updated_at
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return users, nil
}

// Update rewrites the mutable user fields
func (r *UserRepositoryImpl) Update(ctx context.Context, user *models.User) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, email = $3, updated_at = NOW()
		WHERE id = $1
	`, user.ID, user.Name, user.Email)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.ValidationError("email is already taken")
		}
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	if affected == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}

// Delete removes a user; time entries and report processes cascade
func (r *UserRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	if affected == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}
