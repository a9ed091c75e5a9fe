package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shortly-app/shortly/internal/database"
	"github.com/shortly-app/shortly/internal/models"
)

type userRecord struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *userRecord) ToUser() *models.User {
	return &models.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      models.Role(r.Role),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "database.postgres.UserRepository.GetByID"

	rec := new(userRecord)
	query := `SELECT id, name, email, role, created_at, updated_at FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get user record: %w", op, err)
	}

	return rec.ToUser(), nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int, orderBy models.SortField, order models.SortOrder) ([]models.User, int64, error) {
	const op = "database.postgres.UserRepository.List"

	column, ok := sortColumns[orderBy]
	if !ok {
		column = "created_at"
	}

	direction := "DESC"
	if order == models.SortAsc {
		direction = "ASC"
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to count user records: %w", op, err)
	}

	query := fmt.Sprintf(`SELECT id, name, email, role, created_at, updated_at
		FROM users
		ORDER BY %s %s
		LIMIT $1 OFFSET $2`, column, direction)

	var recs []userRecord
	if err := r.db.SelectContext(ctx, &recs, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to list user records: %w", op, err)
	}

	users := make([]models.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, *rec.ToUser())
	}

	return users, total, nil
}

// Update applies a partial update; empty arguments keep the current values.
func (r *UserRepository) Update(ctx context.Context, id int64, name, email string, role models.Role) (*models.User, error) {
	const op = "database.postgres.UserRepository.Update"

	rec := new(userRecord)
	query := `UPDATE users
		SET name = COALESCE(NULLIF($1, ''), name),
			email = COALESCE(NULLIF($2, ''), email),
			role = COALESCE(NULLIF($3, ''), role),
			updated_at = now()
		WHERE id = $4
		RETURNING id, name, email, role, created_at, updated_at`

	err := r.db.GetContext(ctx, rec, query, name, email, string(role), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrEmailExists)
		}

		return nil, fmt.Errorf("%s: failed to update user record: %w", op, err)
	}

	return rec.ToUser(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const op = "database.postgres.UserRepository.Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete user record: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
	}

	return nil
}
