package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shortly-app/shortly/internal/database"
	"github.com/shortly-app/shortly/internal/models"
	"github.com/stretchr/testify/assert"
)

var userColumns = []string{"id", "name", "email", "role", "created_at", "updated_at"}

func setupUserRepository(t testing.TB) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}

	db := sqlx.NewDb(mockDB, "sqlmock")
	repo := NewUserRepository(db)

	t.Cleanup(func() {
		mockDB.Close()
		db.Close()
	})

	return repo, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
			WithArgs(int64(42)).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByID(context.TODO(), 42)

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrUserNotFound)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		rows := sqlmock.NewRows(userColumns).
			AddRow(1, "John Doe", "john@example.com", "admin", time.Time{}, time.Time{})

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		user, err := repo.GetByID(context.TODO(), 1)

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "john@example.com", user.Email)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`SELECT COUNT`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows(userColumns).
			AddRow(2, "Jane Doe", "jane@example.com", "client", time.Time{}, time.Time{}).
			AddRow(1, "John Doe", "john@example.com", "admin", time.Time{}, time.Time{})

		mock.ExpectQuery(`SELECT (.+) FROM users ORDER BY created_at DESC`).
			WithArgs(10, 0).
			WillReturnRows(rows)

		users, total, err := repo.List(context.TODO(), 10, 0, models.SortByCreatedAt, models.SortDesc)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, users, 2)
		assert.Equal(t, models.RoleClient, users[0].Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("orders by updated_at ascending", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`SELECT COUNT`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(userColumns).
			AddRow(1, "John Doe", "john@example.com", "admin", time.Time{}, time.Time{})

		mock.ExpectQuery(`SELECT (.+) FROM users ORDER BY updated_at ASC`).
			WithArgs(10, 0).
			WillReturnRows(rows)

		users, total, err := repo.List(context.TODO(), 10, 0, models.SortByUpdatedAt, models.SortAsc)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, users, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Update(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`UPDATE users`).
			WithArgs("John Doe", "john@example.com", "", int64(42)).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.Update(context.TODO(), 42, "John Doe", "john@example.com", "")

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrUserNotFound)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email exists", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`UPDATE users`).
			WithArgs("John Doe", "taken@example.com", "", int64(1)).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		user, err := repo.Update(context.TODO(), 1, "John Doe", "taken@example.com", "")

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrEmailExists)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("changes the role", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		rows := sqlmock.NewRows(userColumns).
			AddRow(1, "John Doe", "john@example.com", "admin", time.Time{}, time.Time{})

		mock.ExpectQuery(`UPDATE users`).
			WithArgs("", "", "admin", int64(1)).
			WillReturnRows(rows)

		user, err := repo.Update(context.TODO(), 1, "", "", models.RoleAdmin)

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		rows := sqlmock.NewRows(userColumns).
			AddRow(1, "John Doe", "john@example.com", "client", time.Time{}, time.Time{})

		mock.ExpectQuery(`UPDATE users`).
			WithArgs("John Doe", "john@example.com", "", int64(1)).
			WillReturnRows(rows)

		user, err := repo.Update(context.TODO(), 1, "John Doe", "john@example.com", "")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "John Doe", user.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Delete(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.TODO(), 42)

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.TODO(), 1)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
