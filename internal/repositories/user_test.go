package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserReadRepository_GetByUsernameOrEmail(t *testing.T) {
	ctx := context.Background()
	identifier := "alice@example.com"
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserReadRepository(db, nil)

		mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at FROM users`).
			WithArgs(&identifier, &identifier).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
				AddRow(7, "alice", "alice@example.com", "$2a$hash", createdAt))

		user, err := repo.GetByUsernameOrEmail(ctx, &identifier, &identifier)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "$2a$hash", user.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserReadRepository(db, nil)

		mock.ExpectQuery(`FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}))

		user, err := repo.GetByUsernameOrEmail(ctx, &identifier, nil)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("db error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserReadRepository(db, nil)

		mock.ExpectQuery(`FROM users`).WillReturnError(assert.AnError)

		user, err := repo.GetByUsernameOrEmail(ctx, &identifier, nil)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, user)
	})
}

func TestUserWriteRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserWriteRepository(db, nil)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", "alice@example.com", "$2a$hash").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		id, err := repo.Save(ctx, "alice", "alice@example.com", "$2a$hash")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserWriteRepository(db, nil)

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := repo.Save(ctx, "alice", "alice@example.com", "$2a$hash")
		assert.ErrorIs(t, err, ErrConflict)
	})
}
