package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-inventory/internal/models"
)

func TestCategoryReadRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryReadRepository(db, nil)

		mock.ExpectQuery(`SELECT id, name FROM categories ORDER BY id`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow(1, "Tools").
				AddRow(2, "Parts"))

		categories, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.CategoryDB{{ID: 1, Name: "Tools"}, {ID: 2, Name: "Parts"}}, categories)
	})

	t.Run("List empty is not nil", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryReadRepository(db, nil)

		mock.ExpectQuery(`FROM categories`).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		categories, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, categories)
		assert.Empty(t, categories)
	})

	t.Run("GetByID found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryReadRepository(db, nil)

		mock.ExpectQuery(`SELECT id, name FROM categories WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "Tools"))

		category, err := repo.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, &models.CategoryDB{ID: 3, Name: "Tools"}, category)
	})

	t.Run("GetByID missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryReadRepository(db, nil)

		mock.ExpectQuery(`FROM categories WHERE id`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		category, err := repo.GetByID(ctx, 9)
		assert.NoError(t, err)
		assert.Nil(t, category)
	})
}

func TestCategoryWriteRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Save", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryWriteRepository(db, nil)

		mock.ExpectQuery(`INSERT INTO categories \(name\) VALUES \(\$1\) RETURNING id`).
			WithArgs("Tools").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		id, err := repo.Save(ctx, "Tools")
		assert.NoError(t, err)
		assert.Equal(t, int64(5), id)
	})

	t.Run("Update", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryWriteRepository(db, nil)

		mock.ExpectExec(`UPDATE categories SET name = \$2 WHERE id = \$1`).
			WithArgs(int64(5), "Hardware").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, 5, "Hardware"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Update missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryWriteRepository(db, nil)

		mock.ExpectExec(`UPDATE categories`).
			WithArgs(int64(5), "Hardware").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(ctx, 5, "Hardware"), sql.ErrNoRows)
	})

	t.Run("Delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryWriteRepository(db, nil)

		mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 5))
	})

	t.Run("Delete still referenced", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCategoryWriteRepository(db, nil)

		mock.ExpectExec(`DELETE FROM categories`).
			WithArgs(int64(5)).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		assert.ErrorIs(t, repo.Delete(ctx, 5), ErrReferenced)
	})
}
