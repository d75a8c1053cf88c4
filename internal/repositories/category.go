package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-inventory/internal/models"
)

// CategoryReadRepository handles category read operations
type CategoryReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewCategoryReadRepository(db *sqlx.DB, txGetter TxGetter) *CategoryReadRepository {
	return &CategoryReadRepository{db: db, txGetter: txGetter}
}

// List returns every category in id order.
func (r *CategoryReadRepository) List(ctx context.Context) ([]models.CategoryDB, error) {
	const query = `SELECT id, name FROM categories ORDER BY id`

	categories := []models.CategoryDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &categories, query)

	logQuery(query, nil, len(categories), err)

	return categories, err
}

// GetByID returns nil, nil when the category does not exist.
func (r *CategoryReadRepository) GetByID(ctx context.Context, id int64) (*models.CategoryDB, error) {
	const query = `SELECT id, name FROM categories WHERE id = $1`

	var category models.CategoryDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &category, query, id)

	logQuery(query, []any{id}, category, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryWriteRepository handles category write operations
type CategoryWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewCategoryWriteRepository(db *sqlx.DB, txGetter TxGetter) *CategoryWriteRepository {
	return &CategoryWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a category and returns its id.
func (r *CategoryWriteRepository) Save(ctx context.Context, name string) (int64, error) {
	const query = `INSERT INTO categories (name) VALUES ($1) RETURNING id`

	var id int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &id, query, name)

	logQuery(query, []any{name}, id, err)

	return id, mapError(err)
}

// Update renames a category. Returns sql.ErrNoRows when the id is unknown.
func (r *CategoryWriteRepository) Update(ctx context.Context, id int64, name string) error {
	const query = `UPDATE categories SET name = $2 WHERE id = $1`
	return execAffectingOne(ctx, executor(ctx, r.db, r.txGetter), query, id, name)
}

// Delete removes a category. Returns sql.ErrNoRows when the id is unknown.
// Items still referencing the category make this fail with ErrReferenced.
func (r *CategoryWriteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM categories WHERE id = $1`
	return execAffectingOne(ctx, executor(ctx, r.db, r.txGetter), query, id)
}

// execAffectingOne runs a statement that must touch exactly one row.
func execAffectingOne(ctx context.Context, ex sqlx.ExtContext, query string, args ...any) error {
	res, err := ex.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, args, rowsAffected, err)

	if err != nil {
		return mapError(err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
