package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-inventory/internal/models"
)

const itemSelect = `
	SELECT i.id, i.name, i.quantity, i.price, i.description, i.image_url,
	       i.category_id, c.name AS category_name, i.supplier, i.date_added
	FROM items i
	LEFT JOIN categories c ON c.id = i.category_id
`

// sortColumns whitelists the ORDER BY columns reachable from a sort key.
var sortColumns = map[string]string{
	models.SortByName:      "i.name",
	models.SortByQuantity:  "i.quantity",
	models.SortByPrice:     "i.price",
	models.SortByDateAdded: "i.date_added",
}

// likeEscaper escapes LIKE wildcards so a search term matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ItemReadRepository handles inventory read operations
type ItemReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewItemReadRepository(db *sqlx.DB, txGetter TxGetter) *ItemReadRepository {
	return &ItemReadRepository{db: db, txGetter: txGetter}
}

// List returns every item in storage (id) order.
func (r *ItemReadRepository) List(ctx context.Context) ([]models.ItemDB, error) {
	query := itemSelect + `ORDER BY i.id`

	items := []models.ItemDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &items, query)

	logQuery(query, nil, len(items), err)

	return items, err
}

// Search filters items whose name or description contains term (case-insensitive)
// and orders them ascending by sortKey. Empty term or sortKey disables that part.
func (r *ItemReadRepository) Search(ctx context.Context, term, sortKey string) ([]models.ItemDB, error) {
	orderBy := "i.id"
	if sortKey != "" {
		column, ok := sortColumns[sortKey]
		if !ok {
			return nil, fmt.Errorf("unknown sort key %q", sortKey)
		}
		orderBy = column + ", i.id"
	}

	var (
		query = itemSelect
		args  []any
	)
	if term != "" {
		query += `WHERE i.name ILIKE $1 OR i.description ILIKE $1
		`
		args = append(args, "%"+likeEscaper.Replace(term)+"%")
	}
	query += `ORDER BY ` + orderBy

	items := []models.ItemDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &items, query, args...)

	logQuery(query, args, len(items), err)

	return items, err
}

// GetByID returns nil, nil when the item does not exist.
func (r *ItemReadRepository) GetByID(ctx context.Context, id int64) (*models.ItemDB, error) {
	query := itemSelect + `WHERE i.id = $1`

	var item models.ItemDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &item, query, id)

	logQuery(query, []any{id}, item.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// TotalValue sums quantity * price over items that have a price.
// Items with a NULL price are skipped.
func (r *ItemReadRepository) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(quantity * price), 0)
		FROM items
		WHERE price IS NOT NULL
	`

	var sum decimal.NullDecimal
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &sum, query)

	logQuery(query, nil, sum, err)

	if err != nil {
		return decimal.Zero, err
	}
	if sum.Valid {
		return sum.Decimal, nil
	}
	return decimal.Zero, nil
}

// ItemWriteRepository handles inventory write operations
type ItemWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewItemWriteRepository(db *sqlx.DB, txGetter TxGetter) *ItemWriteRepository {
	return &ItemWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts an item with date_added = NOW() and returns its id.
func (r *ItemWriteRepository) Save(ctx context.Context, in models.ItemInput) (int64, error) {
	const query = `
		INSERT INTO items (name, quantity, price, description, image_url, category_id, supplier, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id
	`
	args := []any{in.Name, in.Quantity, in.Price, in.Description, in.ImageURL, in.CategoryID, in.Supplier}

	var id int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &id, query, args...)

	logQuery(query, args, id, err)

	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// Update overwrites every editable field. Returns sql.ErrNoRows when the id is unknown.
func (r *ItemWriteRepository) Update(ctx context.Context, id int64, in models.ItemInput) error {
	const query = `
		UPDATE items
		SET name = $2, quantity = $3, price = $4, description = $5,
		    image_url = $6, category_id = $7, supplier = $8
		WHERE id = $1
	`
	return execAffectingOne(ctx, executor(ctx, r.db, r.txGetter), query,
		id, in.Name, in.Quantity, in.Price, in.Description, in.ImageURL, in.CategoryID, in.Supplier)
}

// Delete removes an item. Returns sql.ErrNoRows when the id is unknown.
func (r *ItemWriteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM items WHERE id = $1`
	return execAffectingOne(ctx, executor(ctx, r.db, r.txGetter), query, id)
}

// DetachCategory clears category_id on every item of the category and
// returns how many items were detached.
func (r *ItemWriteRepository) DetachCategory(ctx context.Context, categoryID int64) (int64, error) {
	const query = `UPDATE items SET category_id = NULL WHERE category_id = $1`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, categoryID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, []any{categoryID}, rowsAffected, err)

	return rowsAffected, err
}
