package models

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// DateAddedLayout is the wire format of Item.DateAdded.
const DateAddedLayout = "2006-01-02 15:04:05"

// Sort keys accepted by the search page.
const (
	SortByName      = "name"
	SortByQuantity  = "quantity"
	SortByPrice     = "price"
	SortByDateAdded = "date_added"
)

// ItemDB represents an inventory row joined with its category name
type ItemDB struct {
	ID           int64               `db:"id"`            // Primary key
	Name         string              `db:"name"`          // Required item name
	Quantity     int                 `db:"quantity"`      // Units on hand, never negative
	Price        decimal.NullDecimal `db:"price"`         // Unit price, NULL when unknown
	Description  *string             `db:"description"`   // Free text
	ImageURL     *string             `db:"image_url"`     // Link to a product image
	CategoryID   *int64              `db:"category_id"`   // Optional FK to categories
	CategoryName *string             `db:"category_name"` // Joined from categories, nil when orphaned
	Supplier     *string             `db:"supplier"`      // Supplier name
	DateAdded    time.Time           `db:"date_added"`    // Creation timestamp
}

// ItemInput carries the full set of user-editable item fields.
// Update replaces every field, so nil means "store NULL".
type ItemInput struct {
	Name        string              `label:"Name" validate:"required,max=100"`
	Quantity    int                 `label:"Quantity" validate:"gte=0,lte=2147483647"`
	Price       decimal.NullDecimal `label:"Price"`
	Description *string             `label:"Description"`
	ImageURL    *string             `label:"Image URL" validate:"omitempty,max=255"`
	CategoryID  *int64              `label:"Category"`
	Supplier    *string             `label:"Supplier" validate:"omitempty,max=100"`
}

// ImageUpload is an image file attached to the add or update form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ItemView is the JSON representation of an item
// swagger:model ItemView
type ItemView struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Quantity    int           `json:"quantity"`
	Price       *float64      `json:"price"`
	Description *string       `json:"description"`
	ImageURL    *string       `json:"image_url"`
	Category    *CategoryView `json:"category"`
	Supplier    *string       `json:"supplier"`
	DateAdded   string        `json:"date_added"`
}

// NewItemView converts a database row into its serialized form.
func NewItemView(item ItemDB) ItemView {
	view := ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Quantity:    item.Quantity,
		Description: item.Description,
		ImageURL:    item.ImageURL,
		Supplier:    item.Supplier,
		DateAdded:   item.DateAdded.Format(DateAddedLayout),
	}
	if item.Price.Valid {
		price := item.Price.Decimal.InexactFloat64()
		view.Price = &price
	}
	if item.CategoryID != nil {
		view.Category = &CategoryView{ID: *item.CategoryID}
		if item.CategoryName != nil {
			view.Category.Name = *item.CategoryName
		}
	}
	return view
}
