package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/storage"
	"github.com/sbilibin2017/gw-inventory/internal/views"
)

// maxFormMemory bounds the multipart form held in memory; larger files spill to disk.
const maxFormMemory = storage.MaxImageSize + 1<<20

// itemForm is a parsed add or update form.
type itemForm struct {
	raw    views.ItemForm
	input  models.ItemInput
	image  *models.ImageUpload
	errors []string
}

// close releases the uploaded file, if any.
func (f *itemForm) close() {
	if f.image == nil {
		return
	}
	if c, ok := f.image.Body.(io.Closer); ok {
		_ = c.Close()
	}
}

// parseItemForm reads the item fields of r. Empty optional fields become nil.
func parseItemForm(r *http.Request) (*itemForm, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	f := &itemForm{
		raw: views.ItemForm{
			Name:        r.PostFormValue("name"),
			Quantity:    r.PostFormValue("quantity"),
			Price:       r.PostFormValue("price"),
			Description: r.PostFormValue("description"),
			ImageURL:    r.PostFormValue("image_url"),
			CategoryID:  r.PostFormValue("category_id"),
			Supplier:    r.PostFormValue("supplier"),
		},
	}

	f.input.Name = strings.TrimSpace(f.raw.Name)
	if f.input.Name == "" {
		f.errors = append(f.errors, "Name is required")
	}

	if q := strings.TrimSpace(f.raw.Quantity); q == "" {
		f.errors = append(f.errors, "Quantity is required")
	} else if n, err := strconv.Atoi(q); err != nil {
		f.errors = append(f.errors, "Quantity must be a whole number")
	} else {
		f.input.Quantity = n
	}

	if p := strings.TrimSpace(f.raw.Price); p != "" {
		price, err := decimal.NewFromString(p)
		if err != nil {
			f.errors = append(f.errors, "Price must be a number")
		} else {
			f.input.Price = decimal.NewNullDecimal(price)
		}
	}

	if c := strings.TrimSpace(f.raw.CategoryID); c != "" {
		id, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			f.errors = append(f.errors, "Category must be a valid id")
		} else {
			f.input.CategoryID = &id
		}
	}

	f.input.Description = optional(f.raw.Description)
	f.input.ImageURL = optional(f.raw.ImageURL)
	f.input.Supplier = optional(f.raw.Supplier)

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return nil, err
	default:
		f.image = &models.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}

	return f, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// formFromItem pre-fills the update form.
func formFromItem(item *models.ItemDB) views.ItemForm {
	form := views.ItemForm{
		Name:     item.Name,
		Quantity: strconv.Itoa(item.Quantity),
	}
	if item.Price.Valid {
		form.Price = item.Price.Decimal.String()
	}
	if item.Description != nil {
		form.Description = *item.Description
	}
	if item.ImageURL != nil {
		form.ImageURL = *item.ImageURL
	}
	if item.CategoryID != nil {
		form.CategoryID = strconv.FormatInt(*item.CategoryID, 10)
	}
	if item.Supplier != nil {
		form.Supplier = *item.Supplier
	}
	return form
}
