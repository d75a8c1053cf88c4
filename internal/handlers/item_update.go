package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/services"
	"github.com/sbilibin2017/gw-inventory/internal/views"
)

//go:generate mockgen -source=item_update.go -destination=mock_item_update.go -package=handlers

// ItemGetter loads a single item.
type ItemGetter interface {
	Get(ctx context.Context, id int64) (*models.ItemDB, error)
}

// ItemUpdater replaces an item.
type ItemUpdater interface {
	Update(ctx context.Context, id int64, in models.ItemInput, img *models.ImageUpload) error
}

const itemNotFound = "Item not found."

// NewUpdateItemPageHandler renders the update form pre-filled with the item.
func NewUpdateItemPageHandler(items ItemGetter, categories CategoryLister, rnd Renderer, uploadsEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			renderError(w, r, rnd, http.StatusNotFound, itemNotFound)
			return
		}

		item, err := items.Get(r.Context(), id)
		if errors.Is(err, services.ErrItemNotFound) {
			renderError(w, r, rnd, http.StatusNotFound, itemNotFound)
			return
		}
		if err != nil {
			internalError(w, r, rnd, err)
			return
		}

		list, err := categories.List(r.Context())
		if err != nil {
			internalError(w, r, rnd, err)
			return
		}

		render(w, rnd, http.StatusOK, views.PageItemForm, views.ItemFormPage{
			Base:           newBase(w, r, "Update item"),
			Action:         fmt.Sprintf("/update/%d", id),
			Submit:         "Save",
			Form:           formFromItem(item),
			Categories:     list,
			UploadsEnabled: uploadsEnabled,
		})
	}
}

// NewUpdateItemHandler replaces the item with the posted form and redirects to /.
// A missing item is reported before any form error.
func NewUpdateItemHandler(items ItemGetter, svc ItemUpdater, categories CategoryLister, rnd Renderer, uploadsEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			renderError(w, r, rnd, http.StatusNotFound, itemNotFound)
			return
		}

		if _, err := items.Get(r.Context(), id); err != nil {
			if errors.Is(err, services.ErrItemNotFound) {
				renderError(w, r, rnd, http.StatusNotFound, itemNotFound)
				return
			}
			internalError(w, r, rnd, err)
			return
		}

		list, err := categories.List(r.Context())
		if err != nil {
			internalError(w, r, rnd, err)
			return
		}

		form, err := parseItemForm(r)
		if err != nil {
			renderError(w, r, rnd, http.StatusBadRequest, "The form could not be read.")
			return
		}
		defer form.close()

		page := views.ItemFormPage{
			Action:         fmt.Sprintf("/update/%d", id),
			Submit:         "Save",
			Form:           form.raw,
			Errors:         form.errors,
			Categories:     list,
			UploadsEnabled: uploadsEnabled,
		}
		if len(form.errors) > 0 {
			renderItemForm(w, r, rnd, http.StatusUnprocessableEntity, "Update item", page)
			return
		}

		err = svc.Update(r.Context(), id, form.input, form.image)
		switch {
		case err == nil:
			redirectWithFlash(w, r, "/", flashSuccess, "Item updated successfully!")
		case errors.Is(err, services.ErrItemNotFound):
			renderError(w, r, rnd, http.StatusNotFound, itemNotFound)
		default:
			var status int
			status, page.Errors = itemFormError(r, err, "An error occurred while updating the item.")
			renderItemForm(w, r, rnd, status, "Update item", page)
		}
	}
}
