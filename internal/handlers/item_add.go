package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-inventory/internal/logger"
	"github.com/sbilibin2017/gw-inventory/internal/middlewares"
	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/services"
	"github.com/sbilibin2017/gw-inventory/internal/views"
)

//go:generate mockgen -source=item_add.go -destination=mock_item_add.go -package=handlers

// CategoryLister lists categories for the item form select.
type CategoryLister interface {
	List(ctx context.Context) ([]models.CategoryDB, error)
}

// ItemCreator creates items.
type ItemCreator interface {
	Create(ctx context.Context, in models.ItemInput, img *models.ImageUpload) (int64, error)
}

// NewAddItemPageHandler renders the empty add form.
func NewAddItemPageHandler(categories CategoryLister, rnd Renderer, uploadsEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := categories.List(r.Context())
		if err != nil {
			internalError(w, r, rnd, err)
			return
		}

		render(w, rnd, http.StatusOK, views.PageItemForm, views.ItemFormPage{
			Base:           newBase(w, r, "Add item"),
			Action:         "/add",
			Submit:         "Add",
			Categories:     list,
			UploadsEnabled: uploadsEnabled,
		})
	}
}

// NewAddItemHandler creates an item from the posted form and redirects to /.
// Categories are loaded before the write so a rejected form can still be
// rendered once the transaction has failed.
func NewAddItemHandler(svc ItemCreator, categories CategoryLister, rnd Renderer, uploadsEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
			Action:         "/add",
			Submit:         "Add",
			Form:           form.raw,
			Errors:         form.errors,
			Categories:     list,
			UploadsEnabled: uploadsEnabled,
		}
		if len(form.errors) > 0 {
			renderItemForm(w, r, rnd, http.StatusUnprocessableEntity, "Add item", page)
			return
		}

		if _, err := svc.Create(r.Context(), form.input, form.image); err != nil {
			var status int
			status, page.Errors = itemFormError(r, err, "An error occurred while adding the item.")
			renderItemForm(w, r, rnd, status, "Add item", page)
			return
		}
		redirectWithFlash(w, r, "/", flashSuccess, "Item added successfully!")
	}
}

// itemFormError maps a failed item write to the form status and messages.
// Anything but a validation error is logged and shown as fallback.
func itemFormError(r *http.Request, err error, fallback string) (int, []string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, verr.Messages
	}
	logger.Log.Errorw("item write failed", "uri", r.RequestURI, "request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
	return http.StatusInternalServerError, []string{fallback}
}

// renderItemForm re-renders a rejected item form.
func renderItemForm(w http.ResponseWriter, r *http.Request, rnd Renderer, status int, title string, page views.ItemFormPage) {
	page.Base = newBase(w, r, title)
	render(w, rnd, status, views.PageItemForm, page)
}
