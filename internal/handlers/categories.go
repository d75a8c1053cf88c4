package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-inventory/internal/services"
	"github.com/sbilibin2017/gw-inventory/internal/views"
)

//go:generate mockgen -source=categories.go -destination=mock_categories.go -package=handlers

// CategoryCreator creates categories.
type CategoryCreator interface {
	Create(ctx context.Context, name string) (int64, error)
}

// CategoryRenamer renames categories.
type CategoryRenamer interface {
	Rename(ctx context.Context, id int64, name string) error
}

// CategoryDeleter deletes categories, detaching their items.
type CategoryDeleter interface {
	Delete(ctx context.Context, id int64) (int64, error)
}

const (
	categoriesPath   = "/categories"
	categoryNotFound = "Category not found."
)

// NewCategoriesHandler renders the category list.
func NewCategoriesHandler(categories CategoryLister, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderCategories(w, r, rnd, categories, http.StatusOK, nil)
	}
}

// NewAddCategoryHandler creates a category and redirects to /categories.
func NewAddCategoryHandler(svc CategoryCreator, categories CategoryLister, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := svc.Create(r.Context(), r.PostFormValue("name"))
		if err != nil {
			handleCategoryError(w, r, rnd, categories, err)
			return
		}
		redirectWithFlash(w, r, categoriesPath, flashSuccess, "Category added successfully!")
	}
}

// NewUpdateCategoryHandler renames a category and redirects to /categories.
func NewUpdateCategoryHandler(svc CategoryRenamer, categories CategoryLister, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			renderError(w, r, rnd, http.StatusNotFound, categoryNotFound)
			return
		}

		if err := svc.Rename(r.Context(), id, r.PostFormValue("name")); err != nil {
			handleCategoryError(w, r, rnd, categories, err)
			return
		}
		redirectWithFlash(w, r, categoriesPath, flashSuccess, "Category updated successfully!")
	}
}

// NewDeleteCategoryHandler deletes a category and redirects to /categories.
// Items of the category are kept without a category.
func NewDeleteCategoryHandler(svc CategoryDeleter, categories CategoryLister, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			renderError(w, r, rnd, http.StatusNotFound, categoryNotFound)
			return
		}

		if _, err := svc.Delete(r.Context(), id); err != nil {
			handleCategoryError(w, r, rnd, categories, err)
			return
		}
		redirectWithFlash(w, r, categoriesPath, flashSuccess, "Category deleted successfully!")
	}
}

func handleCategoryError(w http.ResponseWriter, r *http.Request, rnd Renderer, categories CategoryLister, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		renderCategories(w, r, rnd, categories, http.StatusUnprocessableEntity, verr.Messages)
	case errors.Is(err, services.ErrCategoryNotFound):
		renderError(w, r, rnd, http.StatusNotFound, categoryNotFound)
	default:
		internalError(w, r, rnd, err)
	}
}

func renderCategories(w http.ResponseWriter, r *http.Request, rnd Renderer, categories CategoryLister, status int, messages []string) {
	list, err := categories.List(r.Context())
	if err != nil {
		internalError(w, r, rnd, err)
		return
	}

	render(w, rnd, status, views.PageCategories, views.CategoriesPage{
		Base:       newBase(w, r, "Categories"),
		Categories: list,
		Errors:     messages,
	})
}
