package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/services"
	"github.com/sbilibin2017/gw-inventory/internal/views"
)

//go:generate mockgen -source=items.go -destination=mock_items.go -package=handlers

// ItemLister lists every item.
type ItemLister interface {
	List(ctx context.Context) ([]models.ItemDB, error)
}

// ItemSearcher filters and sorts items.
type ItemSearcher interface {
	Search(ctx context.Context, query, sortKey string) ([]models.ItemDB, error)
}

var sortKeys = []string{models.SortByName, models.SortByQuantity, models.SortByPrice, models.SortByDateAdded}

// NewIndexHandler renders every item on /.
func NewIndexHandler(svc ItemLister, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			internalError(w, r, rnd, err)
			return
		}

		render(w, rnd, http.StatusOK, views.PageItems, views.ItemsPage{
			Base:     newBase(w, r, "Inventory"),
			Items:    items,
			SortKeys: sortKeys,
		})
	}
}

// NewSearchHandler renders items matching ?query= ordered by ?sort=.
func NewSearchHandler(svc ItemSearcher, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		sortKey := r.URL.Query().Get("sort")

		page := views.ItemsPage{
			Base:     newBase(w, r, "Search"),
			Query:    query,
			Sort:     sortKey,
			Searched: true,
			SortKeys: sortKeys,
		}

		items, err := svc.Search(r.Context(), query, sortKey)
		if err != nil {
			if errors.Is(err, services.ErrInvalidSortKey) {
				page.Error = "Invalid sort parameter"
				render(w, rnd, http.StatusBadRequest, views.PageItems, page)
				return
			}
			internalError(w, r, rnd, err)
			return
		}

		page.Items = items
		render(w, rnd, http.StatusOK, views.PageItems, page)
	}
}
