package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-inventory/internal/services"
)

//go:generate mockgen -source=item_delete.go -destination=mock_item_delete.go -package=handlers

// ItemDeleter deletes items.
type ItemDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// NewDeleteItemHandler deletes the item and redirects to /.
func NewDeleteItemHandler(svc ItemDeleter, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			renderError(w, r, rnd, http.StatusNotFound, itemNotFound)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			if errors.Is(err, services.ErrItemNotFound) {
				renderError(w, r, rnd, http.StatusNotFound, itemNotFound)
				return
			}
			internalError(w, r, rnd, err)
			return
		}

		redirectWithFlash(w, r, "/", flashSuccess, "Item deleted successfully!")
	}
}
