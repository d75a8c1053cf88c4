package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-inventory/internal/logger"
	"github.com/sbilibin2017/gw-inventory/internal/models"
)

// APIErrorResponse represents an error response of the JSON API
// swagger:model APIErrorResponse
type APIErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewAPIItemsHandler returns an HTTP handler listing every item as JSON.
// @Summary List items
// @Description Returns every inventory item with its category
// @Tags items
// @Produce json
// @Success 200 {array} models.ItemView "Items in storage order"
// @Failure 500 {object} handlers.APIErrorResponse "Internal server error"
// @Router /api/items [get]
func NewAPIItemsHandler(svc ItemLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		items, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(APIErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		out := make([]models.ItemView, 0, len(items))
		for _, item := range items {
			out = append(out, models.NewItemView(item))
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(out)
	}
}
