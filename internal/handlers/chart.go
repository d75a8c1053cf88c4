package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/views"
)

//go:generate mockgen -source=chart.go -destination=mock_chart.go -package=handlers

// Charter builds the inventory chart.
type Charter interface {
	Chart(ctx context.Context) (*models.InventoryChart, error)
}

type chartData struct {
	Dates      []string   `json:"dates"`
	Quantities []int      `json:"quantities"`
	Prices     []*float64 `json:"prices"`
}

// NewChartHandler renders quantity and price per item with the total value.
func NewChartHandler(svc Charter, rnd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chart, err := svc.Chart(r.Context())
		if err != nil {
			internalError(w, r, rnd, err)
			return
		}

		payload, err := json.Marshal(chartData{
			Dates:      chart.Dates,
			Quantities: chart.Quantities,
			Prices:     chart.Prices,
		})
		if err != nil {
			internalError(w, r, rnd, err)
			return
		}

		render(w, rnd, http.StatusOK, views.PageChart, views.ChartPage{
			Base:       newBase(w, r, "Chart"),
			TotalValue: chart.TotalValue.StringFixed(2),
			ItemCount:  len(chart.Dates),
			ChartData:  template.JS(payload),
		})
	}
}
