package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-inventory/internal/models"
)

func TestChartHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockCharter(ctrl)
	handler := NewChartHandler(mockSvc, newRenderer(t))

	t.Run("renders series and total", func(t *testing.T) {
		five := 5.0
		mockSvc.EXPECT().Chart(gomock.Any()).Return(&models.InventoryChart{
			TotalValue: decimal.NewFromInt(10),
			Dates:      []string{"2024-05-01 10:00:00", "2024-05-02 10:00:00"},
			Quantities: []int{2, 3},
			Prices:     []*float64{&five, nil},
		}, nil)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/inventory_chart", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, `<strong id="total-value">10.00</strong>`)
		assert.Contains(t, body, "across 2 items")
		assert.Contains(t, body, `"quantities":[2,3]`)
		assert.Contains(t, body, `"prices":[5,null]`)
	})

	t.Run("internal error", func(t *testing.T) {
		mockSvc.EXPECT().Chart(gomock.Any()).Return(nil, errors.New("db down"))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/inventory_chart", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
