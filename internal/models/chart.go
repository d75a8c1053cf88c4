package models

import "github.com/shopspring/decimal"

// InventoryChart holds one point per item for the quantity and price series.
// Prices[i] is nil for items without a price.
type InventoryChart struct {
	TotalValue decimal.Decimal
	Dates      []string
	Quantities []int
	Prices     []*float64
}
