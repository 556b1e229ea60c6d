// Package view holds pure presentation helpers shared by the admin
// screens. Everything here is deterministic: no clocks, no state.
package view

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// StockLevel classifies a product's stock against its low-stock threshold.
type StockLevel string

const (
	InStock    StockLevel = "In Stock"
	LowStock   StockLevel = "Low Stock"
	OutOfStock StockLevel = "Out of Stock"
)

// DefaultLowStockThreshold applies when a product carries no threshold of
// its own.
const DefaultLowStockThreshold = 10

// StockStatus derives the stock badge for a quantity. Zero is out of
// stock; anything at or below the threshold is low. A non-positive
// threshold falls back to DefaultLowStockThreshold.
func StockStatus(stock, threshold int) StockLevel {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	switch {
	case stock <= 0:
		return OutOfStock
	case stock <= threshold:
		return LowStock
	default:
		return InStock
	}
}

// Catalog prices display in Indian rupees with no decimal places.
var priceLocale = language.MustParse("en-IN")

// FormatCurrency renders a price the way the catalog screens show it,
// e.g. 12999 becomes "₹12,999".
func FormatCurrency(amount float64) string {
	p := message.NewPrinter(priceLocale)
	return p.Sprintf("%v%v",
		currency.Symbol(currency.INR),
		number.Decimal(amount, number.MaxFractionDigits(0)),
	)
}
