package integration

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Stock Value Objects
// ---------------------------------------------------------------------------

// StockPartner represents a subject (customer or supplier) record from the
// provider's stock interface.
type StockPartner struct {
	// SubjectID is the subject identifier on the provider side
	SubjectID string
	// SubjectName is the subject display name
	SubjectName string
	// WarehouseCode is the subject's associated warehouse, if any
	WarehouseCode string
	// IsCustomer indicates the subject buys from us
	IsCustomer bool
	// IsSupplier indicates the subject sells to us
	IsSupplier bool
	// Address is the street address
	Address string
	// City is the city
	City string
	// Country is the country
	Country string
}

// StockItem represents an item with its per-warehouse stock breakdown.
type StockItem struct {
	// SKU is the item identifier
	SKU string
	// Levels contains the per-warehouse stock entries
	Levels []StockLevel
}

// StockLevel is a per-warehouse stock entry for an item.
type StockLevel struct {
	// Warehouse is the warehouse name as reported by the provider
	Warehouse string
	// Quantity is the quantity on stock
	Quantity decimal.Decimal
}

// LevelsFor returns the stock entries for the given store name, keeping only
// entries with non-negative quantity. Matching is case-insensitive and trims
// whitespace because the provider is known to emit trailing whitespace in
// warehouse names.
func (i StockItem) LevelsFor(store string) []StockLevel {
	want := strings.ToLower(strings.TrimSpace(store))
	levels := make([]StockLevel, 0, len(i.Levels))
	for _, l := range i.Levels {
		if strings.ToLower(strings.TrimSpace(l.Warehouse)) != want {
			continue
		}
		if l.Quantity.IsNegative() {
			continue
		}
		levels = append(levels, l)
	}
	return levels
}
