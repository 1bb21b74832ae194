package integration

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Canonical Documents
// ---------------------------------------------------------------------------

// Document represents a receiving or shipping document in canonical
// vocabulary, independent of the provider's field naming.
//
// The location fields differ in meaning between the two domains:
//   - Receiving: DestinationLocation is our own warehouse, SourceLocation is
//     the external sender (supplier).
//   - Shipping: SourceLocation is our own warehouse, DestinationLocation and
//     SecondaryDestination are the recipients.
type Document struct {
	// Number is the document number on the provider side
	Number string
	// Type is the provider document type code
	Type string
	// Date is the document date in provider format (YYYY-MM-DD)
	Date string
	// SourceLocation is where the goods originate
	SourceLocation string
	// DestinationLocation is where the goods are headed
	DestinationLocation string
	// SecondaryDestination is the second recipient (shipping only)
	SecondaryDestination string
	// ResponsiblePerson is the person responsible for the document
	ResponsiblePerson string
	// Status is the provider document status
	Status string
	// Note is the free-form document note
	Note string
	// Lines contains the document line items
	Lines []DocumentLine
}

// DocumentLine represents a line item of a receiving or shipping document.
type DocumentLine struct {
	// Position is the line position within the document
	Position int
	// SKU is the item identifier
	SKU string
	// Name is the item name
	Name string
	// Quantity is the line quantity
	Quantity decimal.Decimal
	// UOM is the unit of measure
	UOM string
}

// MatchesWarehouse reports whether the given location field contains the
// requested warehouse name as a case-insensitive substring. The provider's
// own warehouse matching is unreliable, so this is applied client side after
// fetch instead of being sent as a provider filter.
func MatchesWarehouse(location, warehouse string) bool {
	if warehouse == "" {
		return true
	}
	return strings.Contains(strings.ToLower(location), strings.ToLower(warehouse))
}
