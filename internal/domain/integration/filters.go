package integration

// ---------------------------------------------------------------------------
// Provider Filter Wire Shape
// ---------------------------------------------------------------------------

// FilterOperator is the comparison operator understood by the provider.
type FilterOperator string

const (
	OperatorEquals  FilterOperator = "="
	OperatorGTE     FilterOperator = ">="
	OperatorBetween FilterOperator = "between"
	OperatorIn      FilterOperator = "in"
	OperatorLike    FilterOperator = "like"
)

// Filter is a single provider filter as sent on the wire. Between and in
// take array values, the other operators take scalars. The provider rejects
// filters missing either field, so a Filter must always be fully populated
// or left out of the filter map entirely.
type Filter struct {
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value"`
}

// IsComplete reports whether both fields are populated.
func (f Filter) IsComplete() bool {
	return f.Operator != "" && f.Value != nil
}

// ---------------------------------------------------------------------------
// Domain Filter Objects
// ---------------------------------------------------------------------------

// ReceivingFilter narrows a receiving document fetch.
type ReceivingFilter struct {
	// DateFrom is the inclusive lower document date bound (YYYY-MM-DD)
	DateFrom string
	// DateTo is the inclusive upper document date bound (YYYY-MM-DD)
	DateTo string
	// DocTypes filters by one or more provider document type codes
	DocTypes []string
	// Status filters by provider document status
	Status string
	// Warehouse is matched client side against the destination location,
	// never sent to the provider
	Warehouse string
	// Raw contains opaque caller-supplied provider filters; structured
	// filters above overwrite raw keys of the same name
	Raw map[string]Filter
}

// Validate rejects a reversed date range before it reaches the provider.
// Dates are YYYY-MM-DD, so the lexical comparison is the chronological one.
func (f *ReceivingFilter) Validate() error {
	if f.DateFrom != "" && f.DateTo != "" && f.DateFrom > f.DateTo {
		return ErrInvalidDateRange
	}
	return nil
}

// ShippingFilter narrows a shipping document fetch.
type ShippingFilter struct {
	DateFrom string
	DateTo   string
	DocTypes []string
	Status   string
	// Warehouse is matched client side against the source location,
	// never sent to the provider
	Warehouse string
	Raw       map[string]Filter
}

// Validate rejects a reversed date range before it reaches the provider.
func (f *ShippingFilter) Validate() error {
	if f.DateFrom != "" && f.DateTo != "" && f.DateFrom > f.DateTo {
		return ErrInvalidDateRange
	}
	return nil
}

// StockFilter narrows a stock fetch.
type StockFilter struct {
	// ChangedSince keeps only records changed on or after the given date
	ChangedSince string
	// MinQuantity keeps only records with at least this quantity on stock.
	// A value of zero or less produces no provider filter at all: the
	// provider requires every included filter to carry both operator and
	// value, and no filter is preferred over a vacuous one.
	MinQuantity float64
	// Warehouse is matched client side, never sent to the provider
	Warehouse string
	Raw       map[string]Filter
}
