package erp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
)

// Default provider method names. The provider exposes per-installation
// overrides, surfaced through configuration.
const (
	DefaultReceivingMethod     = "WMS.ReceivingDocs"
	DefaultShippingMethod      = "WMS.ShippingDocs"
	DefaultStockPartnersMethod = "WMS.StockSubjects"
	DefaultStockItemsMethod    = "WMS.StockItems"
)

// Provider filter keys shared across the document mappers.
const (
	filterKeyDocDate = "doc_date"
	filterKeyDocType = "doc_type"
	filterKeyStatus  = "status"
)

// receivingRecord is the provider wire shape for one receiving document.
type receivingRecord struct {
	DocNo       string       `json:"doc_no"`
	DocType     string       `json:"doc_type"`
	DocDate     string       `json:"doc_date"`
	Warehouse   string       `json:"warehouse"`
	Supplier    string       `json:"supplier"`
	Responsible string       `json:"responsible"`
	Status      string       `json:"status"`
	Note        string       `json:"note"`
	Items       []itemRecord `json:"items"`
}

// itemRecord is the provider wire shape for one document line.
type itemRecord struct {
	No    int             `json:"no"`
	Ident string          `json:"ident"`
	Name  string          `json:"name"`
	Qty   decimal.Decimal `json:"qty"`
	UM    string          `json:"um"`
}

// ReceivingMapper fetches receiving documents and translates between the
// provider vocabulary and the canonical document shape.
type ReceivingMapper struct {
	client *Client
	method string
}

// NewReceivingMapper creates a mapper bound to the given client. An empty
// method falls back to the default provider method name.
func NewReceivingMapper(client *Client, method string) *ReceivingMapper {
	if method == "" {
		method = DefaultReceivingMethod
	}
	return &ReceivingMapper{client: client, method: method}
}

// FetchDocuments fetches all receiving documents matching the filter.
func (m *ReceivingMapper) FetchDocuments(ctx context.Context, filter *integration.ReceivingFilter) ([]integration.Document, error) {
	raw, err := m.client.FetchAll(ctx, m.method, BuildReceivingFilters(filter))
	if err != nil {
		return nil, err
	}

	docs := make([]integration.Document, 0, len(raw))
	for _, r := range raw {
		var rec receivingRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			return nil, fmt.Errorf("erp: failed to parse receiving record: %w", err)
		}
		docs = append(docs, mapReceivingRecord(&rec))
	}
	return docs, nil
}

// BuildReceivingFilters translates the domain filter into the provider
// filter map. Caller-supplied raw filters come first; structured filters
// overwrite raw keys of the same name. The warehouse is deliberately never
// translated: the provider's matching on that field is unreliable, so it is
// applied client side after fetch.
func BuildReceivingFilters(f *integration.ReceivingFilter) map[string]integration.Filter {
	if f == nil {
		return nil
	}

	filters := make(map[string]integration.Filter)
	for k, v := range f.Raw {
		if v.IsComplete() {
			filters[k] = v
		}
	}

	switch {
	case f.DateFrom != "" && f.DateTo != "":
		filters[filterKeyDocDate] = integration.Filter{
			Operator: integration.OperatorBetween,
			Value:    []string{f.DateFrom, f.DateTo},
		}
	case f.DateFrom != "":
		filters[filterKeyDocDate] = integration.Filter{
			Operator: integration.OperatorGTE,
			Value:    f.DateFrom,
		}
	case f.DateTo != "":
		// A dateTo on its own becomes the single-day range [dateTo, dateTo].
		filters[filterKeyDocDate] = integration.Filter{
			Operator: integration.OperatorBetween,
			Value:    []string{f.DateTo, f.DateTo},
		}
	}

	if len(f.DocTypes) == 1 {
		filters[filterKeyDocType] = integration.Filter{Operator: integration.OperatorEquals, Value: f.DocTypes[0]}
	} else if len(f.DocTypes) > 1 {
		filters[filterKeyDocType] = integration.Filter{Operator: integration.OperatorIn, Value: f.DocTypes}
	}

	if f.Status != "" {
		filters[filterKeyStatus] = integration.Filter{Operator: integration.OperatorEquals, Value: f.Status}
	}

	return filters
}

// mapReceivingRecord renames provider fields into canonical vocabulary.
// For receiving, the provider's warehouse is the destination (our own
// warehouse) and the supplier is the source.
func mapReceivingRecord(rec *receivingRecord) integration.Document {
	doc := integration.Document{
		Number:              rec.DocNo,
		Type:                rec.DocType,
		Date:                rec.DocDate,
		SourceLocation:      rec.Supplier,
		DestinationLocation: rec.Warehouse,
		ResponsiblePerson:   rec.Responsible,
		Status:              rec.Status,
		Note:                rec.Note,
		Lines:               mapItemRecords(rec.Items),
	}
	return doc
}

func mapItemRecords(items []itemRecord) []integration.DocumentLine {
	lines := make([]integration.DocumentLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, integration.DocumentLine{
			Position: it.No,
			SKU:      it.Ident,
			Name:     it.Name,
			Quantity: it.Qty,
			UOM:      it.UM,
		})
	}
	return lines
}

// Ensure ReceivingMapper implements the domain port
var _ integration.ReceivingSource = (*ReceivingMapper)(nil)
