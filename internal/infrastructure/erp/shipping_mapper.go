package erp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
)

// shippingRecord is the provider wire shape for one shipping document.
// Unlike receiving, the warehouse here is the source and the two receiver
// fields are the recipients.
type shippingRecord struct {
	DocNo       string       `json:"doc_no"`
	DocType     string       `json:"doc_type"`
	DocDate     string       `json:"doc_date"`
	Warehouse   string       `json:"warehouse"`
	Receiver    string       `json:"receiver"`
	Receiver2   string       `json:"receiver2"`
	Responsible string       `json:"responsible"`
	Status      string       `json:"status"`
	Note        string       `json:"note"`
	Items       []itemRecord `json:"items"`
}

// ShippingMapper fetches shipping documents and translates between the
// provider vocabulary and the canonical document shape.
type ShippingMapper struct {
	client *Client
	method string
}

// NewShippingMapper creates a mapper bound to the given client. An empty
// method falls back to the default provider method name.
func NewShippingMapper(client *Client, method string) *ShippingMapper {
	if method == "" {
		method = DefaultShippingMethod
	}
	return &ShippingMapper{client: client, method: method}
}

// FetchDocuments fetches all shipping documents matching the filter.
func (m *ShippingMapper) FetchDocuments(ctx context.Context, filter *integration.ShippingFilter) ([]integration.Document, error) {
	raw, err := m.client.FetchAll(ctx, m.method, BuildShippingFilters(filter))
	if err != nil {
		return nil, err
	}

	docs := make([]integration.Document, 0, len(raw))
	for _, r := range raw {
		var rec shippingRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			return nil, fmt.Errorf("erp: failed to parse shipping record: %w", err)
		}
		docs = append(docs, mapShippingRecord(&rec))
	}
	return docs, nil
}

// BuildShippingFilters translates the domain filter into the provider
// filter map. Same precedence as receiving: raw filters first, structured
// filters overwrite. A dateTo without a dateFrom produces no date filter.
// The warehouse stays client side.
func BuildShippingFilters(f *integration.ShippingFilter) map[string]integration.Filter {
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

// mapShippingRecord renames provider fields into canonical vocabulary.
// For shipping, the provider's warehouse is the source (our own warehouse)
// and the receivers are the destinations.
func mapShippingRecord(rec *shippingRecord) integration.Document {
	return integration.Document{
		Number:               rec.DocNo,
		Type:                 rec.DocType,
		Date:                 rec.DocDate,
		SourceLocation:       rec.Warehouse,
		DestinationLocation:  rec.Receiver,
		SecondaryDestination: rec.Receiver2,
		ResponsiblePerson:    rec.Responsible,
		Status:               rec.Status,
		Note:                 rec.Note,
		Lines:                mapItemRecords(rec.Items),
	}
}

// Ensure ShippingMapper implements the domain port
var _ integration.ShippingSource = (*ShippingMapper)(nil)
