package erp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
)

// Provider filter keys specific to the stock interface.
const (
	filterKeyChangeDate = "change_date"
	filterKeyQuantity   = "qty"
)

// boolSentinelTrue is how the provider encodes a true boolean flag.
const boolSentinelTrue = "T"

// partnerRecord is the provider wire shape for one stock subject.
type partnerRecord struct {
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Warehouse   string `json:"warehouse"`
	IsCustomer  string `json:"is_customer"`
	IsSupplier  string `json:"is_supplier"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

// stockItemRecord is the provider wire shape for one item with its
// per-warehouse stock breakdown.
type stockItemRecord struct {
	Ident string             `json:"ident"`
	Stock []stockLevelRecord `json:"stock"`
}

type stockLevelRecord struct {
	Warehouse string          `json:"warehouse"`
	Qty       decimal.Decimal `json:"qty"`
}

// StockMapper fetches stock subjects and per-warehouse item stock from the
// provider.
type StockMapper struct {
	client         *Client
	partnersMethod string
	itemsMethod    string
}

// NewStockMapper creates a mapper bound to the given client. Empty methods
// fall back to the default provider method names.
func NewStockMapper(client *Client, partnersMethod, itemsMethod string) *StockMapper {
	if partnersMethod == "" {
		partnersMethod = DefaultStockPartnersMethod
	}
	if itemsMethod == "" {
		itemsMethod = DefaultStockItemsMethod
	}
	return &StockMapper{client: client, partnersMethod: partnersMethod, itemsMethod: itemsMethod}
}

// FetchPartners fetches all stock subjects matching the filter.
func (m *StockMapper) FetchPartners(ctx context.Context, filter *integration.StockFilter) ([]integration.StockPartner, error) {
	raw, err := m.client.FetchAll(ctx, m.partnersMethod, BuildStockFilters(filter))
	if err != nil {
		return nil, err
	}

	partners := make([]integration.StockPartner, 0, len(raw))
	for _, r := range raw {
		var rec partnerRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			return nil, fmt.Errorf("erp: failed to parse stock subject record: %w", err)
		}
		partners = append(partners, mapPartnerRecord(&rec))
	}
	return partners, nil
}

// FetchItems fetches all item stock records matching the filter.
func (m *StockMapper) FetchItems(ctx context.Context, filter *integration.StockFilter) ([]integration.StockItem, error) {
	raw, err := m.client.FetchAll(ctx, m.itemsMethod, BuildStockFilters(filter))
	if err != nil {
		return nil, err
	}

	items := make([]integration.StockItem, 0, len(raw))
	for _, r := range raw {
		var rec stockItemRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			return nil, fmt.Errorf("erp: failed to parse stock item record: %w", err)
		}
		items = append(items, mapStockItemRecord(&rec))
	}
	return items, nil
}

// BuildStockFilters translates the domain filter into the provider filter
// map. A minimum quantity of zero produces no filter at all: the provider
// requires every included filter to carry both operator and value, and "no
// filter" beats a vacuous one.
func BuildStockFilters(f *integration.StockFilter) map[string]integration.Filter {
	if f == nil {
		return nil
	}

	filters := make(map[string]integration.Filter)
	for k, v := range f.Raw {
		if v.IsComplete() {
			filters[k] = v
		}
	}

	if f.ChangedSince != "" {
		filters[filterKeyChangeDate] = integration.Filter{
			Operator: integration.OperatorGTE,
			Value:    f.ChangedSince,
		}
	}

	if f.MinQuantity > 0 {
		filters[filterKeyQuantity] = integration.Filter{
			Operator: integration.OperatorGTE,
			Value:    f.MinQuantity,
		}
	}

	return filters
}

// mapPartnerRecord renames provider fields into canonical vocabulary and
// decodes the provider's "T"/other boolean sentinels.
func mapPartnerRecord(rec *partnerRecord) integration.StockPartner {
	return integration.StockPartner{
		SubjectID:     rec.SubjectID,
		SubjectName:   rec.SubjectName,
		WarehouseCode: rec.Warehouse,
		IsCustomer:    rec.IsCustomer == boolSentinelTrue,
		IsSupplier:    rec.IsSupplier == boolSentinelTrue,
		Address:       rec.Address,
		City:          rec.City,
		Country:       rec.Country,
	}
}

func mapStockItemRecord(rec *stockItemRecord) integration.StockItem {
	item := integration.StockItem{
		SKU:    rec.Ident,
		Levels: make([]integration.StockLevel, 0, len(rec.Stock)),
	}
	for _, l := range rec.Stock {
		item.Levels = append(item.Levels, integration.StockLevel{
			Warehouse: l.Warehouse,
			Quantity:  l.Qty,
		})
	}
	return item
}

// Ensure StockMapper implements the domain port
var _ integration.StockSource = (*StockMapper)(nil)
