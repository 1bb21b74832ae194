package integration

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
)

// SyncService orchestrates one sync pass against the external provider:
// receiving documents, then shipping documents, then stock data. Fetch and
// auth failures abort the pass; persistence failures are recorded per
// document and never stop the remaining documents.
type SyncService struct {
	receiving integration.ReceivingSource
	shipping  integration.ShippingSource
	stocks    integration.StockSource

	receivingImporter integration.ReceivingImporter
	shippingImporter  integration.ShippingImporter

	logger *zap.Logger
}

// NewSyncService creates a sync service with all collaborators supplied up
// front. Importers may be nil, in which case the matching domain is fetched
// and counted but not persisted.
func NewSyncService(
	receiving integration.ReceivingSource,
	shipping integration.ShippingSource,
	stocks integration.StockSource,
	receivingImporter integration.ReceivingImporter,
	shippingImporter integration.ShippingImporter,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		receiving:         receiving,
		shipping:          shipping,
		stocks:            stocks,
		receivingImporter: receivingImporter,
		shippingImporter:  shippingImporter,
		logger:            logger,
	}
}

// Sync runs one pass over the domains the request enables, in a fixed
// order. The returned result is aggregated across domains; the error is
// non-nil only when a fetch or auth phase fails, in which case nothing
// after the failing domain runs.
func (s *SyncService) Sync(ctx context.Context, req *integration.SyncRequest) (*integration.SyncResult, error) {
	if req == nil {
		req = integration.NewSyncRequest()
	}
	req.Normalize()

	started := time.Now()
	result := &integration.SyncResult{}

	if req.Receiving != nil {
		if err := s.syncReceiving(ctx, req, result); err != nil {
			return nil, fmt.Errorf("receiving sync: %w", err)
		}
	}

	if req.Shipping != nil {
		if err := s.syncShipping(ctx, req, result); err != nil {
			return nil, fmt.Errorf("shipping sync: %w", err)
		}
	}

	if req.Stocks != nil {
		if err := s.syncStocks(ctx, req, result); err != nil {
			return nil, fmt.Errorf("stock sync: %w", err)
		}
	}

	result.SyncedAt = time.Now()

	s.logger.Info("sync pass completed",
		zap.Int("receiving_count", result.ReceivingCount),
		zap.Int("shipping_count", result.ShippingCount),
		zap.Int("stock_count", result.StockCount),
		zap.Int("receiving_imported", result.ReceivingImported),
		zap.Int("shipping_imported", result.ShippingImported),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("duration", time.Since(started)),
	)
	return result, nil
}

// ---------------------------------------------------------------------------
// Per-Domain Passes
// ---------------------------------------------------------------------------

func (s *SyncService) syncReceiving(ctx context.Context, req *integration.SyncRequest, result *integration.SyncResult) error {
	if err := req.Receiving.Validate(); err != nil {
		return err
	}

	docs, err := s.receiving.FetchDocuments(ctx, req.Receiving)
	if err != nil {
		return err
	}

	// Receiving documents flow into our warehouse, so the warehouse filter
	// applies to the destination.
	kept := docs[:0]
	for _, doc := range docs {
		if integration.MatchesWarehouse(doc.DestinationLocation, req.Receiving.Warehouse) {
			kept = append(kept, doc)
		}
	}
	result.ReceivingCount = len(kept)

	if !req.Persist {
		return nil
	}
	if s.receivingImporter == nil {
		s.logger.Warn("receiving importer not configured, skipping persistence",
			zap.Int("documents", len(kept)))
		return nil
	}

	for i := range kept {
		imp := receivingImport(&kept[i], req.UserID)
		if err := s.receivingImporter.ImportDocument(ctx, imp); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("receiving %s: %v", kept[i].Number, err))
			s.logger.Warn("receiving document import failed",
				zap.String("document", kept[i].Number),
				zap.Error(err))
			continue
		}
		result.ReceivingImported++
	}
	return nil
}

func (s *SyncService) syncShipping(ctx context.Context, req *integration.SyncRequest, result *integration.SyncResult) error {
	if err := req.Shipping.Validate(); err != nil {
		return err
	}

	docs, err := s.shipping.FetchDocuments(ctx, req.Shipping)
	if err != nil {
		return err
	}

	// Shipping documents flow out of our warehouse, so the warehouse filter
	// applies to the source.
	kept := docs[:0]
	for _, doc := range docs {
		if integration.MatchesWarehouse(doc.SourceLocation, req.Shipping.Warehouse) {
			kept = append(kept, doc)
		}
	}
	result.ShippingCount = len(kept)

	if !req.Persist {
		return nil
	}
	if s.shippingImporter == nil {
		s.logger.Warn("shipping importer not configured, skipping persistence",
			zap.Int("documents", len(kept)))
		return nil
	}

	for i := range kept {
		imp := shippingImport(&kept[i], req.UserID)
		if err := s.shippingImporter.ImportDocument(ctx, imp); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("shipping %s: %v", kept[i].Number, err))
			s.logger.Warn("shipping document import failed",
				zap.String("document", kept[i].Number),
				zap.Error(err))
			continue
		}
		result.ShippingImported++
	}
	return nil
}

func (s *SyncService) syncStocks(ctx context.Context, req *integration.SyncRequest, result *integration.SyncResult) error {
	partners, err := s.stocks.FetchPartners(ctx, req.Stocks)
	if err != nil {
		return err
	}

	// Stock subjects carry their associated warehouse code, so the
	// warehouse filter applies to that field.
	kept := partners[:0]
	for _, p := range partners {
		if integration.MatchesWarehouse(p.WarehouseCode, req.Stocks.Warehouse) {
			kept = append(kept, p)
		}
	}
	result.StockCount = len(kept)

	items, err := s.stocks.FetchItems(ctx, req.Stocks)
	if err != nil {
		return err
	}
	inStock := 0
	for _, item := range items {
		levels := item.Levels
		if req.Stocks.Warehouse != "" {
			levels = item.LevelsFor(req.Stocks.Warehouse)
		}
		if len(levels) > 0 {
			inStock++
		}
	}

	// TODO: hand partners to the partner registry once its import service
	// lands; for now the stock pass only reports what the provider holds.
	s.logger.Debug("stock data fetched",
		zap.Int("subjects", len(kept)),
		zap.Int("items", len(items)),
		zap.Int("items_in_stock", inStock),
	)
	return nil
}

// ---------------------------------------------------------------------------
// Import Conversion
// ---------------------------------------------------------------------------

// receivingImport converts a canonical receiving document into importer
// vocabulary. The destination is our warehouse, the source is the partner.
func receivingImport(doc *integration.Document, userID int) *integration.DocumentImport {
	return &integration.DocumentImport{
		DocumentNumber:    doc.Number,
		DocumentType:      doc.Type,
		DocumentDate:      doc.Date,
		Warehouse:         doc.DestinationLocation,
		Partner:           doc.SourceLocation,
		ResponsiblePerson: doc.ResponsiblePerson,
		Status:            doc.Status,
		Note:              doc.Note,
		UserID:            userID,
		Lines:             importLines(doc.Lines),
	}
}

// shippingImport converts a canonical shipping document into importer
// vocabulary. The source is our warehouse, the destinations are partners.
func shippingImport(doc *integration.Document, userID int) *integration.DocumentImport {
	return &integration.DocumentImport{
		DocumentNumber:    doc.Number,
		DocumentType:      doc.Type,
		DocumentDate:      doc.Date,
		Warehouse:         doc.SourceLocation,
		Partner:           doc.DestinationLocation,
		SecondaryPartner:  doc.SecondaryDestination,
		ResponsiblePerson: doc.ResponsiblePerson,
		Status:            doc.Status,
		Note:              doc.Note,
		UserID:            userID,
		Lines:             importLines(doc.Lines),
	}
}

func importLines(lines []integration.DocumentLine) []integration.LineImport {
	out := make([]integration.LineImport, 0, len(lines))
	for _, l := range lines {
		out = append(out, integration.LineImport{
			Position: l.Position,
			SKU:      l.SKU,
			Name:     l.Name,
			Quantity: l.Quantity,
			UOM:      l.UOM,
		})
	}
	return out
}
