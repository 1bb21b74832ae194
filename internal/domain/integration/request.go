package integration

import (
	"context"
	"time"
)

// SystemUserID is the warehouse platform user that sync-created documents
// are attributed to when the caller does not name one.
const SystemUserID = 1

// ---------------------------------------------------------------------------
// Sync Request / Result
// ---------------------------------------------------------------------------

// SyncRequest names which domains to sync and how. A nil per-domain filter
// skips that domain entirely.
type SyncRequest struct {
	// Receiving enables the receiving document sync
	Receiving *ReceivingFilter
	// Shipping enables the shipping document sync
	Shipping *ShippingFilter
	// Stocks enables the stock sync
	Stocks *StockFilter
	// Persist controls whether fetched documents are handed to the import
	// collaborators
	Persist bool
	// UserID is the platform user the imports are attributed to
	UserID int
}

// NewSyncRequest returns a request with the defaults applied: persistence
// enabled and imports attributed to the system user.
func NewSyncRequest() *SyncRequest {
	return &SyncRequest{
		Persist: true,
		UserID:  SystemUserID,
	}
}

// Normalize applies defaults for zero-valued fields.
func (r *SyncRequest) Normalize() {
	if r.UserID == 0 {
		r.UserID = SystemUserID
	}
}

// SyncResult aggregates the outcome of one sync pass. Errors holds only
// persistence-phase failures; fetch and auth phase failures abort the pass
// and are returned as errors from the sync call itself.
type SyncResult struct {
	// ReceivingCount is the number of receiving documents after client-side filtering
	ReceivingCount int
	// ShippingCount is the number of shipping documents after client-side filtering
	ShippingCount int
	// StockCount is the number of stock records fetched
	StockCount int
	// ReceivingImported is the number of receiving documents persisted
	ReceivingImported int
	// ShippingImported is the number of shipping documents persisted
	ShippingImported int
	// Errors lists per-document persistence failures
	Errors []string
	// SyncedAt is when the pass completed
	SyncedAt time.Time
}

// ---------------------------------------------------------------------------
// Fetch Ports
// ---------------------------------------------------------------------------

// ReceivingSource fetches receiving documents from the provider.
type ReceivingSource interface {
	FetchDocuments(ctx context.Context, filter *ReceivingFilter) ([]Document, error)
}

// ShippingSource fetches shipping documents from the provider.
type ShippingSource interface {
	FetchDocuments(ctx context.Context, filter *ShippingFilter) ([]Document, error)
}

// StockSource fetches stock data from the provider.
type StockSource interface {
	FetchPartners(ctx context.Context, filter *StockFilter) ([]StockPartner, error)
	FetchItems(ctx context.Context, filter *StockFilter) ([]StockItem, error)
}
