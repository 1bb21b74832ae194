package integration

import (
	"context"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Import Collaborator Ports
// ---------------------------------------------------------------------------

// DocumentImport is the input the warehouse persistence services expect for
// one externally-sourced document. Idempotency across repeated imports of
// the same document is the importer's responsibility, not the sync engine's.
type DocumentImport struct {
	// DocumentNumber is the provider document number
	DocumentNumber string
	// DocumentType is the provider document type code
	DocumentType string
	// DocumentDate is the document date (YYYY-MM-DD)
	DocumentDate string
	// Warehouse is our own warehouse involved in the movement
	Warehouse string
	// Partner is the external party (supplier for receiving, recipient for shipping)
	Partner string
	// SecondaryPartner is the second recipient (shipping only)
	SecondaryPartner string
	// ResponsiblePerson is the person responsible for the document
	ResponsiblePerson string
	// Status is the provider document status
	Status string
	// Note is the document note
	Note string
	// UserID is the platform user the import is attributed to
	UserID int
	// Lines contains the document lines
	Lines []LineImport
}

// LineImport is one document line in importer vocabulary.
type LineImport struct {
	Position int
	SKU      string
	Name     string
	Quantity decimal.Decimal
	UOM      string
}

// ReceivingImporter persists receiving documents into the warehouse platform.
type ReceivingImporter interface {
	ImportDocument(ctx context.Context, doc *DocumentImport) error
}

// ShippingImporter persists shipping documents into the warehouse platform.
type ShippingImporter interface {
	ImportDocument(ctx context.Context, doc *DocumentImport) error
}
