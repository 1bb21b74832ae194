package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
	"github.com/Doppler617492/AltaWmsProject-sub001/internal/infrastructure/persistence/models"
)

// DocumentImporter persists externally-sourced documents. Importing the
// same document number twice updates the stored document in place and
// replaces its lines, so repeated sync passes are idempotent.
type DocumentImporter struct {
	db        *gorm.DB
	direction string
}

// NewReceivingImporter creates an importer for receiving documents.
func NewReceivingImporter(db *gorm.DB) *DocumentImporter {
	return &DocumentImporter{db: db, direction: models.DirectionReceiving}
}

// NewShippingImporter creates an importer for shipping documents.
func NewShippingImporter(db *gorm.DB) *DocumentImporter {
	return &DocumentImporter{db: db, direction: models.DirectionShipping}
}

// ImportDocument stores one document and its lines in a single transaction.
func (r *DocumentImporter) ImportDocument(ctx context.Context, doc *integration.DocumentImport) error {
	if doc == nil || strings.TrimSpace(doc.DocumentNumber) == "" {
		return integration.ErrImportInvalidDocument
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.ExternalDocumentModel
		err := tx.Where("direction = ? AND document_number = ?", r.direction, doc.DocumentNumber).
			First(&model).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			model.ID = uuid.New()
		case err != nil:
			return fmt.Errorf("failed to look up document %s: %w", doc.DocumentNumber, err)
		}

		model.FromImport(r.direction, doc)
		if err := tx.Save(&model).Error; err != nil {
			return fmt.Errorf("failed to save document %s: %w", doc.DocumentNumber, err)
		}

		// Replace the lines wholesale; the provider document is the source
		// of truth for its line set.
		if err := tx.Where("document_id = ?", model.ID).
			Delete(&models.ExternalDocumentLineModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear lines for document %s: %w", doc.DocumentNumber, err)
		}
		if len(doc.Lines) > 0 {
			lines := models.LinesFromImport(model.ID, doc.Lines)
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("failed to save lines for document %s: %w", doc.DocumentNumber, err)
			}
		}
		return nil
	})
}

// Ensure DocumentImporter implements the domain ports
var (
	_ integration.ReceivingImporter = (*DocumentImporter)(nil)
	_ integration.ShippingImporter  = (*DocumentImporter)(nil)
)
