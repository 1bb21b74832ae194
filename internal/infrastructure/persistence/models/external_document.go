package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
)

// Document directions. A provider document number is only unique within its
// direction, so the pair forms the natural key.
const (
	DirectionReceiving = "RECEIVING"
	DirectionShipping  = "SHIPPING"
)

// ExternalDocumentModel is the persistence model for one document imported
// from the external provider.
type ExternalDocumentModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	Direction         string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_external_documents_number,priority:1"`
	DocumentNumber    string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_external_documents_number,priority:2"`
	DocumentType      string    `gorm:"type:varchar(50)"`
	DocumentDate      string    `gorm:"type:varchar(10);index"`
	Warehouse         string    `gorm:"type:varchar(255);index"`
	Partner           string    `gorm:"type:varchar(255)"`
	SecondaryPartner  string    `gorm:"type:varchar(255)"`
	ResponsiblePerson string    `gorm:"type:varchar(255)"`
	Status            string    `gorm:"type:varchar(50)"`
	Note              string    `gorm:"type:text"`
	UserID            int       `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`

	Lines []ExternalDocumentLineModel `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ExternalDocumentModel) TableName() string {
	return "external_documents"
}

// ExternalDocumentLineModel is one line of an imported document.
type ExternalDocumentLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"not null"`
	SKU        string          `gorm:"type:varchar(100);not null;index"`
	Name       string          `gorm:"type:varchar(255)"`
	Quantity   decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	UOM        string          `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (ExternalDocumentLineModel) TableName() string {
	return "external_document_lines"
}

// FromImport populates the persistence model from an import request. The ID
// and timestamps are the store's concern and left untouched.
func (m *ExternalDocumentModel) FromImport(direction string, imp *integration.DocumentImport) {
	m.Direction = direction
	m.DocumentNumber = imp.DocumentNumber
	m.DocumentType = imp.DocumentType
	m.DocumentDate = imp.DocumentDate
	m.Warehouse = imp.Warehouse
	m.Partner = imp.Partner
	m.SecondaryPartner = imp.SecondaryPartner
	m.ResponsiblePerson = imp.ResponsiblePerson
	m.Status = imp.Status
	m.Note = imp.Note
	m.UserID = imp.UserID
}

// LinesFromImport builds fresh line models for the given document.
func LinesFromImport(documentID uuid.UUID, lines []integration.LineImport) []ExternalDocumentLineModel {
	out := make([]ExternalDocumentLineModel, 0, len(lines))
	for _, l := range lines {
		out = append(out, ExternalDocumentLineModel{
			ID:         uuid.New(),
			DocumentID: documentID,
			Position:   l.Position,
			SKU:        l.SKU,
			Name:       l.Name,
			Quantity:   l.Quantity,
			UOM:        l.UOM,
		})
	}
	return out
}
