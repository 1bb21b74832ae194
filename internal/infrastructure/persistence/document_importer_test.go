package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
	"github.com/Doppler617492/AltaWmsProject-sub001/internal/infrastructure/persistence/models"
)

// setupImporterTestDB creates an in-memory SQLite database for testing
func setupImporterTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ExternalDocumentModel{}, &models.ExternalDocumentLineModel{})
	require.NoError(t, err)

	return db
}

func receivingImportFixture(number string) *integration.DocumentImport {
	return &integration.DocumentImport{
		DocumentNumber:    number,
		DocumentType:      "PRIJEM",
		DocumentDate:      "2024-01-15",
		Warehouse:         "Veleprodajni Magacin",
		Partner:           "Dobavljac doo",
		ResponsiblePerson: "M. Petrovic",
		Status:            "CONFIRMED",
		UserID:            integration.SystemUserID,
		Lines: []integration.LineImport{
			{Position: 1, SKU: "SKU-100", Name: "Artikal A", Quantity: decimal.RequireFromString("12.5"), UOM: "kom"},
			{Position: 2, SKU: "SKU-200", Name: "Artikal B", Quantity: decimal.NewFromInt(3), UOM: "pak"},
		},
	}
}

func TestDocumentImporter_ImportDocument(t *testing.T) {
	db := setupImporterTestDB(t)
	importer := NewReceivingImporter(db)

	err := importer.ImportDocument(context.Background(), receivingImportFixture("PR-2024-001"))
	require.NoError(t, err)

	var doc models.ExternalDocumentModel
	require.NoError(t, db.Preload("Lines").Where("document_number = ?", "PR-2024-001").First(&doc).Error)

	assert.Equal(t, models.DirectionReceiving, doc.Direction)
	assert.Equal(t, "PRIJEM", doc.DocumentType)
	assert.Equal(t, "Veleprodajni Magacin", doc.Warehouse)
	assert.Equal(t, "Dobavljac doo", doc.Partner)
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "SKU-100", doc.Lines[0].SKU)
	assert.True(t, doc.Lines[0].Quantity.Equal(decimal.RequireFromString("12.5")))
}

func TestDocumentImporter_ReimportReplacesDocument(t *testing.T) {
	db := setupImporterTestDB(t)
	importer := NewReceivingImporter(db)
	ctx := context.Background()

	require.NoError(t, importer.ImportDocument(ctx, receivingImportFixture("PR-2024-001")))

	// The provider corrected the document: new status, one line dropped.
	updated := receivingImportFixture("PR-2024-001")
	updated.Status = "CANCELLED"
	updated.Lines = updated.Lines[:1]
	require.NoError(t, importer.ImportDocument(ctx, updated))

	var count int64
	require.NoError(t, db.Model(&models.ExternalDocumentModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var doc models.ExternalDocumentModel
	require.NoError(t, db.Preload("Lines").Where("document_number = ?", "PR-2024-001").First(&doc).Error)
	assert.Equal(t, "CANCELLED", doc.Status)
	assert.Len(t, doc.Lines, 1)

	// No orphaned lines survive the replacement.
	var lineCount int64
	require.NoError(t, db.Model(&models.ExternalDocumentLineModel{}).Count(&lineCount).Error)
	assert.Equal(t, int64(1), lineCount)
}

func TestDocumentImporter_DirectionsDoNotCollide(t *testing.T) {
	db := setupImporterTestDB(t)
	ctx := context.Background()

	// The provider reuses numbering across document kinds.
	require.NoError(t, NewReceivingImporter(db).ImportDocument(ctx, receivingImportFixture("DOC-7")))

	shipping := receivingImportFixture("DOC-7")
	shipping.DocumentType = "OTPREMA"
	require.NoError(t, NewShippingImporter(db).ImportDocument(ctx, shipping))

	var count int64
	require.NoError(t, db.Model(&models.ExternalDocumentModel{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestDocumentImporter_RejectsEmptyDocumentNumber(t *testing.T) {
	db := setupImporterTestDB(t)
	importer := NewReceivingImporter(db)

	err := importer.ImportDocument(context.Background(), &integration.DocumentImport{DocumentNumber: "  "})
	assert.ErrorIs(t, err, integration.ErrImportInvalidDocument)

	err = importer.ImportDocument(context.Background(), nil)
	assert.ErrorIs(t, err, integration.ErrImportInvalidDocument)
}

func TestDocumentImporter_DocumentWithoutLines(t *testing.T) {
	db := setupImporterTestDB(t)
	importer := NewShippingImporter(db)

	imp := receivingImportFixture("OT-1")
	imp.Lines = nil
	require.NoError(t, importer.ImportDocument(context.Background(), imp))

	var doc models.ExternalDocumentModel
	require.NoError(t, db.Preload("Lines").Where("document_number = ?", "OT-1").First(&doc).Error)
	assert.Empty(t, doc.Lines)
}
