package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/infrastructure/models"
)

// DocumentRepository implements document metadata operations
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create persists document metadata
func (r *DocumentRepository) Create(ctx context.Context, doc *entities.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	m := &models.Document{
		ID:          doc.ID,
		TenantID:    doc.TenantID,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		BlobKey:     doc.BlobKey,
		UploadedVia: doc.UploadedVia,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID gets a document scoped to its tenant
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*entities.Document, error) {
	var m models.Document
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toDocumentEntity(&m), nil
}

// FindByTenantID lists a tenant's documents, newest first
func (r *DocumentRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*entities.Document, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Document{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{}).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var docModels []models.Document
	if err := query.Find(&docModels).Error; err != nil {
		return nil, 0, err
	}

	docs := make([]*entities.Document, 0, len(docModels))
	for i := range docModels {
		docs = append(docs, toDocumentEntity(&docModels[i]))
	}
	return docs, total, nil
}

// SoftDelete marks a document deleted
func (r *DocumentRepository) SoftDelete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&models.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toDocumentEntity(m *models.Document) *entities.Document {
	return &entities.Document{
		ID:          m.ID,
		TenantID:    m.TenantID,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		BlobKey:     m.BlobKey,
		UploadedVia: m.UploadedVia,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
