package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"docstack.backend/internal/domain/entities"
	"docstack.backend/internal/infrastructure/models"
)

// UsageRecordRepository implements the append-only usage log
type UsageRecordRepository struct {
	db *gorm.DB
}

// NewUsageRecordRepository creates a new usage record repository
func NewUsageRecordRepository(db *gorm.DB) *UsageRecordRepository {
	return &UsageRecordRepository{db: db}
}

// Create appends one record. There is deliberately no update or delete.
func (r *UsageRecordRepository) Create(ctx context.Context, record *entities.UsageRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	m := &models.UsageRecord{
		ID:         record.ID,
		ApiKeyID:   record.ApiKeyID,
		TenantID:   record.TenantID,
		Endpoint:   record.Endpoint,
		Method:     record.Method,
		StatusCode: record.StatusCode,
		DurationMs: record.DurationMs,
		IPAddress:  record.IPAddress,
		UserAgent:  record.UserAgent,
		CreatedAt:  record.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// FindInWindow returns the records for a tenant in [from, to), optionally
// narrowed to one key
func (r *UsageRecordRepository) FindInWindow(ctx context.Context, tenantID uuid.UUID, apiKeyID *uuid.UUID, from, to time.Time) ([]*entities.UsageRecord, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from, to)
	if apiKeyID != nil {
		query = query.Where("api_key_id = ?", *apiKeyID)
	}

	var recordModels []models.UsageRecord
	if err := query.Order("created_at ASC").Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]*entities.UsageRecord, 0, len(recordModels))
	for i := range recordModels {
		m := &recordModels[i]
		records = append(records, &entities.UsageRecord{
			ID:         m.ID,
			ApiKeyID:   m.ApiKeyID,
			TenantID:   m.TenantID,
			Endpoint:   m.Endpoint,
			Method:     m.Method,
			StatusCode: m.StatusCode,
			DurationMs: m.DurationMs,
			IPAddress:  m.IPAddress,
			UserAgent:  m.UserAgent,
			CreatedAt:  m.CreatedAt,
		})
	}
	return records, nil
}
