package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"docstack.backend/internal/domain/entities"
	"docstack.backend/internal/infrastructure/models"
	"docstack.backend/pkg/utils"
)

// AuditRepository implements the append-only action log
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends one entry
func (r *AuditRepository) Create(ctx context.Context, entry *entities.AuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	m := &models.AuditEntry{
		ID:          entry.ID,
		TenantID:    entry.TenantID,
		ActorUserID: entry.ActorUserID,
		Action:      string(entry.Action),
		Resource:    entry.Resource,
		StatusCode:  entry.StatusCode,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		Method:      entry.Method,
		Path:        entry.Path,
		DurationMs:  entry.DurationMs,
		Metadata:    entry.Metadata,
		CreatedAt:   entry.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// List applies filters and pagination. The summary counts cover the whole
// search/action/time match; the result filter only narrows the page.
func (r *AuditRepository) List(ctx context.Context, tenantID uuid.UUID, filters entities.AuditListFilters) ([]*entities.AuditEntry, *entities.AuditSummary, error) {
	base := r.db.WithContext(ctx).
		Model(&models.AuditEntry{}).
		Where("tenant_id = ?", tenantID)

	if filters.Search != "" {
		term := "%" + strings.ToLower(filters.Search) + "%"
		base = base.Where(
			"LOWER(action) LIKE ? OR LOWER(resource) LIKE ? OR LOWER(path) LIKE ? OR LOWER(ip_address) LIKE ? OR LOWER(user_agent) LIKE ?",
			term, term, term, term, term,
		)
	}
	if filters.Action != "" {
		base = base.Where("action = ?", string(filters.Action))
	}
	if filters.Start != nil {
		base = base.Where("created_at >= ?", *filters.Start)
	}
	if filters.End != nil {
		base = base.Where("created_at <= ?", *filters.End)
	}

	summary := &entities.AuditSummary{}
	if err := base.Session(&gorm.Session{}).Count(&summary.Total).Error; err != nil {
		return nil, nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status_code < ?", 400).Count(&summary.Success).Error; err != nil {
		return nil, nil, err
	}
	summary.Failed = summary.Total - summary.Success

	query := base.Session(&gorm.Session{})
	switch filters.Result {
	case entities.AuditResultSuccess:
		query = query.Where("status_code < ?", 400)
	case entities.AuditResultFailed:
		query = query.Where("status_code >= ?", 400)
	}

	params := utils.GetPaginationParams(filters.Page, filters.Limit)
	if params.Limit > 0 {
		query = query.Limit(params.Limit).Offset(params.CalculateOffset())
	}

	var entryModels []models.AuditEntry
	if err := query.Order("created_at DESC").Find(&entryModels).Error; err != nil {
		return nil, nil, err
	}

	entries := make([]*entities.AuditEntry, 0, len(entryModels))
	for i := range entryModels {
		entries = append(entries, toAuditEntity(&entryModels[i]))
	}
	return entries, summary, nil
}

func toAuditEntity(m *models.AuditEntry) *entities.AuditEntry {
	return &entities.AuditEntry{
		ID:          m.ID,
		TenantID:    m.TenantID,
		ActorUserID: m.ActorUserID,
		Action:      entities.AuditAction(m.Action),
		Resource:    m.Resource,
		StatusCode:  m.StatusCode,
		IPAddress:   m.IPAddress,
		UserAgent:   m.UserAgent,
		Method:      m.Method,
		Path:        m.Path,
		DurationMs:  m.DurationMs,
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
	}
}
