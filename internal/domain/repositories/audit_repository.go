package repositories

import (
	"context"

	"docstack.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// AuditRepository stores the immutable action log
type AuditRepository interface {
	Create(ctx context.Context, entry *entities.AuditEntry) error
	// List applies the filters and pagination; the summary covers the whole
	// filter match, not just the returned page.
	List(ctx context.Context, tenantID uuid.UUID, filters entities.AuditListFilters) ([]*entities.AuditEntry, *entities.AuditSummary, error)
}
