package repositories

import (
	"context"
	"time"

	"docstack.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// UsageRecordRepository is append-only: records are never mutated or removed
// by this subsystem.
type UsageRecordRepository interface {
	Create(ctx context.Context, record *entities.UsageRecord) error
	// FindInWindow returns the records for a tenant in [from, to), optionally
	// narrowed to a single key.
	FindInWindow(ctx context.Context, tenantID uuid.UUID, apiKeyID *uuid.UUID, from, to time.Time) ([]*entities.UsageRecord, error)
}
