package repositories

import (
	"context"

	"docstack.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// ApiKeyRepository defines credential registry operations
type ApiKeyRepository interface {
	Create(ctx context.Context, apiKey *entities.ApiKey) error
	FindByKeyHash(ctx context.Context, keyHash string) (*entities.ApiKey, error)
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*entities.ApiKey, error)
	FindByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*entities.ApiKey, error)
	Deactivate(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
	// TouchUsage increments the cumulative usage counter and stamps
	// last-used. Called off the request path.
	TouchUsage(ctx context.Context, id uuid.UUID) error
}
