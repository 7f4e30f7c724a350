package repositories

import (
	"context"

	"docstack.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// DocumentRepository stores document metadata; bytes live in the blob store.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entities.Document) error
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*entities.Document, error)
	FindByTenantID(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*entities.Document, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
}
