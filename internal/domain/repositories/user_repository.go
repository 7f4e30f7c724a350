package repositories

import (
	"context"

	"docstack.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// UserRepository defines user directory operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.User, error)
}
