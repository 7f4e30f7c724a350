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

// ApiKeyRepository implements credential registry operations
type ApiKeyRepository struct {
	db *gorm.DB
}

// NewApiKeyRepository creates a new api key repository
func NewApiKeyRepository(db *gorm.DB) *ApiKeyRepository {
	return &ApiKeyRepository{db: db}
}

// Create persists a new api key
func (r *ApiKeyRepository) Create(ctx context.Context, apiKey *entities.ApiKey) error {
	if apiKey.ID == uuid.Nil {
		apiKey.ID = uuid.New()
	}
	now := time.Now()
	if apiKey.CreatedAt.IsZero() {
		apiKey.CreatedAt = now
	}
	apiKey.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(toApiKeyModel(apiKey)).Error; err != nil {
		return err
	}
	return nil
}

// FindByKeyHash looks up a key by the SHA-256 of the presented secret.
// Revoked keys are returned too; the gate decides what to do with them.
func (r *ApiKeyRepository) FindByKeyHash(ctx context.Context, keyHash string) (*entities.ApiKey, error) {
	var m models.ApiKey
	if err := r.db.WithContext(ctx).Where("key_hash = ?", keyHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toApiKeyEntity(&m), nil
}

// FindByTenantID lists all keys for a tenant, newest first
func (r *ApiKeyRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*entities.ApiKey, error) {
	var keyModels []models.ApiKey
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&keyModels).Error
	if err != nil {
		return nil, err
	}

	keys := make([]*entities.ApiKey, 0, len(keyModels))
	for i := range keyModels {
		keys = append(keys, toApiKeyEntity(&keyModels[i]))
	}
	return keys, nil
}

// FindByID gets a key by id scoped to its owning tenant
func (r *ApiKeyRepository) FindByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*entities.ApiKey, error) {
	var m models.ApiKey
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toApiKeyEntity(&m), nil
}

// Deactivate flips the key inactive. Deactivation is terminal; there is no
// reactivation path.
func (r *ApiKeyRepository) Deactivate(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// TouchUsage bumps the cumulative counter and last-used stamp
func (r *ApiKeyRepository) TouchUsage(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toApiKeyModel(k *entities.ApiKey) *models.ApiKey {
	caps := make([]string, 0, len(k.Capabilities))
	for _, c := range k.Capabilities {
		caps = append(caps, string(c))
	}
	return &models.ApiKey{
		ID:               k.ID,
		TenantID:         k.TenantID,
		Name:             k.Name,
		KeyPrefix:        k.KeyPrefix,
		KeyHash:          k.KeyHash,
		SecretMasked:     k.SecretMasked,
		Capabilities:     caps,
		CreatedBy:        k.CreatedBy,
		IsActive:         k.IsActive,
		LastUsedAt:       k.LastUsedAt,
		ExpiresAt:        k.ExpiresAt,
		UsageCount:       k.UsageCount,
		RateLimitPerHour: k.RateLimitPerHour,
		CreatedAt:        k.CreatedAt,
		UpdatedAt:        k.UpdatedAt,
	}
}

func toApiKeyEntity(m *models.ApiKey) *entities.ApiKey {
	caps := make([]entities.Capability, 0, len(m.Capabilities))
	for _, c := range m.Capabilities {
		caps = append(caps, entities.Capability(c))
	}
	return &entities.ApiKey{
		ID:               m.ID,
		TenantID:         m.TenantID,
		Name:             m.Name,
		KeyPrefix:        m.KeyPrefix,
		KeyHash:          m.KeyHash,
		SecretMasked:     m.SecretMasked,
		Capabilities:     caps,
		CreatedBy:        m.CreatedBy,
		IsActive:         m.IsActive,
		LastUsedAt:       m.LastUsedAt,
		ExpiresAt:        m.ExpiresAt,
		UsageCount:       m.UsageCount,
		RateLimitPerHour: m.RateLimitPerHour,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
