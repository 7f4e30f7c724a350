package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/domain/repositories"
	"docstack.backend/internal/infrastructure/ratelimit"
	"docstack.backend/pkg/crypto"
	"docstack.backend/pkg/logger"
)

// ApiKeyUsecase owns the credential lifecycle and the authorization decision
// for API-key-authenticated requests.
type ApiKeyUsecase struct {
	apiKeyRepo  repositories.ApiKeyRepository
	limiter     ratelimit.Limiter
	defaultRate int

	// injectable clock for expiry and window assertions in tests
	now func() time.Time
}

// NewApiKeyUsecase creates a new API key usecase
func NewApiKeyUsecase(apiKeyRepo repositories.ApiKeyRepository, limiter ratelimit.Limiter) *ApiKeyUsecase {
	return &ApiKeyUsecase{
		apiKeyRepo:  apiKeyRepo,
		limiter:     limiter,
		defaultRate: entities.DefaultRateLimitPerHour,
		now:         time.Now,
	}
}

// SetDefaultRateLimit overrides the per-key hourly budget applied to newly
// issued credentials. Values below 1 are ignored.
func (u *ApiKeyUsecase) SetDefaultRateLimit(perHour int) {
	if perHour > 0 {
		u.defaultRate = perHour
	}
}

// Issue mints a new credential for the tenant. The plaintext secret appears
// only in the returned response; the registry keeps its hash and mask.
func (u *ApiKeyUsecase) Issue(ctx context.Context, tenantID, createdBy uuid.UUID, input *entities.CreateApiKeyInput) (*entities.CreateApiKeyResponse, error) {
	if input.Name == "" {
		return nil, domainerrors.Validation("name is required")
	}

	capabilities := input.Capabilities
	if len(capabilities) == 0 {
		capabilities = append([]entities.Capability(nil), entities.AllCapabilities...)
	}
	for _, c := range capabilities {
		if !c.Valid() {
			return nil, domainerrors.Validation(fmt.Sprintf("unknown capability %q", c))
		}
	}
	if input.TTLDays < 0 {
		return nil, domainerrors.Validation("ttlDays must not be negative")
	}

	secret, err := crypto.GenerateApiKeySecret()
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	now := u.now()
	var expiresAt *time.Time
	if input.TTLDays > 0 {
		t := now.Add(time.Duration(input.TTLDays) * 24 * time.Hour)
		expiresAt = &t
	}

	key := &entities.ApiKey{
		TenantID:         tenantID,
		Name:             input.Name,
		KeyPrefix:        crypto.SecretPrefix,
		KeyHash:          crypto.HashApiKeySecret(secret),
		SecretMasked:     crypto.MaskApiKeySecret(secret),
		Capabilities:     capabilities,
		CreatedBy:        createdBy,
		IsActive:         true,
		ExpiresAt:        expiresAt,
		RateLimitPerHour: u.defaultRate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := u.apiKeyRepo.Create(ctx, key); err != nil {
		return nil, domainerrors.Persistence(err)
	}

	return &entities.CreateApiKeyResponse{
		ID:           key.ID,
		Name:         key.Name,
		ApiKey:       secret,
		SecretMasked: key.SecretMasked,
		Capabilities: key.Capabilities,
		ExpiresAt:    key.ExpiresAt,
		CreatedAt:    key.CreatedAt,
	}, nil
}

// List returns the tenant's credentials, masked.
func (u *ApiKeyUsecase) List(ctx context.Context, tenantID uuid.UUID) ([]*entities.ApiKey, error) {
	keys, err := u.apiKeyRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	return keys, nil
}

// Revoke deactivates a credential. Revoking an already revoked key is a
// no-op, not an error.
func (u *ApiKeyUsecase) Revoke(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := u.apiKeyRepo.FindByID(ctx, id, tenantID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("api key not found")
		}
		return domainerrors.Persistence(err)
	}
	if err := u.apiKeyRepo.Deactivate(ctx, id, tenantID); err != nil {
		return domainerrors.Persistence(err)
	}
	return nil
}

// Regenerate rotates a credential: a replacement key with the same name,
// capabilities and expiry is issued first, and only then is the old key
// revoked, so the tenant never has zero working credentials mid-rotation.
func (u *ApiKeyUsecase) Regenerate(ctx context.Context, tenantID, createdBy, id uuid.UUID) (*entities.CreateApiKeyResponse, error) {
	old, err := u.apiKeyRepo.FindByID(ctx, id, tenantID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("api key not found")
		}
		return nil, domainerrors.Persistence(err)
	}

	secret, err := crypto.GenerateApiKeySecret()
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	now := u.now()
	replacement := &entities.ApiKey{
		TenantID:         tenantID,
		Name:             old.Name,
		KeyPrefix:        crypto.SecretPrefix,
		KeyHash:          crypto.HashApiKeySecret(secret),
		SecretMasked:     crypto.MaskApiKeySecret(secret),
		Capabilities:     old.Capabilities,
		CreatedBy:        createdBy,
		IsActive:         true,
		ExpiresAt:        old.ExpiresAt,
		RateLimitPerHour: old.RateLimitPerHour,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := u.apiKeyRepo.Create(ctx, replacement); err != nil {
		return nil, domainerrors.Persistence(err)
	}
	if err := u.apiKeyRepo.Deactivate(ctx, old.ID, tenantID); err != nil {
		// The replacement already works; report the half-finished rotation.
		return nil, domainerrors.Persistence(err)
	}

	return &entities.CreateApiKeyResponse{
		ID:           replacement.ID,
		Name:         replacement.Name,
		ApiKey:       secret,
		SecretMasked: replacement.SecretMasked,
		Capabilities: replacement.Capabilities,
		ExpiresAt:    replacement.ExpiresAt,
		CreatedAt:    replacement.CreatedAt,
	}, nil
}

// Authorize runs the full gate check for a presented secret: lookup by hash,
// active and expiry checks, capability check, then the rate limit. Checks run
// in that order so a revoked key reports 401 even when it also lacks the
// capability.
func (u *ApiKeyUsecase) Authorize(ctx context.Context, secret string, required entities.Capability) (*entities.ApiKey, error) {
	if secret == "" {
		return nil, domainerrors.MissingCredential()
	}

	key, err := u.apiKeyRepo.FindByKeyHash(ctx, crypto.HashApiKeySecret(secret))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredential()
		}
		return nil, domainerrors.Persistence(err)
	}
	if !key.IsActive {
		return nil, domainerrors.InvalidCredential()
	}
	if key.Expired(u.now()) {
		return nil, domainerrors.ExpiredCredential()
	}
	if required != "" && !key.HasCapability(required) {
		return nil, domainerrors.InsufficientPermission(fmt.Sprintf("api key lacks %q capability", required))
	}

	decision, err := u.limiter.Allow(ctx, key.ID.String(), key.RateLimitPerHour, time.Hour)
	if err != nil {
		// Fail closed: an unreachable limit store must not grant unmetered
		// access.
		return nil, domainerrors.Persistence(err)
	}
	if !decision.Allowed {
		return nil, domainerrors.RateLimited(decision.ResetAt)
	}

	return key, nil
}

// TouchUsage bumps the key's cumulative counter and last-used stamp. Callers
// invoke it off the request path; a failure is logged, never surfaced.
func (u *ApiKeyUsecase) TouchUsage(ctx context.Context, id uuid.UUID) {
	if err := u.apiKeyRepo.TouchUsage(ctx, id); err != nil {
		logger.Warn(ctx, "api key usage touch failed",
			zap.String("api_key_id", id.String()),
			zap.Error(err),
		)
	}
}
