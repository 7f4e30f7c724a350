package entities

import (
	"time"

	"github.com/google/uuid"
)

// Capability is one permission tag from the closed set an API key may carry.
type Capability string

const (
	CapabilityUpload Capability = "upload"
	CapabilityChat   Capability = "chat"
	CapabilitySearch Capability = "search"
	CapabilityDelete Capability = "delete"
)

// AllCapabilities is the closed enumeration of grantable capabilities.
var AllCapabilities = []Capability{
	CapabilityUpload,
	CapabilityChat,
	CapabilitySearch,
	CapabilityDelete,
}

// Valid reports whether c is a member of the closed capability set.
func (c Capability) Valid() bool {
	for _, known := range AllCapabilities {
		if c == known {
			return true
		}
	}
	return false
}

// DefaultRateLimitPerHour applies when an API key is issued without an
// explicit quota.
const DefaultRateLimitPerHour = 100

// ApiKey represents a tenant-scoped machine credential.
// The raw secret is never stored; KeyHash holds its SHA-256 digest.
type ApiKey struct {
	ID               uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID         uuid.UUID    `json:"tenantId" gorm:"type:uuid;not null;index"`
	Name             string       `json:"name" gorm:"type:varchar(100);not null"`
	KeyPrefix        string       `json:"keyPrefix" gorm:"type:varchar(20);not null"`
	KeyHash          string       `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	SecretMasked     string       `json:"secretMasked" gorm:"type:varchar(30);not null"`
	Capabilities     []Capability `json:"capabilities" gorm:"serializer:json"`
	CreatedBy        uuid.UUID    `json:"createdBy" gorm:"type:uuid;not null"`
	IsActive         bool         `json:"isActive" gorm:"default:true;not null"`
	LastUsedAt       *time.Time   `json:"lastUsedAt,omitempty"`
	ExpiresAt        *time.Time   `json:"expiresAt,omitempty"`
	UsageCount       int64        `json:"usageCount" gorm:"default:0;not null"`
	RateLimitPerHour int          `json:"rateLimitPerHour" gorm:"default:100;not null"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// HasCapability reports whether the key grants the given capability.
func (k *ApiKey) HasCapability(c Capability) bool {
	for _, granted := range k.Capabilities {
		if granted == c {
			return true
		}
	}
	return false
}

// Expired reports whether the key's expiry, if any, has passed.
// Expiry is evaluated at check time and never written back.
func (k *ApiKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}

type CreateApiKeyInput struct {
	Name         string       `json:"name" binding:"required"`
	Capabilities []Capability `json:"capabilities"`
	TTLDays      int          `json:"ttlDays"`
}

// CreateApiKeyResponse carries the plaintext secret. It is returned exactly
// once, at issuance; every later read sees only SecretMasked.
type CreateApiKeyResponse struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	ApiKey       string       `json:"apiKey"`
	SecretMasked string       `json:"secretMasked"`
	Capabilities []Capability `json:"capabilities"`
	ExpiresAt    *time.Time   `json:"expiresAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}
