package models

import (
	"time"

	"github.com/google/uuid"
)

type ApiKey struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(100);not null"`
	KeyPrefix        string    `gorm:"type:varchar(20);not null"`
	KeyHash          string    `gorm:"type:varchar(64);uniqueIndex;not null"` // SHA256 of the full secret
	SecretMasked     string    `gorm:"type:varchar(30);not null"`             // "dk_live_ab12…89ef"
	Capabilities     []string  `gorm:"serializer:json;not null"`
	CreatedBy        uuid.UUID `gorm:"type:uuid;not null"`
	IsActive         bool      `gorm:"default:true;not null"`
	LastUsedAt       *time.Time
	ExpiresAt        *time.Time
	UsageCount       int64 `gorm:"default:0;not null"`
	RateLimitPerHour int   `gorm:"default:100;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ApiKey) TableName() string { return "api_keys" }
