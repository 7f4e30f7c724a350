package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord rows are append-only; there is no update or delete path.
type UsageRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ApiKeyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Endpoint   string    `gorm:"type:varchar(255);not null"`
	Method     string    `gorm:"type:varchar(10);not null"`
	StatusCode int       `gorm:"not null"`
	DurationMs int64     `gorm:"not null"`
	IPAddress  string    `gorm:"type:varchar(45)"`
	UserAgent  string    `gorm:"type:varchar(255)"`
	CreatedAt  time.Time `gorm:"index"`
}

func (UsageRecord) TableName() string { return "usage_records" }
