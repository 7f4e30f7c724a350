package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AuditEntry rows are append-only.
type AuditEntry struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	ActorUserID null.String `gorm:"type:uuid"`
	Action      string      `gorm:"type:varchar(50);not null;index"`
	Resource    string      `gorm:"type:varchar(255)"`
	StatusCode  int         `gorm:"not null"`
	IPAddress   string      `gorm:"type:varchar(45)"`
	UserAgent   string      `gorm:"type:varchar(255)"`
	Method      string      `gorm:"type:varchar(10)"`
	Path        string      `gorm:"type:varchar(255)"`
	DurationMs  int64
	Metadata    map[string]string `gorm:"serializer:json"`
	CreatedAt   time.Time         `gorm:"index"`
}

func (AuditEntry) TableName() string { return "audit_entries" }
