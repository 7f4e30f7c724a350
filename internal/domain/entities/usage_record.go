package entities

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one immutable line per gated request, appended after the
// response has been sent. Records are never updated or deleted here.
type UsageRecord struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ApiKeyID   uuid.UUID `json:"apiKeyId" gorm:"type:uuid;not null;index"`
	TenantID   uuid.UUID `json:"tenantId" gorm:"type:uuid;not null;index"`
	Endpoint   string    `json:"endpoint" gorm:"type:varchar(255);not null"`
	Method     string    `json:"method" gorm:"type:varchar(10);not null"`
	StatusCode int       `json:"statusCode" gorm:"not null"`
	DurationMs int64     `json:"durationMs" gorm:"not null"`
	IPAddress  string    `json:"ipAddress" gorm:"type:varchar(45)"`
	UserAgent  string    `json:"userAgent" gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
}

// UsagePeriod is a supported analytics window.
type UsagePeriod string

const (
	UsagePeriod1h  UsagePeriod = "1h"
	UsagePeriod24h UsagePeriod = "24h"
	UsagePeriod7d  UsagePeriod = "7d"
	UsagePeriod30d UsagePeriod = "30d"
)

// Duration maps the period to its window length. ok is false for an
// unsupported period.
func (p UsagePeriod) Duration() (time.Duration, bool) {
	switch p {
	case UsagePeriod1h:
		return time.Hour, true
	case UsagePeriod24h:
		return 24 * time.Hour, true
	case UsagePeriod7d:
		return 7 * 24 * time.Hour, true
	case UsagePeriod30d:
		return 30 * 24 * time.Hour, true
	}
	return 0, false
}

// UsageStats is the aggregate view over one analytics window.
// AvgResponseTimeMs and DeltaAvgMs are nil when the corresponding window holds
// no records; they serialize as JSON null rather than zero.
type UsageStats struct {
	Period            UsagePeriod      `json:"period"`
	TotalRequests     int64            `json:"totalRequests"`
	ByEndpoint        map[string]int64 `json:"byEndpoint"`
	ByMethod          map[string]int64 `json:"byMethod"`
	ByStatusClass     map[string]int64 `json:"byStatusClass"`
	ByHour            map[string]int64 `json:"byHour"`
	AvgResponseTimeMs *float64         `json:"avgResponseTimeMs"`
	PrevAvgMs         *float64         `json:"prevAvgResponseTimeMs"`
	DeltaAvgMs        *float64         `json:"deltaAvgResponseTimeMs"`
}
