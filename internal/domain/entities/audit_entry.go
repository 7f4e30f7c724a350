package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AuditAction names a business action in the fixed audit catalogue.
type AuditAction string

const (
	AuditActionLogin            AuditAction = "LOGIN"
	AuditActionRegister         AuditAction = "REGISTER"
	AuditActionApiKeyCreate     AuditAction = "API_KEY_CREATE"
	AuditActionApiKeyRevoke     AuditAction = "API_KEY_REVOKE"
	AuditActionApiKeyRegenerate AuditAction = "API_KEY_REGENERATE"
	AuditActionChatSend         AuditAction = "CHAT_SEND"
	AuditActionDocumentUpload   AuditAction = "DOCUMENT_UPLOAD"
	AuditActionDocumentList     AuditAction = "DOCUMENT_LIST"
	AuditActionDocumentDownload AuditAction = "DOCUMENT_DOWNLOAD"
	AuditActionDocumentDelete   AuditAction = "DOCUMENT_DELETE"
)

// AuditEntry is one immutable line per business action, for both
// human-authenticated and API-key-authenticated callers.
type AuditEntry struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID         `json:"tenantId" gorm:"type:uuid;not null;index"`
	ActorUserID null.String       `json:"actorUserId,omitempty" gorm:"type:uuid"`
	Action      AuditAction       `json:"action" gorm:"type:varchar(50);not null;index"`
	Resource    string            `json:"resource" gorm:"type:varchar(255)"`
	StatusCode  int               `json:"statusCode" gorm:"not null"`
	IPAddress   string            `json:"ipAddress" gorm:"type:varchar(45)"`
	UserAgent   string            `json:"userAgent" gorm:"type:varchar(255)"`
	Method      string            `json:"method" gorm:"type:varchar(10)"`
	Path        string            `json:"path" gorm:"type:varchar(255)"`
	DurationMs  int64             `json:"durationMs"`
	Metadata    map[string]string `json:"metadata,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time         `json:"createdAt" gorm:"index"`

	// Enrichment from the user directory, populated on read, never stored.
	ActorName  string `json:"actorName,omitempty" gorm:"-"`
	ActorEmail string `json:"actorEmail,omitempty" gorm:"-"`
}

// Succeeded partitions entries the way the audit list filter does.
func (e *AuditEntry) Succeeded() bool {
	return e.StatusCode < 400
}

// AuditResultFilter selects the success/failed partition of the audit log.
type AuditResultFilter string

const (
	AuditResultAll     AuditResultFilter = "all"
	AuditResultSuccess AuditResultFilter = "success"
	AuditResultFailed  AuditResultFilter = "failed"
)

// AuditListFilters narrows an audit retrieval query.
type AuditListFilters struct {
	Search string
	Result AuditResultFilter
	Action AuditAction
	Start  *time.Time
	End    *time.Time
	Page   int
	Limit  int
}

// AuditSummary reports partition counts for the unpaginated filter match.
type AuditSummary struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
}
