package entities

import (
	"time"

	"github.com/google/uuid"
)

// Document is the metadata row for an uploaded document. The bytes live in
// the blob store collaborator; only the pointer is kept here.
type Document struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID  `json:"tenantId" gorm:"type:uuid;not null;index"`
	FileName    string     `json:"fileName" gorm:"type:varchar(255);not null"`
	ContentType string     `json:"contentType" gorm:"type:varchar(100)"`
	SizeBytes   int64      `json:"sizeBytes"`
	BlobKey     string     `json:"-" gorm:"type:varchar(255);not null"`
	UploadedVia string     `json:"uploadedVia" gorm:"type:varchar(20)"` // "api_key" or "session"
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"-" gorm:"index"`
}
