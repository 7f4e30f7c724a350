package usecases

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/domain/repositories"
	"docstack.backend/internal/infrastructure/storage"
	"docstack.backend/pkg/logger"
)

// DocumentUsecase owns document metadata plus the blob bytes behind it.
type DocumentUsecase struct {
	documentRepo repositories.DocumentRepository
	blobs        storage.BlobStore
}

// NewDocumentUsecase creates a new document usecase
func NewDocumentUsecase(documentRepo repositories.DocumentRepository, blobs storage.BlobStore) *DocumentUsecase {
	return &DocumentUsecase{
		documentRepo: documentRepo,
		blobs:        blobs,
	}
}

// Upload streams the bytes into the blob store and records the metadata row.
// uploadedVia notes which auth surface brought the file in.
func (u *DocumentUsecase) Upload(ctx context.Context, tenantID uuid.UUID, fileName, contentType, uploadedVia string, r io.Reader) (*entities.Document, error) {
	if fileName == "" {
		return nil, domainerrors.Validation("file name is required")
	}

	blobKey := uuid.New().String()
	size, err := u.blobs.Put(ctx, blobKey, r)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	doc := &entities.Document{
		TenantID:    tenantID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		BlobKey:     blobKey,
		UploadedVia: uploadedVia,
	}
	if err := u.documentRepo.Create(ctx, doc); err != nil {
		// Orphan blobs are cheaper than missing metadata; clean up best-effort.
		if delErr := u.blobs.Delete(ctx, blobKey); delErr != nil {
			logger.Warn(ctx, "orphan blob cleanup failed", zap.String("blob_key", blobKey), zap.Error(delErr))
		}
		return nil, domainerrors.Persistence(err)
	}
	return doc, nil
}

// List returns a page of the tenant's documents and the unpaginated total.
func (u *DocumentUsecase) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*entities.Document, int64, error) {
	docs, total, err := u.documentRepo.FindByTenantID(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, 0, domainerrors.Persistence(err)
	}
	return docs, total, nil
}

// Download opens the blob behind a document.
func (u *DocumentUsecase) Download(ctx context.Context, tenantID, id uuid.UUID) (*entities.Document, io.ReadCloser, error) {
	doc, err := u.documentRepo.GetByID(ctx, id, tenantID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil, domainerrors.NotFound("document not found")
		}
		return nil, nil, domainerrors.Persistence(err)
	}
	rc, err := u.blobs.Get(ctx, doc.BlobKey)
	if err != nil {
		return nil, nil, domainerrors.InternalError(err)
	}
	return doc, rc, nil
}

// Delete soft-deletes the metadata row and drops the blob. The metadata row
// survives as a tombstone; the bytes do not.
func (u *DocumentUsecase) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	doc, err := u.documentRepo.GetByID(ctx, id, tenantID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("document not found")
		}
		return domainerrors.Persistence(err)
	}
	if err := u.documentRepo.SoftDelete(ctx, id, tenantID); err != nil {
		return domainerrors.Persistence(err)
	}
	if err := u.blobs.Delete(ctx, doc.BlobKey); err != nil {
		logger.Warn(ctx, "blob delete failed", zap.String("blob_key", doc.BlobKey), zap.Error(err))
	}
	return nil
}
