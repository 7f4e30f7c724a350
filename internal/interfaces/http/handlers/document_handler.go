package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/interfaces/http/middleware"
	"docstack.backend/internal/interfaces/http/response"
	"docstack.backend/internal/usecases"
	"docstack.backend/pkg/utils"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 50 << 20

type DocumentHandler struct {
	documentUsecase *usecases.DocumentUsecase
	auditUsecase    *usecases.AuditUsecase
}

func NewDocumentHandler(documentUsecase *usecases.DocumentUsecase, auditUsecase *usecases.AuditUsecase) *DocumentHandler {
	return &DocumentHandler{
		documentUsecase: documentUsecase,
		auditUsecase:    auditUsecase,
	}
}

// UploadDocument accepts a multipart upload (field "file") behind the upload
// capability.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	tenantID, exists := middleware.GetTenantID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("tenant not resolved"))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, domainerrors.Validation("multipart field \"file\" is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, domainerrors.InternalError(err))
		return
	}
	defer file.Close()

	doc, err := h.documentUsecase.Upload(
		c.Request.Context(),
		tenantID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		h.uploadedVia(c),
		file,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit(c, entities.AuditActionDocumentUpload, doc.ID.String(), http.StatusCreated, map[string]string{
		"fileName":  doc.FileName,
		"sizeBytes": strconv.FormatInt(doc.SizeBytes, 10),
	})
	response.Success(c, http.StatusCreated, doc)
}

// ListDocuments pages through the tenant's documents behind the search
// capability.
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	tenantID, exists := middleware.GetTenantID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("tenant not resolved"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	docs, total, err := h.documentUsecase.List(c.Request.Context(), tenantID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit(c, entities.AuditActionDocumentList, "", http.StatusOK, nil)
	response.Success(c, http.StatusOK, gin.H{
		"documents": docs,
		"meta":      utils.CalculateMeta(total, params.Page, params.Limit),
	})
}

// DownloadDocument streams a document's bytes.
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("invalid document id"))
		return
	}

	tenantID, exists := middleware.GetTenantID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("tenant not resolved"))
		return
	}

	doc, rc, err := h.documentUsecase.Download(c.Request.Context(), tenantID, docID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	h.audit(c, entities.AuditActionDocumentDownload, doc.ID.String(), http.StatusOK, nil)
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", "attachment; filename=\""+doc.FileName+"\"")
	c.DataFromReader(http.StatusOK, doc.SizeBytes, contentType, rc, nil)
}

// DeleteDocument removes a document behind the delete capability.
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("invalid document id"))
		return
	}

	tenantID, exists := middleware.GetTenantID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("tenant not resolved"))
		return
	}

	if err := h.documentUsecase.Delete(c.Request.Context(), tenantID, docID); err != nil {
		response.Error(c, err)
		return
	}

	h.audit(c, entities.AuditActionDocumentDelete, docID.String(), http.StatusOK, nil)
	response.Success(c, http.StatusOK, gin.H{"message": "document deleted"})
}

// uploadedVia distinguishes which auth surface brought the request in.
func (h *DocumentHandler) uploadedVia(c *gin.Context) string {
	if _, ok := middleware.GetApiKeyID(c); ok {
		return "api_key"
	}
	return "session"
}

func (h *DocumentHandler) audit(c *gin.Context, action entities.AuditAction, resource string, status int, metadata map[string]string) {
	tenantID, _ := middleware.GetTenantID(c)
	entry := &entities.AuditEntry{
		TenantID:   tenantID,
		Action:     action,
		Resource:   resource,
		StatusCode: status,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Method:     c.Request.Method,
		Path:       c.FullPath(),
		DurationMs: auditDurationMs(c),
		Metadata:   metadata,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		entry.ActorUserID = null.StringFrom(userID.String())
	} else if createdBy, ok := middleware.GetApiKeyCreatedBy(c); ok {
		entry.ActorUserID = null.StringFrom(createdBy.String())
	}
	h.auditUsecase.Record(c.Request.Context(), entry)
}
