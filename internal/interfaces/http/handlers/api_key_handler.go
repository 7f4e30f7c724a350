package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/interfaces/http/middleware"
	"docstack.backend/internal/interfaces/http/response"
	"docstack.backend/internal/usecases"
)

type ApiKeyHandler struct {
	apiKeyUsecase *usecases.ApiKeyUsecase
	usageUsecase  *usecases.UsageUsecase
	auditUsecase  *usecases.AuditUsecase
}

func NewApiKeyHandler(
	apiKeyUsecase *usecases.ApiKeyUsecase,
	usageUsecase *usecases.UsageUsecase,
	auditUsecase *usecases.AuditUsecase,
) *ApiKeyHandler {
	return &ApiKeyHandler{
		apiKeyUsecase: apiKeyUsecase,
		usageUsecase:  usageUsecase,
		auditUsecase:  auditUsecase,
	}
}

// CreateApiKey issues a new API key. The plaintext secret appears in this
// response and nowhere else.
func (h *ApiKeyHandler) CreateApiKey(c *gin.Context) {
	var input entities.CreateApiKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}
	tenantID, exists := middleware.GetTenantID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("tenant not resolved"))
		return
	}

	resp, err := h.apiKeyUsecase.Issue(c.Request.Context(), tenantID, userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit(c, entities.AuditActionApiKeyCreate, resp.ID.String(), http.StatusCreated, map[string]string{
		"name": resp.Name,
	})
	response.Success(c, http.StatusCreated, resp)
}

// ListApiKeys lists the tenant's API keys, masked.
func (h *ApiKeyHandler) ListApiKeys(c *gin.Context) {
	tenantID, exists := middleware.GetTenantID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("tenant not resolved"))
		return
	}

	apiKeys, err := h.apiKeyUsecase.List(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"apiKeys": apiKeys})
}

// RevokeApiKey deactivates an API key
func (h *ApiKeyHandler) RevokeApiKey(c *gin.Context) {
	apiKeyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("invalid api key id"))
		return
	}

	tenantID, exists := middleware.GetTenantID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("tenant not resolved"))
		return
	}

	if err := h.apiKeyUsecase.Revoke(c.Request.Context(), tenantID, apiKeyID); err != nil {
		response.Error(c, err)
		return
	}

	h.audit(c, entities.AuditActionApiKeyRevoke, apiKeyID.String(), http.StatusOK, nil)
	response.Success(c, http.StatusOK, gin.H{"message": "API key revoked"})
}

// RegenerateApiKey rotates an API key and returns the replacement's
// plaintext secret, shown once.
func (h *ApiKeyHandler) RegenerateApiKey(c *gin.Context) {
	apiKeyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("invalid api key id"))
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}
	tenantID, exists := middleware.GetTenantID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("tenant not resolved"))
		return
	}

	resp, err := h.apiKeyUsecase.Regenerate(c.Request.Context(), tenantID, userID, apiKeyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit(c, entities.AuditActionApiKeyRegenerate, apiKeyID.String(), http.StatusOK, map[string]string{
		"replacementId": resp.ID.String(),
	})
	response.Success(c, http.StatusOK, resp)
}

// GetAnalytics aggregates usage for the tenant, optionally scoped to one key
// via ?keyId=, over ?period= (1h, 24h, 7d, 30d; default 24h).
func (h *ApiKeyHandler) GetAnalytics(c *gin.Context) {
	tenantID, exists := middleware.GetTenantID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("tenant not resolved"))
		return
	}

	var apiKeyID *uuid.UUID
	if keyParam := c.Query("keyId"); keyParam != "" {
		id, err := uuid.Parse(keyParam)
		if err != nil {
			response.Error(c, domainerrors.Validation("invalid keyId"))
			return
		}
		// The window query is tenant-scoped, so another tenant's key id
		// simply aggregates to an empty window.
		apiKeyID = &id
	}

	period := entities.UsagePeriod(c.DefaultQuery("period", string(entities.UsagePeriod24h)))

	stats, err := h.usageUsecase.Aggregate(c.Request.Context(), tenantID, apiKeyID, period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *ApiKeyHandler) audit(c *gin.Context, action entities.AuditAction, resource string, status int, metadata map[string]string) {
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
	}
	h.auditUsecase.Record(c.Request.Context(), entry)
}
