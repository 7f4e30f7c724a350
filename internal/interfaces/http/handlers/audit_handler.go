package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/interfaces/http/middleware"
	"docstack.backend/internal/interfaces/http/response"
	"docstack.backend/internal/usecases"
	"docstack.backend/pkg/utils"
)

type AuditHandler struct {
	auditUsecase *usecases.AuditUsecase
}

func NewAuditHandler(auditUsecase *usecases.AuditUsecase) *AuditHandler {
	return &AuditHandler{auditUsecase: auditUsecase}
}

// ListAudit returns the tenant's audit page with the whole-match summary.
// Query: search, result (all|success|failed), action, start, end (RFC 3339),
// page, limit.
func (h *AuditHandler) ListAudit(c *gin.Context) {
	tenantID, exists := middleware.GetTenantID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("tenant not resolved"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := utils.GetPaginationParams(page, limit)

	filters := entities.AuditListFilters{
		Search: c.Query("search"),
		Result: entities.AuditResultFilter(c.DefaultQuery("result", string(entities.AuditResultAll))),
		Action: entities.AuditAction(c.Query("action")),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	switch filters.Result {
	case entities.AuditResultAll, entities.AuditResultSuccess, entities.AuditResultFailed:
	default:
		response.Error(c, domainerrors.Validation("result must be all, success or failed"))
		return
	}

	if startParam := c.Query("start"); startParam != "" {
		start, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			response.Error(c, domainerrors.Validation("start must be RFC 3339"))
			return
		}
		filters.Start = &start
	}
	if endParam := c.Query("end"); endParam != "" {
		end, err := time.Parse(time.RFC3339, endParam)
		if err != nil {
			response.Error(c, domainerrors.Validation("end must be RFC 3339"))
			return
		}
		filters.End = &end
	}
	if filters.Start != nil && filters.End != nil && filters.End.Before(*filters.Start) {
		response.Error(c, domainerrors.Validation("end must not precede start"))
		return
	}

	entries, summary, err := h.auditUsecase.List(c.Request.Context(), tenantID, filters)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Pages navigate the result partition, not the whole match.
	navigable := summary.Total
	switch filters.Result {
	case entities.AuditResultSuccess:
		navigable = summary.Success
	case entities.AuditResultFailed:
		navigable = summary.Failed
	}

	response.Success(c, http.StatusOK, gin.H{
		"entries": entries,
		"summary": summary,
		"meta":    utils.CalculateMeta(navigable, params.Page, params.Limit),
	})
}
