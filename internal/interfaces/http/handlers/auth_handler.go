package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/volatiletech/null/v8"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/interfaces/http/middleware"
	"docstack.backend/internal/interfaces/http/response"
	"docstack.backend/internal/usecases"
)

type AuthHandler struct {
	authUsecase  *usecases.AuthUsecase
	auditUsecase *usecases.AuditUsecase
}

func NewAuthHandler(authUsecase *usecases.AuthUsecase, auditUsecase *usecases.AuditUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		auditUsecase: auditUsecase,
	}
}

// Register creates a new user and workspace
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	resp, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.auditUsecase.Record(c.Request.Context(), &entities.AuditEntry{
		TenantID:    resp.User.TenantID,
		ActorUserID: null.StringFrom(resp.User.ID.String()),
		Action:      entities.AuditActionRegister,
		Resource:    resp.User.Email,
		StatusCode:  http.StatusCreated,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Method:      c.Request.Method,
		Path:        c.FullPath(),
		DurationMs:  auditDurationMs(c),
	})
	response.Success(c, http.StatusCreated, resp)
}

// Login authenticates a user
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.auditUsecase.Record(c.Request.Context(), &entities.AuditEntry{
		TenantID:    resp.User.TenantID,
		ActorUserID: null.StringFrom(resp.User.ID.String()),
		Action:      entities.AuditActionLogin,
		Resource:    resp.User.Email,
		StatusCode:  http.StatusOK,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Method:      c.Request.Method,
		Path:        c.FullPath(),
		DurationMs:  auditDurationMs(c),
	})
	response.Success(c, http.StatusOK, resp)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		response.Error(c, domainerrors.Unauthorized("user not authenticated"))
		return
	}

	user, err := h.authUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}
