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

type ChatHandler struct {
	chatUsecase  *usecases.ChatUsecase
	auditUsecase *usecases.AuditUsecase
}

func NewChatHandler(chatUsecase *usecases.ChatUsecase, auditUsecase *usecases.AuditUsecase) *ChatHandler {
	return &ChatHandler{
		chatUsecase:  chatUsecase,
		auditUsecase: auditUsecase,
	}
}

// SendChat forwards a conversation to the model backend. The route sits
// behind the API key gate with the chat capability.
func (h *ChatHandler) SendChat(c *gin.Context) {
	var input usecases.ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.Validation(err.Error()))
		return
	}

	reply, err := h.chatUsecase.Send(c.Request.Context(), &input)
	if err != nil {
		h.audit(c, auditStatusFor(err))
		response.Error(c, err)
		return
	}

	h.audit(c, http.StatusOK)
	response.Success(c, http.StatusOK, reply)
}

func (h *ChatHandler) audit(c *gin.Context, status int) {
	tenantID, _ := middleware.GetTenantID(c)
	entry := &entities.AuditEntry{
		TenantID:   tenantID,
		Action:     entities.AuditActionChatSend,
		StatusCode: status,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Method:     c.Request.Method,
		Path:       c.FullPath(),
		DurationMs: auditDurationMs(c),
	}
	if keyName, ok := c.Get(middleware.ApiKeyNameKey); ok {
		entry.Metadata = map[string]string{"apiKeyName": keyName.(string)}
	}
	if createdBy, ok := middleware.GetApiKeyCreatedBy(c); ok {
		entry.ActorUserID = null.StringFrom(createdBy.String())
	}
	h.auditUsecase.Record(c.Request.Context(), entry)
}
