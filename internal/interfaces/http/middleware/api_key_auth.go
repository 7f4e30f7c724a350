package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/infrastructure/metrics"
	"docstack.backend/internal/interfaces/http/response"
	"docstack.backend/internal/usecases"
	"docstack.backend/pkg/logger"
)

const (
	// ApiKeyHeader carries the plaintext secret on gated requests
	ApiKeyHeader = "X-API-Key"
	// ApiKeyIDKey is the context key for the authorized key's id
	ApiKeyIDKey = "apiKeyId"
	// ApiKeyNameKey is the context key for the authorized key's name
	ApiKeyNameKey = "apiKeyName"
	// ApiKeyCreatedByKey is the context key for the key's issuing user
	ApiKeyCreatedByKey = "apiKeyCreatedBy"
)

// bookkeepingTimeout bounds the detached post-response writes.
const bookkeepingTimeout = 10 * time.Second

// ApiKeyAuthMiddleware gates a route on a valid API key with the given
// capability. The authorization decision is synchronous; usage accounting
// happens after the response, off the request path, and can never change the
// response or its latency.
func ApiKeyAuthMiddleware(
	apiKeyUsecase *usecases.ApiKeyUsecase,
	usageUsecase *usecases.UsageUsecase,
	required entities.Capability,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader(ApiKeyHeader)

		key, err := apiKeyUsecase.Authorize(c.Request.Context(), secret, required)
		if err != nil {
			metrics.GateDecisionsTotal.WithLabelValues(gateOutcome(err)).Inc()
			response.Error(c, err)
			c.Abort()
			return
		}
		metrics.GateDecisionsTotal.WithLabelValues("allowed").Inc()

		c.Set(TenantIDKey, key.TenantID)
		c.Set(ApiKeyIDKey, key.ID)
		c.Set(ApiKeyNameKey, key.Name)
		c.Set(ApiKeyCreatedByKey, key.CreatedBy)

		start := time.Now()
		c.Next()

		record := &entities.UsageRecord{
			ApiKeyID:   key.ID,
			TenantID:   key.TenantID,
			Endpoint:   c.FullPath(),
			Method:     c.Request.Method,
			StatusCode: c.Writer.Status(),
			DurationMs: time.Since(start).Milliseconds(),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}
		go writeUsage(apiKeyUsecase, usageUsecase, record)
	}
}

// writeUsage runs detached from the request; it gets its own context and
// never lets a panic escape the goroutine.
func writeUsage(apiKeyUsecase *usecases.ApiKeyUsecase, usageUsecase *usecases.UsageUsecase, record *entities.UsageRecord) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(context.Background(), "usage bookkeeping panic", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), bookkeepingTimeout)
	defer cancel()

	if err := usageUsecase.Record(ctx, record); err != nil {
		metrics.UsageWritesTotal.WithLabelValues("error").Inc()
		logger.Warn(ctx, "usage record write failed",
			zap.String("api_key_id", record.ApiKeyID.String()),
			zap.Error(err),
		)
	} else {
		metrics.UsageWritesTotal.WithLabelValues("ok").Inc()
	}

	apiKeyUsecase.TouchUsage(ctx, record.ApiKeyID)
}

func gateOutcome(err error) string {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		return "error"
	}
	switch appErr.Code {
	case "MISSING_API_KEY":
		return "missing_key"
	case "INVALID_API_KEY":
		return "invalid_key"
	case "EXPIRED_API_KEY":
		return "expired_key"
	case "INSUFFICIENT_PERMISSION":
		return "forbidden"
	case "RATE_LIMITED":
		return "rate_limited"
	}
	return "error"
}

// GetApiKeyID gets the authorized API key id from context
func GetApiKeyID(c *gin.Context) (uuid.UUID, bool) {
	id, exists := c.Get(ApiKeyIDKey)
	if !exists {
		return uuid.Nil, false
	}
	return id.(uuid.UUID), true
}

// GetApiKeyCreatedBy gets the issuing user of the authorized key from context
func GetApiKeyCreatedBy(c *gin.Context) (uuid.UUID, bool) {
	id, exists := c.Get(ApiKeyCreatedByKey)
	if !exists {
		return uuid.Nil, false
	}
	return id.(uuid.UUID), true
}
