package handlers_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docstack.backend/internal/interfaces/http/middleware"
	"docstack.backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// sessionAs injects the context keys the JWT middleware would set.
func sessionAs(userID, tenantID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.TenantIDKey, tenantID)
		c.Set(middleware.UserEmailKey, "tester@acme.test")
		c.Set(middleware.UserRoleKey, "ADMIN")
		c.Next()
	}
}

// gatedAs injects the context keys the API key gate would set.
func gatedAs(tenantID, apiKeyID, createdBy uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, tenantID)
		c.Set(middleware.ApiKeyIDKey, apiKeyID)
		c.Set(middleware.ApiKeyNameKey, "test key")
		c.Set(middleware.ApiKeyCreatedByKey, createdBy)
		c.Next()
	}
}

// startedAgo injects the request-start stamp the logger middleware would
// set, shifted into the past so in-flight duration is measurable.
func startedAgo(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.RequestStartKey, time.Now().Add(-d))
		c.Next()
	}
}

// waitOn blocks until a detached bookkeeping write signals ch.
func waitOn(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
