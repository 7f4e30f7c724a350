package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/interfaces/http/middleware"
)

// auditDurationMs reports how long the request has been in flight, from the
// arrival time stamped by the logger middleware. Zero when the stamp is
// absent.
func auditDurationMs(c *gin.Context) int64 {
	v, ok := c.Get(middleware.RequestStartKey)
	if !ok {
		return 0
	}
	start, ok := v.(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start).Milliseconds()
}

// auditStatusFor maps a failed operation to the status the client will be
// sent, so the log's success/failed partition matches what the caller saw.
func auditStatusFor(err error) int {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
