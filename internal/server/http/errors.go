package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// statusFor maps a service error to a status code and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrDuplicateUsername):
		return http.StatusBadRequest, "Username already exists"
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "Admin only"
	case errors.Is(err, common.ErrModelUnavailable), errors.Is(err, common.ErrArchiveDisabled):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, common.ErrStoreIO):
		return http.StatusInternalServerError, "storage error"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (s *HTTPServer) fail(c *gin.Context, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"path", c.FullPath(), "status", code, "error", err, "request_id", c.GetString(requestIDKey))
	}
	if code == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(code, ErrorResponse{Detail: msg})
}
