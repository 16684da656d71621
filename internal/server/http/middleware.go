package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	usernameKey  = "username"
	roleKey      = "role"
)

// requestLogger tags every request with an id and logs it once it is done.
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", id,
		)
	}
}

// cors allows any origin, method and header. Preflight requests end here.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := c.GetHeader("Origin"); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		} else {
			h.Set("Access-Control-Allow-Origin", "*")
		}

		if c.Request.Method == http.MethodOptions {
			methods := c.GetHeader("Access-Control-Request-Method")
			if methods == "" {
				methods = "GET, POST, OPTIONS"
			}
			h.Set("Access-Control-Allow-Methods", methods)
			if headers := c.GetHeader("Access-Control-Request-Headers"); headers != "" {
				h.Set("Access-Control-Allow-Headers", headers)
			} else {
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}
			h.Set("Access-Control-Max-Age", "600")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// bearerToken accepts "Bearer <token>" and, like the first clients did, a
// bare token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, rest, found := strings.Cut(header, " ")
	if found && strings.EqualFold(scheme, common.TokenType) {
		return strings.TrimSpace(rest)
	}
	if found {
		return ""
	}
	return header
}

// authenticate verifies the access token and stores the caller in the context.
func (s *HTTPServer) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if token == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Detail: "Not authenticated"})
			return
		}

		id, err := s.tokens.Verify(token)
		if err != nil {
			s.logger.Warn(c.Request.Context(), "token rejected", "error", err, "request_id", c.GetString(requestIDKey))
			s.fail(c, err)
			return
		}

		c.Set(usernameKey, id.Subject)
		c.Set(roleKey, id.Role)
		c.Next()
	}
}

// requireRole lets the request through only for the given roles.
func (s *HTTPServer) requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(roleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		s.fail(c, fmt.Errorf("%w: role %q", common.ErrForbidden, role))
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(usernameKey)
}
