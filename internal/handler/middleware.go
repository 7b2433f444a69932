package handler

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/peterkingsmesn/jig-backend/internal/errors"
	"github.com/peterkingsmesn/jig-backend/internal/model"
	"github.com/peterkingsmesn/jig-backend/internal/service"
)

const authUserKey = "auth_user"

// extractBearer returns the token from a well-formed Authorization header.
// The scheme must be exactly "Bearer" followed by a single space; anything
// else (missing scheme, lowercase "bearer", extra whitespace) is treated as
// no token at all, not as a malformed token.
func extractBearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" || strings.TrimSpace(token) != token {
		return "", false
	}
	return token, true
}

// RequireAuth authenticates the bearer token and stores the caller identity
// in the request context. Requests without a valid token are terminated with
// a 401 envelope.
func RequireAuth(svc *service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		tokenString, ok := extractBearer(c)
		if !ok {
			abortError(c, log, apperrors.NoToken())
			return
		}

		user, err := svc.Verify(tokenString)
		if err != nil {
			abortError(c, log, err)
			return
		}

		c.Set(authUserKey, &user)
		c.Next()
	}
}

// RequireRole terminates the request with 403 unless the authenticated
// caller holds one of the allowed roles. It composes with RequireAuth, which
// must run first.
func RequireRole(log zerolog.Logger, allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		user := GetAuthUser(c)
		if user == nil {
			abortError(c, log, apperrors.NoToken())
			return
		}

		for _, role := range allowed {
			if user.Role == role {
				c.Next()
				return
			}
		}
		abortError(c, log, apperrors.Forbidden())
	}
}

// GetAuthUser returns the identity stored by RequireAuth, or nil.
func GetAuthUser(c *gin.Context) *model.AuthenticatedUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthenticatedUser); ok {
			return user
		}
	}
	return nil
}

// RequestID injects a unique X-Request-Id header into every request/response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// Recovery turns panics into the generic 500 envelope and logs the stack.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Str("method", c.Request.Method).
					Str("client_ip", c.ClientIP()).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				appErr := apperrors.Internal(nil)
				c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToEnvelope(c.Request.URL.Path))
			}
		}()
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("request")
	}
}

// CORS allows the configured origins. Preflight requests short-circuit.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
