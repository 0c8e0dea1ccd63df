package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskflow/pkg/logger"
)

const (
	ownerKey        = "owner"
	RequestIDHeader = "X-Request-ID"
)

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
}

// Auth validates the HS256 bearer token and stores its subject as the record owner.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		auth := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if auth == "" || !strings.HasPrefix(auth, prefix) {
			logger.Debug(ctx, "Missing or invalid Authorization header")
			unauthorized(c)
			return
		}
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server misconfiguration"})
			return
		}
		tokenStr := strings.TrimSpace(auth[len(prefix):])
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			logger.Debug(ctx, "JWT parse failed", "error", err)
			unauthorized(c)
			return
		}
		if claims.Subject == "" {
			logger.Debug(ctx, "JWT without subject")
			unauthorized(c)
			return
		}
		SetOwner(c, claims.Subject)
		c.Next()
	}
}

// SetOwner records the owner of the request's records.
func SetOwner(c *gin.Context, owner string) {
	c.Set(ownerKey, owner)
}

// Owner returns the authenticated subject set by Auth.
func Owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}

// RequestID tags the request context with an id (taken from X-Request-ID or
// generated) and logs one line per request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx := logger.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()
		logger.Debug(ctx, "Request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
