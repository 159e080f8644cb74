package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oggyb/lunchmatch/internal/auth"
)

const (
	requestIDHeader = "X-Request-ID"
	identityKey     = "identity"
)

// RequestLogger assigns a request id and logs one line per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Header(requestIDHeader, reqID)

		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", reqID,
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "err", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("http request", attrs...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Info("http request", attrs...)
		default:
			log.Debug("http request", attrs...)
		}
	}
}

// AuthMiddleware validates the bearer token and stores the caller identity
// both on the gin context and on the request context.
func AuthMiddleware(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}
		id, err := issuer.Parse(header)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func identity(c *gin.Context) auth.Identity {
	id, _ := c.MustGet(identityKey).(auth.Identity)
	return id
}
