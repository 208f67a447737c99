package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the key used to store request ID in context
const RequestIDKey = "request_id"

// RequestIDHeader carries the invocation id back to local clients
const RequestIDHeader = "X-Request-ID"

// NewLocalRequestID synthesizes an invocation id for requests that did not
// come through Lambda: local-<unix millis>-<9 random hex chars>.
func NewLocalRequestID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("local-%d-%s", time.Now().UnixMilli(), suffix)
}

// RequestID middleware assigns every request a fresh invocation id.
// Client supplied X-Request-ID values are ignored so ids stay unique.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := NewLocalRequestID()

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or a new one when the
// middleware did not run
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	id := NewLocalRequestID()
	c.Set(RequestIDKey, id)
	return id
}
