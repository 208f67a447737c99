package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"mirror-api/internal/handlers"
)

// Categories for errors produced by the local listener itself
const (
	CategoryTooLarge        = "Payload Too Large"
	CategoryTooManyRequests = "Too Many Requests"
)

// RateLimiter implements rate limiting middleware. A non-positive rate disables it.
func RateLimiter(log logrus.FieldLogger, requestsPerSecond float64, burstSize int) gin.HandlerFunc {
	if requestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			requestID := GetRequestID(c)

			log.WithFields(logrus.Fields{
				"sourceIp":  c.ClientIP(),
				"path":      c.Request.URL.Path,
				"userAgent": c.Request.UserAgent(),
				"requestId": requestID,
			}).Warn("Rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, handlers.ErrorPayload{
				Error:     CategoryTooManyRequests,
				Message:   fmt.Sprintf("Too many requests. Limit: %.1f requests per second", requestsPerSecond),
				RequestID: requestID,
			})
			return
		}
		c.Next()
	}
}

// RequestSizeLimit limits the size of request bodies
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, handlers.ErrorPayload{
				Error:     CategoryTooLarge,
				Message:   fmt.Sprintf("Request body size (%d bytes) exceeds maximum allowed size (%d bytes)", c.Request.ContentLength, maxSize),
				RequestID: GetRequestID(c),
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
