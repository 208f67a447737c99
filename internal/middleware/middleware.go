package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CORS scopes cross-origin access to the local frontend origin. It only
// decorates responses; preflight is answered by the API handler so the
// local listener behaves like API Gateway. Headers set by the handler
// replace these on adapted routes.
func CORS(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)

		if origin := c.GetHeader("Origin"); allowedOrigin != "" && origin == allowedOrigin {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Next()
	}
}

// RequestLogger middleware for logging HTTP requests
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		fields := logrus.Fields{
			"timestamp": param.TimeStamp.Format(time.RFC3339),
			"method":    param.Method,
			"path":      param.Path,
			"status":    param.StatusCode,
			"latency":   param.Latency.String(),
			"sourceIp":  param.ClientIP,
			"userAgent": param.Request.UserAgent(),
			"requestId": param.Keys[RequestIDKey],
		}

		entry := log.WithFields(fields)
		switch {
		case param.StatusCode >= 500:
			entry.Error("HTTP Request")
		case param.StatusCode >= 400:
			entry.Warn("HTTP Request")
		default:
			entry.Info("HTTP Request")
		}

		return ""
	})
}
