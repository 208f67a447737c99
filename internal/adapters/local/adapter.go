package local

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mirror-api/internal/handlers"
	"mirror-api/internal/middleware"
	"mirror-api/pkg/lambda"
)

// Adapt turns a lambda.HandlerFunc into a gin handler so the local listener
// answers exactly like the Lambda entrypoint. The response is completed once,
// even when the handler panics.
func Adapt(fn lambda.HandlerFunc, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := middleware.GetRequestID(c)

		fail := func(cause any) {
			log.WithFields(logrus.Fields{
				"error":     fmt.Sprint(cause),
				"requestId": requestID,
				"path":      c.Request.URL.Path,
			}).Error("Error in Lambda handler")

			if !c.Writer.Written() {
				writeResponse(c, handlers.InternalErrorResponse(requestID))
			}
		}

		defer func() {
			if r := recover(); r != nil {
				fail(r)
			}
		}()

		req, err := RequestFromHTTP(c.Request, c.ClientIP())
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, handlers.ErrorPayload{
					Error:     middleware.CategoryTooLarge,
					Message:   fmt.Sprintf("Request body exceeds maximum allowed size (%d bytes)", tooLarge.Limit),
					RequestID: requestID,
				})
				return
			}
			fail(fmt.Errorf("read request body: %w", err))
			return
		}

		resp := fn(c.Request.Context(), req, requestID)
		switch {
		case resp == nil:
			fail("handler returned nil response")
		case resp.StatusCode != 0 && (resp.StatusCode < 100 || resp.StatusCode > 599):
			fail(fmt.Sprintf("invalid status code %d", resp.StatusCode))
		default:
			writeResponse(c, resp)
		}
	}
}

// writeResponse copies headers, then status and body, onto the gin response
func writeResponse(c *gin.Context, resp *lambda.Response) {
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	for name, value := range resp.Headers {
		c.Writer.Header().Set(name, value)
	}

	c.Status(status)
	c.Writer.WriteHeaderNow()
	if resp.Body != "" {
		_, _ = c.Writer.WriteString(resp.Body)
	}
	c.Abort()
}
