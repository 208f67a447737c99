package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"mirror-api/internal/config"
	"mirror-api/pkg/lambda"
)

// RouteFunc answers one matched route. A returned *HTTPError is rendered as
// an ErrorPayload with its status; any other error becomes a 500.
type RouteFunc func(ctx context.Context, req *lambda.Request, requestID string) (*lambda.Response, error)

type route struct {
	method string // "" matches any method
	path   string // "" matches any path
	handle RouteFunc
}

func (r route) matches(req *lambda.Request) bool {
	return (r.method == "" || r.method == req.Method) && (r.path == "" || r.path == req.Path)
}

// Handler is the transport-agnostic API handler shared by the Lambda and local entrypoints.
// It is safe for concurrent use once all routes are registered.
type Handler struct {
	region  string
	service string
	log     logrus.FieldLogger
	now     func() time.Time
	routes  []route
}

// Option configures a Handler
type Option func(*Handler)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler creates a handler serving the health route and CORS preflight
func NewHandler(cfg *config.Config, log logrus.FieldLogger, opts ...Option) *Handler {
	h := &Handler{
		region:  config.DefaultRegion,
		service: config.DefaultServiceName,
		log:     log,
		now:     time.Now,
	}
	if cfg != nil {
		if cfg.Region != "" {
			h.region = cfg.Region
		}
		if cfg.ServiceName != "" {
			h.service = cfg.ServiceName
		}
	}
	if h.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		h.log = l
	}
	for _, opt := range opts {
		opt(h)
	}

	h.routes = []route{
		{method: http.MethodGet, path: "/health", handle: h.health},
		{method: http.MethodOptions, handle: h.preflight},
	}

	return h
}

// Route registers an additional route. Routes are matched in registration
// order after health and preflight; register before serving.
func (h *Handler) Route(method, path string, fn RouteFunc) {
	h.routes = append(h.routes, route{method: method, path: path, handle: fn})
}

// Func returns Handle as a lambda.HandlerFunc
func (h *Handler) Func() lambda.HandlerFunc {
	return h.Handle
}

// Handle answers one request. It always returns a response: failures and
// panics are logged and converted to a 500 without leaking the cause.
func (h *Handler) Handle(ctx context.Context, req *lambda.Request, requestID string) (resp *lambda.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = h.internalError(requestID, fmt.Errorf("panic: %v", r))
		}
	}()

	if req == nil {
		return h.internalError(requestID, errors.New("nil request"))
	}

	userAgent := req.Header("User-Agent")
	if userAgent == "" {
		userAgent = "Unknown"
	}

	h.log.WithFields(logrus.Fields{
		"timestamp": formatTimestamp(h.now()),
		"path":      req.Path,
		"method":    req.Method,
		"requestId": requestID,
		"userAgent": userAgent,
		"sourceIp":  req.SourceIP,
	}).Info("Request received")

	resp, err := h.dispatch(ctx, req, requestID)
	if err == nil && resp == nil {
		err = errors.New("route returned no response")
	}
	if err != nil {
		return h.errorToResponse(req, requestID, err)
	}

	return resp
}

func (h *Handler) dispatch(ctx context.Context, req *lambda.Request, requestID string) (*lambda.Response, error) {
	for _, r := range h.routes {
		if r.matches(req) {
			return r.handle(ctx, req, requestID)
		}
	}
	return nil, routeNotFound(req.Method, req.Path)
}

func (h *Handler) errorToResponse(req *lambda.Request, requestID string, err error) *lambda.Response {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode >= http.StatusInternalServerError {
		return h.internalError(requestID, err)
	}

	if isNotFoundError(err) {
		h.log.WithFields(logrus.Fields{
			"path":      req.Path,
			"method":    req.Method,
			"requestId": requestID,
		}).Info("Route not found")
	} else {
		h.log.WithFields(logrus.Fields{
			"status":    httpErr.StatusCode,
			"requestId": requestID,
			"error":     err.Error(),
		}).Warn("Request rejected")
	}

	return errorResponse(httpErr.StatusCode, httpErr.Category, httpErr.Message, requestID)
}

func (h *Handler) internalError(requestID string, err error) *lambda.Response {
	h.log.WithFields(logrus.Fields{
		"error":     err.Error(),
		"requestId": requestID,
	}).Error("Error processing request")

	return InternalErrorResponse(requestID)
}

// preflight answers OPTIONS for any path
func (h *Handler) preflight(_ context.Context, _ *lambda.Request, _ string) (*lambda.Response, error) {
	return emptyResponse(http.StatusOK), nil
}

// formatTimestamp renders t as ISO-8601 UTC with millisecond precision
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
