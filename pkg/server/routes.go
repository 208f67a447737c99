package server

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mirror-api/internal/adapters/local"
	"mirror-api/internal/config"
	"mirror-api/internal/middleware"
	"mirror-api/pkg/lambda"
)

// NewRouter builds the local gin engine serving the container's handler
func NewRouter(c *Container) *gin.Engine {
	router := gin.New()

	// Unmatched paths must reach the handler's 404, not a gin redirect or 405
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = false
	_ = router.SetTrustedProxies(nil)

	SetupMiddleware(router, c.Config, c.Logger)
	SetupRoutes(router, c.Handler.Func(), c.Logger)

	return router
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg *config.Config, log logrus.FieldLogger) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.FrontendOrigin))
	router.Use(middleware.RequestSizeLimit(cfg.Limits.MaxBodyBytes))
	router.Use(middleware.RateLimiter(log, cfg.Limits.RateLimitRPS, cfg.Limits.RateLimitBurst))
}

// SetupRoutes routes every request through the adapted handler
func SetupRoutes(router *gin.Engine, fn lambda.HandlerFunc, log logrus.FieldLogger) {
	h := local.Adapt(fn, log)

	router.GET("/health", h)
	router.OPTIONS("/*path", h) // CORS preflight for any path
	router.NoRoute(h)
}
