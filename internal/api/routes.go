// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tindapay/dashboard/internal/logger"
	"github.com/tindapay/dashboard/internal/parser"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Processor      BatchProcessor
	Results        ResultStore
	Catalog        *parser.Catalog
	ChartWidth     int
	ChartHeight    int
	SuffixContract int
	Version        string
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Upload  UploadHandler
	Batch   BatchHandler
	Chart   ChartHandler
	Catalog CatalogHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	catalog := deps.Catalog
	if catalog == nil {
		catalog = parser.DefaultCatalog()
	}
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.SuffixContract),
		Upload:  NewUploadHandler(deps.Processor, deps.Results),
		Batch:   NewBatchHandler(deps.Results),
		Chart:   NewChartHandler(deps.Processor, deps.Results, deps.ChartWidth, deps.ChartHeight),
		Catalog: NewCatalogHandler(catalog),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Upload batches
	apiGroup.POST("/uploads", handlers.Upload.HandleUpload)
	apiGroup.POST("/uploads/json", handlers.Upload.HandleUploadJSON)

	// Stored results
	batchGroup := apiGroup.Group("/batches/:batchId")
	batchGroup.GET("", handlers.Batch.HandleGetBatch)
	batchGroup.DELETE("", handlers.Batch.HandleDeleteBatch)
	batchGroup.GET("/outlets", handlers.Batch.HandleGetOutlets)
	batchGroup.POST("/tables/:blockId/chart", handlers.Chart.HandleBlockChart)
	batchGroup.GET("/tables/:blockId/chart.svg", handlers.Chart.HandleBlockChartSVG)
	batchGroup.GET("/tables/:blockId/chart.png", handlers.Chart.HandleBlockChartPNG)

	// Stateless charting
	apiGroup.POST("/charts", handlers.Chart.HandleChart)

	apiGroup.GET("/catalog", handlers.Catalog.HandleGetCatalog)
}

// MiddlewareConfig holds the middleware settings taken from the app config
type MiddlewareConfig struct {
	BodyLimit            string
	RequestTimeout       time.Duration
	EnableRequestLogging bool
	EnableCORS           bool
	AllowOrigins         []string
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg MiddlewareConfig) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Log.Error().Err(err).Bytes("stack", stack).Str("path", c.Request().URL.Path).Msg("recovered from panic")
			return err
		},
	}))

	if cfg.EnableRequestLogging {
		e.Use(RequestLogger())
	}

	if cfg.RequestTimeout > 0 {
		e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout:      cfg.RequestTimeout,
			ErrorMessage: "Request timeout - processing took too long",
		}))
	}

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	if cfg.EnableCORS {
		origins := cfg.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
}

// RequestLogger logs each request through zerolog, skipping health checks.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Request().URL.Path, "/health")
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := logger.Log.Info()
			if v.Error != nil {
				ev = logger.Log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Str("ip", v.RemoteIP).
				Str("user-agent", v.UserAgent).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("Request processed")
			return nil
		},
	})
}

// ParseOrigins splits a comma separated origin list.
func ParseOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
