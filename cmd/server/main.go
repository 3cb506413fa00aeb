package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tindapay/dashboard/internal/api"
	"github.com/tindapay/dashboard/internal/chart"
	"github.com/tindapay/dashboard/internal/config"
	"github.com/tindapay/dashboard/internal/dashboard"
	"github.com/tindapay/dashboard/internal/logger"
	"github.com/tindapay/dashboard/internal/parser"
	"github.com/tindapay/dashboard/internal/session"
	"github.com/tindapay/dashboard/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, config.FileName)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Advanced.LogLevel)

	catalog := parser.DefaultCatalog()
	catalogSource := "built-in"
	if cfg.Advanced.CatalogPath != "" {
		catalog, err = parser.LoadCatalog(cfg.Advanced.CatalogPath)
		if err != nil {
			logger.Log.Fatal().Err(err).Str("path", cfg.Advanced.CatalogPath).Msg("failed to load layout catalog")
		}
		catalogSource = cfg.Advanced.CatalogPath
	}

	// The selector keys on the extractor's suffix numbering
	if err := chart.CheckContract(catalog.SuffixContract); err != nil {
		logger.Log.Fatal().Err(err).Int("catalog", catalog.SuffixContract).Int("selector", chart.SuffixContract).Msg("catalog incompatible with chart selector")
	}

	policy, err := dashboard.ParsePolicy(cfg.Processing.BatchErrorPolicy)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("invalid batch error policy")
	}

	maxFileSize, err := cfg.GetMaxFileSize()
	if err != nil {
		logger.Log.Fatal().Err(err).Str("value", cfg.Processing.MaxFileSize).Msg("invalid max file size")
	}

	svc := dashboard.NewService(
		parser.NewRegistry(catalog, maxFileSize),
		chart.NewSelector(cfg.Charts.InteractiveUsage),
		dashboard.WithPolicy(policy),
		dashboard.WithMaxFiles(cfg.Processing.MaxFilesPerBatch),
		dashboard.WithLogger(logger.Log),
	)

	// Batch results expire after the configured TTL
	results := session.NewManager(
		session.WithMaxAge(cfg.GetResultTTL()),
		session.WithMaxSessions(cfg.Processing.MaxStoredResults),
		session.WithLogger(logger.Log),
	)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	results.StartCleanup(cfg.GetCleanupInterval(), stopCleanup)

	// Check if running in embedded mode (frontend built into binary)
	embeddedMode := web.HasEmbeddedFiles()

	e := echo.New()
	e.HideBanner = true

	api.SetupMiddleware(e, api.MiddlewareConfig{
		BodyLimit:            cfg.Server.BodyLimit,
		RequestTimeout:       cfg.GetRequestTimeout(),
		EnableRequestLogging: cfg.Advanced.EnableRequestLogging,
		EnableCORS:           cfg.Server.EnableCORS,
		AllowOrigins:         api.ParseOrigins(cfg.Server.AllowOrigins),
	})

	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Processor:      svc,
		Results:        results,
		Catalog:        catalog,
		ChartWidth:     cfg.Charts.RenderWidth,
		ChartHeight:    cfg.Charts.RenderHeight,
		SuffixContract: catalog.SuffixContract,
		Version:        Version,
	}))

	// Register embedded frontend if available
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			logger.Log.Warn().Err(err).Msg("failed to register static routes")
		} else {
			logger.Log.Info().Msg("serving embedded frontend from binary")
		}
	}

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           TindaPay Dashboard Server                       ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Policy:     %-45s║\n", policy)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Catalog:   %-46s║\n", catalogSource)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	if embeddedMode {
		fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
	}

	if err := e.StartServer(s); err != nil && err != http.ErrServerClosed {
		logger.Log.Fatal().Err(err).Msg("server stopped")
	}
}
