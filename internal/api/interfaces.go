// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/tindapay/dashboard/internal/chart"
	"github.com/tindapay/dashboard/internal/models"
)

// UploadHandler handles upload batches
type UploadHandler interface {
	HandleUpload(c echo.Context) error
	HandleUploadJSON(c echo.Context) error
}

// BatchHandler serves stored batch results
type BatchHandler interface {
	HandleGetBatch(c echo.Context) error
	HandleGetOutlets(c echo.Context) error
	HandleDeleteBatch(c echo.Context) error
}

// ChartHandler recomputes and renders charts
type ChartHandler interface {
	HandleBlockChart(c echo.Context) error
	HandleBlockChartSVG(c echo.Context) error
	HandleBlockChartPNG(c echo.Context) error
	HandleChart(c echo.Context) error
}

// CatalogHandler describes the extraction layouts and chart signatures
type CatalogHandler interface {
	HandleGetCatalog(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// BatchProcessor turns uploads into batch results and charts.
// This allows mocking in tests
type BatchProcessor interface {
	Process(ctx context.Context, files []models.UploadedFile) (*models.BatchResult, error)
	Chart(block *models.DisplayBlock, q chart.Query) (*models.ChartSpec, error)
}

// ResultStore keeps batch results addressable by ID
type ResultStore interface {
	Put(result *models.BatchResult)
	Get(id string) (*models.BatchResult, bool)
	Delete(id string) bool
}
