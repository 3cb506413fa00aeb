// handlers_catalog.go - Layout catalog handler
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tindapay/dashboard/internal/chart"
	"github.com/tindapay/dashboard/internal/parser"
)

// CatalogHandlerImpl implements the CatalogHandler interface
type CatalogHandlerImpl struct {
	catalog *parser.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *parser.Catalog) CatalogHandler {
	return &CatalogHandlerImpl{catalog: catalog}
}

// HandleGetCatalog returns the workbook layouts and the ordered chart signatures
func (h *CatalogHandlerImpl) HandleGetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":        h.catalog.Version,
		"suffixContract": h.catalog.SuffixContract,
		"layouts":        h.catalog.Layouts,
		"signatures":     chart.Signatures(),
	})
}
