// handlers_batch.go - Stored batch result handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tindapay/dashboard/internal/models"
)

// BatchHandlerImpl implements the BatchHandler interface
type BatchHandlerImpl struct {
	results ResultStore
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(results ResultStore) BatchHandler {
	return &BatchHandlerImpl{results: results}
}

// HandleGetBatch returns a stored batch result
func (h *BatchHandlerImpl) HandleGetBatch(c echo.Context) error {
	batch, err := lookupBatch(h.results, c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, batch)
}

// HandleGetOutlets returns the outlet summary rows of a batch
func (h *BatchHandlerImpl) HandleGetOutlets(c echo.Context) error {
	batch, err := lookupBatch(h.results, c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, outletsResponse{
		Outlets:    batch.Outlets,
		Show:       batch.ShowOutletPanel,
		Formatting: batch.OutletFormatting,
	})
}

// HandleDeleteBatch drops a stored batch result before it expires
func (h *BatchHandlerImpl) HandleDeleteBatch(c echo.Context) error {
	id := c.Param("batchId")
	if !h.results.Delete(id) {
		return NewNotFoundError("batch", id)
	}
	return c.NoContent(http.StatusNoContent)
}

type outletsResponse struct {
	Outlets    []models.OutletRow  `json:"outlets"`
	Show       bool                `json:"show"`
	Formatting []models.FormatRule `json:"formatting"`
}

func lookupBatch(results ResultStore, c echo.Context) (*models.BatchResult, error) {
	id := c.Param("batchId")
	if id == "" {
		return nil, NewValidationError("batchId")
	}
	batch, ok := results.Get(id)
	if !ok {
		return nil, NewNotFoundError("batch", id)
	}
	return batch, nil
}

func lookupBlock(results ResultStore, c echo.Context) (*models.DisplayBlock, error) {
	batch, err := lookupBatch(results, c)
	if err != nil {
		return nil, err
	}
	id := c.Param("blockId")
	if id == "" {
		return nil, NewValidationError("blockId")
	}
	block, ok := batch.Block(id)
	if !ok {
		return nil, NewNotFoundError("table", id)
	}
	return block, nil
}
