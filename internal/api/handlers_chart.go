// handlers_chart.go - Chart recompute and render handlers
package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tindapay/dashboard/internal/cells"
	"github.com/tindapay/dashboard/internal/chart"
	"github.com/tindapay/dashboard/internal/models"
)

// MIMEApplicationMsgpack selects a msgpack chart response
const MIMEApplicationMsgpack = "application/msgpack"

// ChartHandlerImpl implements the ChartHandler interface
type ChartHandlerImpl struct {
	processor BatchProcessor
	results   ResultStore
	width     int
	height    int
}

// NewChartHandler creates a new chart handler. Width and height size
// rendered images.
func NewChartHandler(processor BatchProcessor, results ResultStore, width, height int) ChartHandler {
	return &ChartHandlerImpl{
		processor: processor,
		results:   results,
		width:     width,
		height:    height,
	}
}

type chartRequest struct {
	// Indices are the visible rows; omit for all rows, [] for none.
	Indices        []int  `json:"indices"`
	SelectedColumn string `json:"selectedColumn"`
}

type statelessChartRequest struct {
	Table models.NamedTable `json:"table"`
	chartRequest
}

type chartResponse struct {
	Chart *models.ChartSpec `json:"chart" msgpack:"chart"`
}

// HandleBlockChart recomputes the chart of a stored table for the widget's
// current rows and selected column. A null chart means no chart applies.
func (h *ChartHandlerImpl) HandleBlockChart(c echo.Context) error {
	block, err := lookupBlock(h.results, c)
	if err != nil {
		return err
	}

	var req chartRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	spec, err := h.processor.Chart(block, chart.Query{Indices: req.Indices, SelectedColumn: req.SelectedColumn})
	if err != nil {
		return chartError(err)
	}
	return respondChart(c, spec)
}

// HandleChart charts a table sent in the request body without storing it
func (h *ChartHandlerImpl) HandleChart(c echo.Context) error {
	var req statelessChartRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if len(req.Table.Columns) == 0 {
		return NewValidationError("table.columns")
	}

	block := &models.DisplayBlock{Title: req.Table.Name, Table: req.Table}
	spec, err := h.processor.Chart(block, chart.Query{Indices: req.Indices, SelectedColumn: req.SelectedColumn})
	if err != nil {
		return chartError(err)
	}
	return respondChart(c, spec)
}

// HandleBlockChartSVG renders a stored table's chart as SVG
func (h *ChartHandlerImpl) HandleBlockChartSVG(c echo.Context) error {
	return h.renderBlock(c, chart.FormatSVG)
}

// HandleBlockChartPNG renders a stored table's chart as PNG
func (h *ChartHandlerImpl) HandleBlockChartPNG(c echo.Context) error {
	return h.renderBlock(c, chart.FormatPNG)
}

// renderBlock reads ?column= and ?indices=0,2 and writes the image. No chart
// is answered with 204.
func (h *ChartHandlerImpl) renderBlock(c echo.Context, format chart.Format) error {
	block, err := lookupBlock(h.results, c)
	if err != nil {
		return err
	}

	indices, err := parseIndices(c.QueryParam("indices"))
	if err != nil {
		return NewBadRequestError("invalid indices", err)
	}

	spec, err := h.processor.Chart(block, chart.Query{Indices: indices, SelectedColumn: c.QueryParam("column")})
	if err != nil {
		return chartError(err)
	}
	if spec == nil {
		return c.NoContent(http.StatusNoContent)
	}

	var buf bytes.Buffer
	if err := chart.Render(spec, format, h.width, h.height, &buf); err != nil {
		if errors.Is(err, chart.ErrEmptyChart) {
			return c.NoContent(http.StatusNoContent)
		}
		return NewInternalError("failed to render chart", err)
	}
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

func respondChart(c echo.Context, spec *models.ChartSpec) error {
	resp := chartResponse{Chart: spec}
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), MIMEApplicationMsgpack) {
		data, err := msgpack.Marshal(resp)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(http.StatusOK, MIMEApplicationMsgpack, data)
	}
	return c.JSON(http.StatusOK, resp)
}

func chartError(err error) error {
	var ce *cells.CoercionError
	if errors.As(err, &ce) {
		return NewChartError(err)
	}
	return NewInternalError("failed to build chart", err)
}

// parseIndices reads "0,2,5". Empty means all rows.
func parseIndices(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
