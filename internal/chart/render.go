package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/tindapay/dashboard/internal/cells"
	"github.com/tindapay/dashboard/internal/models"
)

// Format is an image encoding for rendered charts.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 450
)

// ErrEmptyChart is returned when a spec has nothing to draw.
var ErrEmptyChart = errors.New("chart has no data")

// ParseFormat accepts "svg" or "png" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unknown chart format %q", s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() gochart.RendererProvider {
	if f == FormatPNG {
		return gochart.PNG
	}
	return gochart.SVG
}

// Render draws a chart spec. Zero width or height uses the defaults.
func Render(spec *models.ChartSpec, format Format, width, height int, w io.Writer) error {
	if spec == nil || len(spec.Series) == 0 || len(spec.Series[0].Points) == 0 {
		return ErrEmptyChart
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	switch spec.Kind {
	case models.ChartLine:
		return renderLine(spec, format, width, height, w)
	case models.ChartStackedBar:
		return renderStackedBar(spec, format, width, height, w)
	}
	return fmt.Errorf("unsupported chart kind %q", spec.Kind)
}

// categoryTicks labels positions 0..n-1. Unlabelled ticks at -0.5 and n-0.5
// pad the axis; go-chart takes the x range from the ticks when they are set.
func categoryTicks(labels []string) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, len(labels)+2)
	ticks = append(ticks, gochart.Tick{Value: -0.5})
	for i, l := range labels {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: l})
	}
	return append(ticks, gochart.Tick{Value: float64(len(labels)) - 0.5})
}

// renderLine places x categories at 0..n-1 and labels them with ticks, so
// week numbers and month names plot the same way.
func renderLine(spec *models.ChartSpec, format Format, width, height int, w io.Writer) error {
	points := spec.Series[0].Points
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	labels := make([]string, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Y
		labels[i] = cells.String(p.X)
	}

	minY, maxY := 0.0, 0.0
	for _, y := range ys {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	if maxY == minY {
		maxY = minY + 1
	}

	c := gochart.Chart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:  spec.XAxisTitle,
			Ticks: categoryTicks(labels),
		},
		YAxis: gochart.YAxis{
			Name:  spec.YAxisTitle,
			Range: &gochart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    spec.Series[0].Name,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: gochart.ColorBlue,
					StrokeWidth: 2,
					DotColor:    gochart.ColorBlue,
					DotWidth:    3,
				},
			},
		},
	}
	return c.Render(format.provider(), w)
}

// renderStackedBar draws one bar per x category with one segment per series.
// Segments stack on a shared value axis, positives upward from zero and
// negatives downward.
func renderStackedBar(spec *models.ChartSpec, format Format, width, height int, w io.Writer) error {
	n := len(spec.Series[0].Points)
	values := make([][]float64, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = cells.String(spec.Series[0].Points[i].X)
		values[i] = make([]float64, len(spec.Series))
		for j, s := range spec.Series {
			if i < len(s.Points) {
				values[i][j] = s.Points[i].Y
			}
		}
	}

	minY, maxY := stackExtent(values)
	if maxY == minY {
		maxY = minY + 1
	}

	c := gochart.Chart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:  spec.XAxisTitle,
			Ticks: categoryTicks(labels),
		},
		YAxis: gochart.YAxis{
			Name:  spec.YAxisTitle,
			Range: &gochart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: []gochart.Series{
			stackedBarSeries{name: spec.VariableLabel, values: values},
		},
	}
	return c.Render(format.provider(), w)
}

// stackExtent returns the lowest negative stack and highest positive stack,
// both including zero.
func stackExtent(values [][]float64) (float64, float64) {
	minY, maxY := 0.0, 0.0
	for _, bar := range values {
		pos, neg := 0.0, 0.0
		for _, v := range bar {
			if v >= 0 {
				pos += v
			} else {
				neg += v
			}
		}
		maxY = math.Max(maxY, pos)
		minY = math.Min(minY, neg)
	}
	return minY, maxY
}

// barWidth is the share of one category slot a bar covers.
const barWidth = 0.6

// stackedBarSeries draws absolute stacked bars at x positions 0..n-1.
type stackedBarSeries struct {
	name   string
	values [][]float64
}

func (s stackedBarSeries) GetName() string            { return s.name }
func (s stackedBarSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (s stackedBarSeries) GetStyle() gochart.Style     { return gochart.Style{} }

func (s stackedBarSeries) Validate() error {
	if len(s.values) == 0 {
		return ErrEmptyChart
	}
	return nil
}

func (s stackedBarSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	for _, bar := range segmentBoxes(s.values, canvasBox, xrange, yrange) {
		for j, b := range bar {
			if b.Height() == 0 {
				continue
			}
			color := gochart.GetDefaultColor(j)
			r.SetFillColor(color)
			r.SetStrokeColor(color)
			r.SetStrokeWidth(1)
			r.MoveTo(b.Left, b.Top)
			r.LineTo(b.Right, b.Top)
			r.LineTo(b.Right, b.Bottom)
			r.LineTo(b.Left, b.Bottom)
			r.Close()
			r.FillStroke()
		}
	}
}

// segmentBoxes maps every segment to its pixel box. Each bar's segments sit
// on top of one another starting at the zero line.
func segmentBoxes(values [][]float64, canvasBox gochart.Box, xrange, yrange gochart.Range) [][]gochart.Box {
	half := int(float64(xrange.Translate(1)-xrange.Translate(0)) * barWidth / 2)
	if half < 1 {
		half = 1
	}
	toY := func(v float64) int { return canvasBox.Bottom - yrange.Translate(v) }

	out := make([][]gochart.Box, len(values))
	for i, bar := range values {
		cx := canvasBox.Left + xrange.Translate(float64(i))
		pos, neg := 0.0, 0.0
		out[i] = make([]gochart.Box, len(bar))
		for j, v := range bar {
			var lo, hi float64
			if v >= 0 {
				lo, hi = pos, pos+v
				pos = hi
			} else {
				lo, hi = neg+v, neg
				neg = lo
			}
			out[i][j] = gochart.Box{Left: cx - half, Right: cx + half, Top: toY(hi), Bottom: toY(lo)}
		}
	}
	return out
}
