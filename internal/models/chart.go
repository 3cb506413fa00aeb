package models

// ChartKind identifies how a chart is drawn.
type ChartKind string

const (
	ChartLine       ChartKind = "line"
	ChartStackedBar ChartKind = "stacked-bar"
)

// ChartSpec describes a chart for the rendering layer.
type ChartSpec struct {
	Kind          ChartKind `json:"kind" msgpack:"kind"`
	Signature     string    `json:"signature" msgpack:"signature"`
	Title         string    `json:"title,omitempty" msgpack:"title,omitempty"`
	X             string    `json:"x" msgpack:"x"`
	Y             []string  `json:"y" msgpack:"y"`
	XAxisTitle    string    `json:"xAxisTitle,omitempty" msgpack:"xAxisTitle,omitempty"`
	YAxisTitle    string    `json:"yAxisTitle,omitempty" msgpack:"yAxisTitle,omitempty"`
	ValueLabel    string    `json:"valueLabel,omitempty" msgpack:"valueLabel,omitempty"`
	VariableLabel string    `json:"variableLabel,omitempty" msgpack:"variableLabel,omitempty"`
	BarMode       string    `json:"barMode,omitempty" msgpack:"barMode,omitempty"`
	Series        []Series  `json:"series" msgpack:"series"`
}

// Series is one plotted column.
type Series struct {
	Name   string  `json:"name" msgpack:"name"`
	Column string  `json:"column" msgpack:"column"`
	Points []Point `json:"points" msgpack:"points"`
}

// Point is a single value with its display label.
type Point struct {
	X    any     `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Text string  `json:"text" msgpack:"text"`
}
