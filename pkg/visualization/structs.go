// Package visualization exposes analysis results as plain data models
// (tables, histograms, scatter and point-range series) and renders the
// tabular ones to the terminal. Figures are data only; plotting belongs to
// external consumers, and no computation happens here.
package visualization

// Table is a model for tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable creates a new model of data representation.
func NewTable(headers []string, rows [][]string) *Table {
	return &Table{Headers: headers, Rows: rows}
}

// Histogram is the raw values behind a histogram figure; binning is the
// renderer's business.
type Histogram struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// ScatterXY is a two-dimensional point series.
type ScatterXY struct {
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

// PointRange is one point with a vertical uncertainty range, the element
// of the value-of-information point-range figure.
type PointRange struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}
