// Package chart draws the event × gender medal counts as a grouped bar chart.
package chart

import (
	"fmt"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/pkg/metrics"
)

const (
	defaultWidth  = 1200
	defaultHeight = 520

	minSlot     = 6 // narrowest bar plus its spacing
	axisPadding = 120
	padBottom   = 140
)

// palette colors the gender series, reused in order.
var palette = []string{"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd", "8c564b"} //nolint:gochecknoglobals // fixed palette

// Renderer draws medal count charts.
type Renderer struct {
	width  int
	height int
	title  string
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Swatch is one legend entry.
type Swatch struct {
	Gender string `json:"gender"`
	Color  string `json:"color"`
}

// Legend returns the color of each gender in table order.
func Legend(table model.CountTable) []Swatch {
	out := make([]Swatch, len(table.Genders))
	for i, g := range table.Genders {
		out[i] = Swatch{Gender: g, Color: "#" + palette[i%len(palette)]}
	}
	return out
}

// Bars lays the table out as one bar per (event, gender), events in table
// order and genders grouped inside each event. Only the first bar of a group
// carries the event label.
func Bars(table model.CountTable) []gochart.Value {
	bars := make([]gochart.Value, 0, len(table.Events)*len(table.Genders))
	for _, e := range table.Events {
		for i, n := range table.Row(e) {
			label := ""
			if i == 0 {
				label = e
			}
			color := drawing.ColorFromHex(palette[i%len(palette)])
			bars = append(bars, gochart.Value{
				Label: label,
				Value: float64(n),
				Style: gochart.Style{FillColor: color, StrokeColor: color},
			})
		}
	}
	return bars
}

// SVG writes the chart for table to w.
func (r *Renderer) SVG(w io.Writer, table model.CountTable) error {
	start := time.Now()
	bars := Bars(table)
	if len(bars) == 0 {
		return fmt.Errorf("chart.svg: %w", ErrNoData)
	}

	width := r.width
	if need := len(bars)*minSlot + axisPadding; need > width {
		width = need
	}
	slot := (width - axisPadding) / len(bars)
	spacing := slot / 4
	if spacing < 1 {
		spacing = 1
	}

	bc := gochart.BarChart{
		Title:      r.title,
		Width:      width,
		Height:     r.height,
		BarWidth:   slot - spacing,
		BarSpacing: spacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: padBottom}},
		XAxis:      gochart.Style{TextRotationDegrees: 90, FontSize: 8},
		YAxis: gochart.YAxis{
			Name:           "Medals",
			Range:          &gochart.ContinuousRange{Min: 0, Max: float64(table.Max() + 1)},
			ValueFormatter: gochart.IntValueFormatter,
		},
		Bars: bars,
	}
	if err := bc.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("chart.svg: %w", err)
	}
	metrics.RecordChartRender(float64(time.Since(start).Milliseconds()))
	return nil
}
