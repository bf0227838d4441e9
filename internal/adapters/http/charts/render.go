// Package charts renders the dashboard charts as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Size limits and defaults of a rendered chart.
const (
	DefaultWidth  = 960
	DefaultHeight = 480
	minSide       = 200
	maxSide       = 4096
	headroom      = 0.05
)

// ErrRender wraps go-chart failures.
var ErrRender = errors.New("chart render failed")

// Series is one named line or point cloud.
type Series struct {
	Name     string
	X, Y     []float64
	Color    drawing.Color
	DotWidth float64
}

// Spec describes a chart independently of its data source.
type Spec struct {
	Title   string
	XName   string
	YName   string
	Series  []Series
	Scatter bool // points only, no connecting lines
	YZero   bool // y axis starts at zero
	XInt    bool // x ticks are whole numbers, e.g. years
}

// Renderer draws Specs at a fixed size.
type Renderer struct {
	width, height int
}

// NewRenderer clamps the size to sane bounds.
func NewRenderer(width, height int) *Renderer {
	clamp := func(v, def int) int {
		switch {
		case v <= 0:
			return def
		case v < minSide:
			return minSide
		case v > maxSide:
			return maxSide
		}
		return v
	}
	return &Renderer{width: clamp(width, DefaultWidth), height: clamp(height, DefaultHeight)}
}

// Size returns the rendered width and height.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Render draws spec as a PNG. An empty spec yields an empty framed chart
// rather than an error.
func (r *Renderer) Render(spec Spec) ([]byte, error) {
	xr, yr, ok := bounds(spec)

	series := make([]chart.Series, 0, len(spec.Series)+1)
	for _, s := range spec.Series {
		if len(s.X) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style:   style(s, spec.Scatter),
		})
	}
	if !ok {
		// go-chart needs at least one series to lay out the axes
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{xr.Min, xr.Max},
			YValues: []float64{yr.Min, yr.Min},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 1},
		})
	}

	xAxis := chart.XAxis{Name: spec.XName, Range: xr}
	if spec.XInt {
		xAxis.ValueFormatter = chart.IntValueFormatter
	}
	title := spec.Title
	if !ok {
		title += " (no data)"
	}

	ch := chart.Chart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: spec.YName, Range: yr},
		Series:     series,
	}
	if ok && len(spec.Series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, spec.Title, err)
	}
	return buf.Bytes(), nil
}

func style(s Series, scatter bool) chart.Style {
	dot := s.DotWidth
	if dot == 0 {
		dot = 3
	}
	if scatter {
		return chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    dot,
			DotColor:    s.Color,
		}
	}
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: s.Color,
		DotWidth:    dot,
		DotColor:    s.Color,
	}
}

// bounds computes explicit axis ranges so single points and flat series
// still render. ok is false when no series has data.
func bounds(spec Spec) (xr, yr *chart.ContinuousRange, ok bool) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range spec.Series {
		for i := range s.X {
			if i >= len(s.Y) {
				break
			}
			minX, maxX = math.Min(minX, s.X[i]), math.Max(maxX, s.X[i])
			minY, maxY = math.Min(minY, s.Y[i]), math.Max(maxY, s.Y[i])
			ok = true
		}
	}
	if !ok {
		return &chart.ContinuousRange{Min: 0, Max: 1}, &chart.ContinuousRange{Min: 0, Max: 1}, false
	}

	if minX == maxX {
		minX, maxX = minX-1, maxX+1
	}
	if spec.YZero && minY > 0 {
		minY = 0
	}
	if minY == maxY {
		maxY = minY + 1
	}
	pad := (maxY - minY) * headroom
	if !spec.YZero || minY < 0 {
		minY -= pad
	}
	maxY += pad
	return &chart.ContinuousRange{Min: minX, Max: maxX}, &chart.ContinuousRange{Min: minY, Max: maxY}, true
}
