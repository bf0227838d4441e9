package site

import (
	"fmt"
	"html/template"
	"math"

	"github.com/okian/olympics/internal/domain/types"
)

// Colour scales for heatmap cells, low to high.
var scales = map[string][][3]float64{
	"YlGnBu": {
		{255, 255, 217}, {237, 248, 177}, {199, 233, 180}, {127, 205, 187}, {65, 182, 196},
		{29, 145, 192}, {34, 94, 168}, {37, 52, 148}, {8, 29, 88},
	},
	"coolwarm": {
		{59, 76, 192}, {141, 176, 254}, {221, 221, 221}, {244, 154, 123}, {180, 4, 38},
	},
}

// heatCell pairs a heatmap with the scale it is drawn in.
type heatCell struct {
	H     types.Heatmap
	Scale string
}

// heatStyle returns the background and text colour of a cell holding v.
func heatStyle(scale string, v, maxV int) template.CSS {
	stops, ok := scales[scale]
	if !ok {
		stops = scales["YlGnBu"]
	}
	t := 0.0
	if maxV > 0 {
		t = math.Min(1, math.Max(0, float64(v)/float64(maxV)))
	}
	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		i = len(stops) - 2
	}
	f := pos - float64(i)
	var rgb [3]int
	for c := range rgb {
		rgb[c] = int(math.Round(stops[i][c] + (stops[i+1][c]-stops[i][c])*f))
	}

	text := "#000000"
	if 0.299*float64(rgb[0])+0.587*float64(rgb[1])+0.114*float64(rgb[2]) < 140 {
		text = "#ffffff"
	}
	return template.CSS(fmt.Sprintf("background-color:#%02x%02x%02x;color:%s", rgb[0], rgb[1], rgb[2], text))
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"heat":  heatStyle,
		"inc":   func(i int) int { return i + 1 },
		"scale": func(h types.Heatmap, scale string) heatCell { return heatCell{H: h, Scale: scale} },
	}
	t, err := template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return t, nil
}
