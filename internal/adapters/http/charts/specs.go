package charts

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/olympics/internal/domain/analysis"
	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/internal/domain/types"
)

var (
	colorLine   = drawing.ColorFromHex("1f77b4")
	colorMale   = drawing.ColorFromHex("1f77b4")
	colorFemale = drawing.ColorFromHex("e377c2")
	colorGold   = drawing.ColorFromHex("d4af37")
	colorSilver = drawing.ColorFromHex("8c8c8c")
	colorBronze = drawing.ColorFromHex("cd7f32")
	colorNone   = drawing.ColorFromHex("9bb8d3")
)

var medalColors = map[string]drawing.Color{
	string(model.MedalGold):   colorGold,
	string(model.MedalSilver): colorSilver,
	string(model.MedalBronze): colorBronze,
	model.NoMedalLabel:        colorNone,
}

var curveColors = map[string]drawing.Color{
	analysis.CurveOverall: colorLine,
	analysis.CurveGold:    colorGold,
	analysis.CurveSilver:  colorSilver,
	analysis.CurveBronze:  colorBronze,
}

// overTimeLabels holds the title and axis name per DataOverTime column.
var overTimeLabels = map[string][2]string{
	analysis.ColumnRegion:  {"Participating Nations over the Years", "Number of Participating Nations"},
	analysis.ColumnEvent:   {"Events over the Years", "Number of Events"},
	analysis.ColumnAthlete: {"Athletes over the Years", "Number of Athletes"},
}

func yearSeries(name string, points []types.YearCount, color drawing.Color) Series {
	s := Series{Name: name, Color: color, X: make([]float64, len(points)), Y: make([]float64, len(points))}
	for i, p := range points {
		s.X[i], s.Y[i] = float64(p.Year), float64(p.Count)
	}
	return s
}

// OverTimeSpec plots a per-edition distinct count.
func OverTimeSpec(ot types.OverTime) Spec {
	labels, ok := overTimeLabels[ot.Column]
	if !ok {
		labels = [2]string{ot.Column + " over the Years", ot.Column}
	}
	return Spec{
		Title:  labels[0],
		XName:  "Edition",
		YName:  labels[1],
		Series: []Series{yearSeries(labels[1], ot.Points, colorLine)},
		YZero:  true,
		XInt:   true,
	}
}

// CountryMedalsSpec plots a country's medals per edition.
func CountryMedalsSpec(country string, medals []types.YearCount) Spec {
	return Spec{
		Title:  country + " - Medal Tally Over the Years",
		XName:  "Year",
		YName:  "Number of Medals",
		Series: []Series{yearSeries("Medals", medals, colorLine)},
		YZero:  true,
		XInt:   true,
	}
}

// MenVsWomenSpec plots male and female participation per edition.
func MenVsWomenSpec(years []types.GenderCount) Spec {
	male := make([]types.YearCount, len(years))
	female := make([]types.YearCount, len(years))
	for i, y := range years {
		male[i] = types.YearCount{Year: y.Year, Count: y.Male}
		female[i] = types.YearCount{Year: y.Year, Count: y.Female}
	}
	return Spec{
		Title: "Men vs Women Participation Over the Years",
		XName: "Year",
		YName: "Number of Athletes",
		Series: []Series{
			yearSeries("Male", male, colorMale),
			yearSeries("Female", female, colorFemale),
		},
		YZero: true,
		XInt:  true,
	}
}

// HeightWeightSpec scatters weight against height, one colour per medal
// and a larger dot for women.
func HeightWeightSpec(sport string, points []types.PhysicalPoint) Spec {
	title := "Height vs Weight in " + analysis.NormalizeSelector(sport)

	order := []string{model.NoMedalLabel, string(model.MedalBronze), string(model.MedalSilver), string(model.MedalGold)}
	sexes := []model.Sex{model.SexMale, model.SexFemale}
	groups := make(map[string]*Series)
	// fixed capacity keeps the group pointers valid
	series := make([]Series, 0, len(order)*len(sexes))
	for _, medal := range order {
		for _, sex := range sexes {
			key := medal + " (" + string(sex) + ")"
			dot := 2.5
			if sex == model.SexFemale {
				dot = 4
			}
			series = append(series, Series{Name: key, Color: medalColors[medal], DotWidth: dot})
			groups[key] = &series[len(series)-1]
		}
	}
	for _, p := range points {
		s, ok := groups[p.Medal+" ("+p.Sex+")"]
		if !ok {
			continue
		}
		s.X = append(s.X, p.Weight)
		s.Y = append(s.Y, p.Height)
	}

	kept := series[:0]
	for _, s := range series {
		if len(s.X) > 0 {
			kept = append(kept, s)
		}
	}
	return Spec{Title: title, XName: "Weight (kg)", YName: "Height (cm)", Series: kept, Scatter: true}
}

// AgeDistributionSpec draws one density line per curve that could be estimated.
func AgeDistributionSpec(curves []types.DensityCurve) Spec {
	var series []Series
	for _, c := range curves {
		if len(c.X) == 0 {
			continue
		}
		series = append(series, Series{Name: c.Name, X: c.X, Y: c.Y, Color: curveColors[c.Name], DotWidth: chart.Disabled})
	}
	return Spec{Title: "Distribution of Age", XName: "Age", YName: "Density", Series: series, YZero: true}
}
