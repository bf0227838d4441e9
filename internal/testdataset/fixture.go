// Package testdataset builds Olympic datasets for tests and load runs: a
// small hand-checked fixture, a seeded synthetic generator that writes the
// two source CSV files, and a runner that exercises a live service.
package testdataset

import (
	"strconv"

	"github.com/okian/olympics/internal/domain/model"
)

// Events used by the fixture.
const (
	Freestyle = "Swimming Women's 100 metres Freestyle"
	Relay     = "Swimming Women's 4 x 100 metres Freestyle Relay"
	Sculls    = "Rowing Men's Single Sculls"
	Marathon  = "Athletics Men's Marathon"
)

type entry struct {
	name         string
	sex          model.Sex
	age, h, w    float64
	noc          string
	year         int
	season       model.Season
	city         string
	sport, event string
	medal        model.Medal
}

func (e entry) row(id int) model.AthleteEvent {
	opt := func(v float64) model.Measure {
		if v == 0 {
			return model.Measure{}
		}
		return model.Some(v)
	}
	return model.AthleteEvent{
		ID:     id,
		Name:   e.name,
		Sex:    e.sex,
		Age:    opt(e.age),
		Height: opt(e.h),
		Weight: opt(e.w),
		Team:   e.noc,
		NOC:    e.noc,
		Games:  strconv.Itoa(e.year) + " " + string(e.season),
		Year:   e.year,
		Season: e.season,
		City:   e.city,
		Sport:  e.sport,
		Event:  e.event,
		Medal:  e.medal,
	}
}

// Raw returns the unprocessed fixture tables:
//
//	USA:    Alice (gold 2000 freestyle, gold 2000 relay, silver 2004), Beth (same relay gold), Dan (1906, no medal)
//	Norway: Olav (bronze 2000, nothing 2004, a winter row that preprocessing drops)
//	UK:     Carl (gold 2004)
//	ZZZ:    Zed, an unresolved NOC with a bronze in 2004
//
// The relay row of Beth is listed twice; preprocessing keeps one.
func Raw() model.Raw {
	const summer, winter = model.SeasonSummer, model.SeasonWinter
	entries := []entry{
		{"Alice", model.SexFemale, 20, 170, 60, "USA", 2000, summer, "Sydney", "Swimming", Freestyle, model.MedalGold},
		{"Alice", model.SexFemale, 20, 170, 60, "USA", 2000, summer, "Sydney", "Swimming", Relay, model.MedalGold},
		{"Beth", model.SexFemale, 22, 172, 62, "USA", 2000, summer, "Sydney", "Swimming", Relay, model.MedalGold},
		{"Alice", model.SexFemale, 24, 170, 60, "USA", 2004, summer, "Athina", "Swimming", Freestyle, model.MedalSilver},
		{"Olav", model.SexMale, 30, 185, 85, "NOR", 2000, summer, "Sydney", "Rowing", Sculls, model.MedalBronze},
		{"Olav", model.SexMale, 34, 185, 85, "NOR", 2004, summer, "Athina", "Rowing", Sculls, model.MedalNone},
		{"Olav", model.SexMale, 32, 185, 85, "NOR", 2002, winter, "Salt Lake City", "Biathlon", "Biathlon Men's 20 kilometres", model.MedalGold},
		{"Carl", model.SexMale, 25, 180, 80, "GBR", 2004, summer, "Athina", "Rowing", Sculls, model.MedalGold},
		{"Zed", model.SexMale, 0, 0, 0, "ZZZ", 2004, summer, "Athina", "Athletics", Marathon, model.MedalBronze},
		{"Dan", model.SexMale, 28, 175, 70, "USA", 1906, summer, "Athina", "Athletics", Marathon, model.MedalNone},
	}
	raw := model.Raw{Regions: model.RegionLookup{
		"USA": {NOC: "USA", Name: "USA"},
		"NOR": {NOC: "NOR", Name: "Norway"},
		"GBR": {NOC: "GBR", Name: "UK", Notes: "Great Britain"},
	}}
	for i, e := range entries {
		raw.Rows = append(raw.Rows, e.row(i+1))
	}
	// exact duplicate of Beth's relay row
	raw.Rows = append(raw.Rows, raw.Rows[2])
	return raw
}

// Dataset returns the preprocessed fixture.
func Dataset() *model.Dataset {
	return model.Preprocess(Raw())
}
