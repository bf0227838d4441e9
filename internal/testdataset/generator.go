package testdataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/pkg/logger"
)

// File names written by WriteCSV.
const (
	AthletesFile = "athlete_events.csv"
	RegionsFile  = "noc_regions.csv"
)

const (
	directoryPermission = 0750
	firstYear           = 1896
	lastYear            = 2016
	intercalatedYear    = 1906
	missingMeasureOneIn = 7
	winterOneIn         = 9
)

var nocs = []model.Region{
	{NOC: "USA", Name: "USA"},
	{NOC: "GBR", Name: "UK"},
	{NOC: "FRA", Name: "France"},
	{NOC: "GER", Name: "Germany"},
	{NOC: "FRG", Name: "Germany", Notes: "West Germany"},
	{NOC: "URS", Name: "Russia", Notes: "Soviet Union"},
	{NOC: "CHN", Name: "China"},
	{NOC: "JPN", Name: "Japan"},
	{NOC: "AUS", Name: "Australia"},
	{NOC: "ITA", Name: "Italy"},
	{NOC: "HUN", Name: "Hungary"},
	{NOC: "SWE", Name: "Sweden"},
	{NOC: "KEN", Name: "Kenya"},
	{NOC: "IND", Name: "India"},
}

// unresolvedNOC appears in rows but not in the region table.
const unresolvedNOC = "SGP"

var sports = map[string][]string{
	"Athletics":  {"Athletics Men's Marathon", "Athletics Women's 100 metres", "Athletics Men's 100 metres"},
	"Swimming":   {"Swimming Men's 100 metres Freestyle", "Swimming Women's 4 x 100 metres Freestyle Relay"},
	"Rowing":     {"Rowing Men's Single Sculls", "Rowing Men's Coxless Pairs"},
	"Gymnastics": {"Gymnastics Women's Individual All-Around", "Gymnastics Men's Horizontal Bar"},
	"Fencing":    {"Fencing Men's Foil, Individual"},
	"Judo":       {"Judo Women's Lightweight"},
}

var sportOrder = []string{"Athletics", "Swimming", "Rowing", "Gymnastics", "Fencing", "Judo"}

var cities = []string{"Athina", "Paris", "London", "Stockholm", "Antwerpen", "Amsterdam", "Los Angeles", "Berlin", "Helsinki", "Roma", "Tokyo", "Mexico City", "Munich", "Montreal", "Moskva", "Seoul", "Barcelona", "Atlanta", "Sydney", "Beijing", "Rio de Janeiro"}

// GenConfig drives Generate.
type GenConfig struct {
	Seed      uint64 // PRNG seed; the same seed yields the same tables
	Athletes  int    // size of the athlete pool
	Entrants  int    // entrants per event per edition
	FromYear  int    // first edition, defaults to 1896
	ToYear    int    // last edition, defaults to 2016
	Unmatched bool   // include rows whose NOC has no region
}

// Editions lists the summer edition years in [from, to], skipping the war
// years and including the 1906 Intercalated Games.
func Editions(from, to int) []int {
	var years []int
	for y := firstYear; y <= to; y += 4 {
		if y == 1916 || y == 1940 || y == 1944 {
			continue
		}
		if y >= from {
			years = append(years, y)
		}
		if y == 1904 && from <= intercalatedYear && to >= intercalatedYear {
			years = append(years, intercalatedYear)
		}
	}
	return years
}

type athlete struct {
	id     int
	name   string
	sex    model.Sex
	noc    string
	sport  string
	born   int
	height float64
	weight float64
}

// Generate builds synthetic raw tables. Every event of every edition gets
// cfg.Entrants entrants and the first three take gold, silver and bronze.
func Generate(cfg GenConfig) model.Raw {
	if cfg.Athletes <= 0 {
		cfg.Athletes = 2000
	}
	if cfg.Entrants < 3 {
		cfg.Entrants = 8
	}
	if cfg.FromYear == 0 {
		cfg.FromYear = firstYear
	}
	if cfg.ToYear == 0 {
		cfg.ToYear = lastYear
	}
	if cfg.ToYear < cfg.FromYear {
		cfg.ToYear = cfg.FromYear
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	pool := make(map[string][]athlete, len(sportOrder))
	for i := 0; i < cfg.Athletes; i++ {
		sport := sportOrder[rng.IntN(len(sportOrder))]
		noc := nocs[rng.IntN(len(nocs))].NOC
		if cfg.Unmatched && rng.IntN(50) == 0 {
			noc = unresolvedNOC
		}
		sex := model.SexMale
		if rng.IntN(3) == 0 {
			sex = model.SexFemale
		}
		a := athlete{
			id:     i + 1,
			name:   fmt.Sprintf("Athlete %05d", i+1),
			sex:    sex,
			noc:    noc,
			sport:  sport,
			born:   cfg.FromYear - 35 + rng.IntN(cfg.ToYear-cfg.FromYear+20),
			height: float64(150 + rng.IntN(50)),
			weight: float64(45 + rng.IntN(60)),
		}
		pool[sport] = append(pool[sport], a)
	}

	raw := model.Raw{Regions: make(model.RegionLookup, len(nocs))}
	for _, r := range nocs {
		raw.Regions[r.NOC] = r
	}

	editions := Editions(cfg.FromYear, cfg.ToYear)
	for i, year := range editions {
		city := cities[i%len(cities)]
		games := strconv.Itoa(year) + " " + string(model.SeasonSummer)
		for _, sport := range sportOrder {
			candidates := eligible(pool[sport], year)
			if len(candidates) == 0 {
				continue
			}
			for _, event := range sports[sport] {
				rng.Shuffle(len(candidates), func(a, b int) { candidates[a], candidates[b] = candidates[b], candidates[a] })
				n := min(cfg.Entrants, len(candidates))
				for place, a := range candidates[:n] {
					raw.Rows = append(raw.Rows, a.row(rng, year, games, city, sport, event, medalFor(place)))
				}
			}
		}
		if rng.IntN(winterOneIn) == 0 && len(pool["Athletics"]) > 0 {
			a := pool["Athletics"][0]
			wy := year + 2
			raw.Rows = append(raw.Rows, model.AthleteEvent{
				ID: a.id, Name: a.name, Sex: a.sex, NOC: a.noc, Team: a.noc,
				Games: strconv.Itoa(wy) + " " + string(model.SeasonWinter), Year: wy,
				Season: model.SeasonWinter, City: "Chamonix", Sport: "Biathlon",
				Event: "Biathlon Men's 20 kilometres", Medal: model.MedalGold,
			})
		}
	}
	return raw
}

// eligible returns the athletes aged 16 to 40 in year.
func eligible(all []athlete, year int) []athlete {
	out := make([]athlete, 0, len(all))
	for _, a := range all {
		if age := year - a.born; age >= 16 && age <= 40 {
			out = append(out, a)
		}
	}
	return out
}

func medalFor(place int) model.Medal {
	switch place {
	case 0:
		return model.MedalGold
	case 1:
		return model.MedalSilver
	case 2:
		return model.MedalBronze
	default:
		return model.MedalNone
	}
}

func (a athlete) row(rng *rand.Rand, year int, games, city, sport, event string, medal model.Medal) model.AthleteEvent {
	measure := func(v float64) model.Measure {
		if rng.IntN(missingMeasureOneIn) == 0 {
			return model.Measure{}
		}
		return model.Some(v)
	}
	return model.AthleteEvent{
		ID:     a.id,
		Name:   a.name,
		Sex:    a.sex,
		Age:    measure(float64(year - a.born)),
		Height: measure(a.height),
		Weight: measure(a.weight),
		Team:   a.noc,
		NOC:    a.noc,
		Games:  games,
		Year:   year,
		Season: model.SeasonSummer,
		City:   city,
		Sport:  sport,
		Event:  event,
		Medal:  medal,
	}
}

// WriteCSV writes raw as athlete_events.csv and noc_regions.csv under dir
// and returns both paths.
func WriteCSV(ctx context.Context, dir string, raw model.Raw) (athletesPath, regionsPath string, err error) {
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return "", "", fmt.Errorf("failed to create directory: %w", err)
	}
	athletesPath = filepath.Join(dir, AthletesFile)
	regionsPath = filepath.Join(dir, RegionsFile)

	if err := writeTable(athletesPath, athleteHeader, len(raw.Rows), func(i int) []string {
		return athleteRecord(raw.Rows[i])
	}); err != nil {
		return "", "", err
	}

	regions := make([]model.Region, 0, len(raw.Regions))
	for _, r := range nocs {
		if reg, ok := raw.Regions[r.NOC]; ok {
			regions = append(regions, reg)
		}
	}
	for noc, reg := range raw.Regions {
		if !knownNOC(noc) {
			regions = append(regions, reg)
		}
	}
	if err := writeTable(regionsPath, []string{"NOC", "region", "notes"}, len(regions), func(i int) []string {
		return []string{regions[i].NOC, regions[i].Name, regions[i].Notes}
	}); err != nil {
		return "", "", err
	}

	logger.Get().Info(ctx, "dataset written",
		logger.String("athletes", athletesPath),
		logger.String("regions", regionsPath),
		logger.Int("rows", len(raw.Rows)),
	)
	return athletesPath, regionsPath, nil
}

func knownNOC(noc string) bool {
	for _, r := range nocs {
		if r.NOC == noc {
			return true
		}
	}
	return false
}

var athleteHeader = []string{
	"ID", "Name", "Sex", "Age", "Height", "Weight", "Team", "NOC",
	"Games", "Year", "Season", "City", "Sport", "Event", "Medal",
}

func athleteRecord(r model.AthleteEvent) []string {
	medal := "NA"
	if r.Medal.Won() {
		medal = string(r.Medal)
	}
	return []string{
		strconv.Itoa(r.ID), r.Name, string(r.Sex),
		formatMeasure(r.Age), formatMeasure(r.Height), formatMeasure(r.Weight),
		r.Team, r.NOC, r.Games, strconv.Itoa(r.Year), string(r.Season),
		r.City, r.Sport, r.Event, medal,
	}
}

func formatMeasure(m model.Measure) string {
	if !m.Valid {
		return "NA"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

func writeTable(path string, header []string, n int, record func(int) []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(record(i)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}
