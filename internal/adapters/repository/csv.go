package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/pkg/logger"
	"github.com/okian/olympics/pkg/metrics"
)

// BackendCSV is the Backend name of CSVStore.
const BackendCSV = "csv"

// Column headers of athlete_events.csv.
var athleteColumns = []string{
	"ID", "Name", "Sex", "Age", "Height", "Weight", "Team", "NOC",
	"Games", "Year", "Season", "City", "Sport", "Event", "Medal",
}

// Column headers of noc_regions.csv.
var regionColumns = []string{"NOC", "region", "notes"}

// CSVStore reads athlete_events.csv and noc_regions.csv from disk.
type CSVStore struct {
	athletesPath string
	regionsPath  string
	settings
}

// NewCSVStore creates a store over the two source files.
func NewCSVStore(athletesPath, regionsPath string, opts ...Option) *CSVStore {
	return &CSVStore{
		athletesPath: athletesPath,
		regionsPath:  regionsPath,
		settings:     newSettings(opts),
	}
}

// Backend implements Store.
func (s *CSVStore) Backend() string { return BackendCSV }

// Close implements Store.
func (s *CSVStore) Close() error { return nil }

// Load reads both files concurrently.
func (s *CSVStore) Load(ctx context.Context) (model.Raw, error) {
	var raw model.Raw
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		f, err := os.Open(s.athletesPath)
		if err != nil {
			return err
		}
		defer f.Close()
		rows, err := parseAthletes(gctx, f, s.logger, s.progressEvery)
		if err != nil {
			return fmt.Errorf("%s: %w", s.athletesPath, err)
		}
		raw.Rows = rows
		return nil
	})

	g.Go(func() error {
		f, err := os.Open(s.regionsPath)
		if err != nil {
			return err
		}
		defer f.Close()
		regions, err := ParseRegions(f)
		if err != nil {
			return fmt.Errorf("%s: %w", s.regionsPath, err)
		}
		raw.Regions = regions
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.RecordErrorByComponent("repository", "csv_load")
		return model.Raw{}, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}

	s.logger.Info(ctx, "csv dataset read",
		logger.Int("rows", len(raw.Rows)),
		logger.Int("regions", len(raw.Regions)),
	)
	return raw, nil
}

// columnIndex maps each wanted header to its position in header.
func columnIndex(header, want []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, w := range want {
		if _, ok := idx[w]; !ok {
			missing = append(missing, w)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

// ParseAthletes parses the athlete_events table.
func ParseAthletes(ctx context.Context, r io.Reader) ([]model.AthleteEvent, error) {
	return parseAthletes(ctx, r, logger.Nop(), defaultProgressEvery)
}

func parseAthletes(ctx context.Context, r io.Reader, log logger.Logger, progressEvery int) ([]model.AthleteEvent, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header, athleteColumns)
	if err != nil {
		return nil, err
	}

	var rows []model.AthleteEvent
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		row, err := athleteFromRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		rows = append(rows, row)

		if len(rows)%progressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			log.Debug(ctx, "parsing athletes", logger.Int("rows", len(rows)))
		}
	}
	return rows, nil
}

func athleteFromRecord(rec []string, idx map[string]int) (model.AthleteEvent, error) {
	get := func(col string) string { return strings.TrimSpace(rec[idx[col]]) }

	id, err := strconv.Atoi(get("ID"))
	if err != nil {
		return model.AthleteEvent{}, fmt.Errorf("ID %q: %w", get("ID"), err)
	}
	year, err := strconv.Atoi(get("Year"))
	if err != nil {
		return model.AthleteEvent{}, fmt.Errorf("year %q: %w", get("Year"), err)
	}
	age, err := model.ParseMeasure(get("Age"))
	if err != nil {
		return model.AthleteEvent{}, err
	}
	height, err := model.ParseMeasure(get("Height"))
	if err != nil {
		return model.AthleteEvent{}, err
	}
	weight, err := model.ParseMeasure(get("Weight"))
	if err != nil {
		return model.AthleteEvent{}, err
	}
	medal, err := model.ParseMedal(get("Medal"))
	if err != nil {
		return model.AthleteEvent{}, err
	}

	return model.AthleteEvent{
		ID:     id,
		Name:   get("Name"),
		Sex:    model.Sex(get("Sex")),
		Age:    age,
		Height: height,
		Weight: weight,
		Team:   get("Team"),
		NOC:    get("NOC"),
		Games:  get("Games"),
		Year:   year,
		Season: model.Season(get("Season")),
		City:   get("City"),
		Sport:  get("Sport"),
		Event:  get("Event"),
		Medal:  medal,
	}, nil
}

// ParseRegions parses the noc_regions table. A later line for the same NOC wins.
func ParseRegions(r io.Reader) (model.RegionLookup, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header, regionColumns[:2])
	if err != nil {
		return nil, err
	}
	notesCol, hasNotes := idx["notes"]

	lookup := make(model.RegionLookup)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		if len(rec) <= idx["region"] || len(rec) <= idx["NOC"] {
			return nil, fmt.Errorf("%w: line %d: %d fields", ErrMalformedRow, line, len(rec))
		}
		reg := model.Region{
			NOC:  strings.TrimSpace(rec[idx["NOC"]]),
			Name: strings.TrimSpace(rec[idx["region"]]),
		}
		if hasNotes && notesCol < len(rec) {
			reg.Notes = strings.TrimSpace(rec[notesCol])
		}
		lookup[reg.NOC] = reg
	}
	return lookup, nil
}
