package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/pkg/logger"
	"github.com/okian/olympics/pkg/metrics"
)

// BackendSQLite is the Backend name of SQLiteStore.
const BackendSQLite = "sqlite"

const (
	insertAthleteSQL = `INSERT INTO athlete_events
		(seq, athlete_id, name, sex, age, height, weight, team, noc, games, year, season, city, sport, event, medal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insertRegionSQL  = `INSERT OR REPLACE INTO regions (noc, region, notes) VALUES (?, ?, ?)`
	insertImportSQL  = `INSERT INTO dataset_imports (source, row_count, region_count, imported_at) VALUES (?, ?, ?, ?)`
	selectAthleteSQL = `SELECT athlete_id, name, sex, age, height, weight, team, noc, games, year, season, city, sport, event, medal
		FROM athlete_events ORDER BY seq`
	selectRegionSQL  = `SELECT noc, region, notes FROM regions`
)

// SQLiteStore keeps the raw tables in a SQLite database. When the database
// is empty, Load imports from the source store first.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	source Store
	closed bool
	settings
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// migrates it. source may be nil when the database is known to be populated.
func NewSQLiteStore(dbPath string, source Store, opts ...Option) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{
		db:       db,
		path:     dbPath,
		source:   source,
		settings: newSettings(opts),
	}, nil
}

// Backend implements Store.
func (s *SQLiteStore) Backend() string { return BackendSQLite }

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context) (model.Raw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Raw{}, ErrStoreClosed
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM athlete_events`).Scan(&count); err != nil {
		return model.Raw{}, fmt.Errorf("%w: count rows: %w", ErrLoadDataset, err)
	}

	if count == 0 {
		if s.source == nil {
			return model.Raw{}, fmt.Errorf("%w: database %s is empty and no import source is set", ErrLoadDataset, s.path)
		}
		raw, err := s.source.Load(ctx)
		if err != nil {
			return model.Raw{}, err
		}
		if err := s.importRaw(ctx, raw); err != nil {
			metrics.RecordErrorByComponent("repository", "sqlite_import")
			return model.Raw{}, err
		}
		// The rows just written are what the database would return.
		return raw, nil
	}

	raw, err := s.readAll(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "sqlite_read")
		return model.Raw{}, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}
	s.logger.Info(ctx, "sqlite dataset read",
		logger.String("path", s.path),
		logger.Int("rows", len(raw.Rows)),
		logger.Int("regions", len(raw.Regions)),
	)
	return raw, nil
}

// Imports returns how many times the database has been populated.
func (s *SQLiteStore) Imports(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dataset_imports`).Scan(&n)
	return n, err
}

func nullable(m model.Measure) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Valid}
}

func (s *SQLiteStore) importRaw(ctx context.Context, raw model.Raw) (err error) {
	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrImportDataset, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	regionStmt, err := tx.PrepareContext(ctx, insertRegionSQL)
	if err != nil {
		return fmt.Errorf("%w: prepare regions: %w", ErrImportDataset, err)
	}
	defer regionStmt.Close()
	for _, r := range raw.Regions {
		if _, err = regionStmt.ExecContext(ctx, r.NOC, r.Name, r.Notes); err != nil {
			return fmt.Errorf("%w: region %s: %w", ErrImportDataset, r.NOC, err)
		}
	}

	rowStmt, err := tx.PrepareContext(ctx, insertAthleteSQL)
	if err != nil {
		return fmt.Errorf("%w: prepare athletes: %w", ErrImportDataset, err)
	}
	defer rowStmt.Close()
	for i, r := range raw.Rows {
		_, err = rowStmt.ExecContext(ctx,
			i+1, r.ID, r.Name, string(r.Sex),
			nullable(r.Age), nullable(r.Height), nullable(r.Weight),
			r.Team, r.NOC, r.Games, r.Year, string(r.Season),
			r.City, r.Sport, r.Event, string(r.Medal),
		)
		if err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrImportDataset, i+1, err)
		}
		if (i+1)%s.progressEvery == 0 {
			s.logger.Debug(ctx, "importing athletes", logger.Int("rows", i+1))
		}
	}

	if _, err = tx.ExecContext(ctx, insertImportSQL,
		s.source.Backend(), len(raw.Rows), len(raw.Regions), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("%w: record import: %w", ErrImportDataset, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrImportDataset, err)
	}
	s.logger.Info(ctx, "imported dataset into sqlite",
		logger.String("path", s.path),
		logger.Int("rows", len(raw.Rows)),
		logger.Int("regions", len(raw.Regions)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *SQLiteStore) readAll(ctx context.Context) (model.Raw, error) {
	raw := model.Raw{Regions: make(model.RegionLookup)}

	regionRows, err := s.db.QueryContext(ctx, selectRegionSQL)
	if err != nil {
		return model.Raw{}, fmt.Errorf("query regions: %w", err)
	}
	for regionRows.Next() {
		var r model.Region
		if err := regionRows.Scan(&r.NOC, &r.Name, &r.Notes); err != nil {
			regionRows.Close()
			return model.Raw{}, fmt.Errorf("scan region: %w", err)
		}
		raw.Regions[r.NOC] = r
	}
	if err := regionRows.Close(); err != nil {
		return model.Raw{}, err
	}
	if err := regionRows.Err(); err != nil {
		return model.Raw{}, err
	}

	rows, err := s.db.QueryContext(ctx, selectAthleteSQL)
	if err != nil {
		return model.Raw{}, fmt.Errorf("query athletes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a                   model.AthleteEvent
			sex, season, medal  string
			age, height, weight sql.NullFloat64
		)
		if err := rows.Scan(&a.ID, &a.Name, &sex, &age, &height, &weight,
			&a.Team, &a.NOC, &a.Games, &a.Year, &season, &a.City, &a.Sport, &a.Event, &medal); err != nil {
			return model.Raw{}, fmt.Errorf("scan athlete: %w", err)
		}
		a.Sex = model.Sex(sex)
		a.Season = model.Season(season)
		a.Medal = model.Medal(medal)
		a.Age = model.Measure{Value: age.Float64, Valid: age.Valid}
		a.Height = model.Measure{Value: height.Float64, Valid: height.Valid}
		a.Weight = model.Measure{Value: weight.Float64, Valid: weight.Valid}
		raw.Rows = append(raw.Rows, a)
	}
	return raw, rows.Err()
}
