package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/olympics/internal/domain/model"
)

const athletesCSV = `"ID","Name","Sex","Age","Height","Weight","Team","NOC","Games","Year","Season","City","Sport","Event","Medal"
"1","A Dijiang","M",24,180,80,"China","CHN","1992 Summer",1992,"Summer","Barcelona","Basketball","Basketball Men's Basketball",NA
"2","A Lamusi","M",23,170,60,"China","CHN","2012 Summer",2012,"Summer","London","Judo","Judo Men's Extra-Lightweight",NA
"4","Edgar Lindenau Aabye","M",34,NA,NA,"Denmark/Sweden","DEN","1900 Summer",1900,"Summer","Paris","Tug-Of-War","Tug-Of-War Men's Tug-Of-War",Gold
"5","Christine Jacoba Aaftink","F",21,185,82,"Netherlands","NED","1988 Winter",1988,"Winter","Calgary","Speed Skating","Speed Skating Women's 500 metres",NA
`

const regionsCSV = `NOC,region,notes
CHN,China,
DEN,Denmark,
NED,Netherlands,
ROT,,Refugee Olympic Team
`

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	athletes := filepath.Join(dir, "athlete_events.csv")
	regions := filepath.Join(dir, "noc_regions.csv")
	if err := os.WriteFile(athletes, []byte(athletesCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(regions, []byte(regionsCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return athletes, regions
}

func TestCSVStore_Load(t *testing.T) {
	ctx := context.Background()
	athletes, regions := writeFixtures(t)
	store := NewCSVStore(athletes, regions)

	raw, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(raw.Rows))
	}
	if len(raw.Regions) != 4 {
		t.Errorf("expected 4 regions, got %d", len(raw.Regions))
	}

	first := raw.Rows[0]
	if first.ID != 1 || first.Name != "A Dijiang" || first.Year != 1992 {
		t.Errorf("unexpected first row: %+v", first)
	}
	if !first.Height.Valid || first.Height.Value != 180 {
		t.Errorf("expected height 180, got %+v", first.Height)
	}
	if first.Medal.Won() {
		t.Errorf("expected no medal, got %q", first.Medal)
	}

	third := raw.Rows[2]
	if third.Medal != model.MedalGold {
		t.Errorf("expected gold, got %q", third.Medal)
	}
	if third.Height.Valid || third.Weight.Valid {
		t.Errorf("expected missing height and weight, got %+v %+v", third.Height, third.Weight)
	}
	if raw.Rows[3].Season != model.SeasonWinter {
		t.Errorf("expected winter season, got %q", raw.Rows[3].Season)
	}

	if rot := raw.Regions["ROT"]; rot.Name != "" || rot.Notes != "Refugee Olympic Team" {
		t.Errorf("unexpected ROT region: %+v", rot)
	}
	if store.Backend() != BackendCSV {
		t.Errorf("unexpected backend %q", store.Backend())
	}
}

func TestCSVStore_MissingFile(t *testing.T) {
	_, regions := writeFixtures(t)
	store := NewCSVStore(filepath.Join(t.TempDir(), "missing.csv"), regions)

	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrLoadDataset) {
		t.Fatalf("expected ErrLoadDataset, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist cause, got %v", err)
	}
}

func TestParseAthletes_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := ParseAthletes(ctx, strings.NewReader("ID,Name\n1,x\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}

	bad := strings.Replace(athletesCSV, "1992,\"Summer\"", "nineteen,\"Summer\"", 1)
	_, err = ParseAthletes(ctx, strings.NewReader(bad))
	if !errors.Is(err, ErrMalformedRow) {
		t.Errorf("expected ErrMalformedRow, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line number in %q", err)
	}

	badMedal := strings.Replace(athletesCSV, ",Gold\n", ",Platinum\n", 1)
	_, err = ParseAthletes(ctx, strings.NewReader(badMedal))
	if !errors.Is(err, model.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestParseRegions_BOMHeader(t *testing.T) {
	lookup, err := ParseRegions(strings.NewReader("\ufeffNOC,region\nUSA,USA\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookup["USA"].Name != "USA" {
		t.Errorf("unexpected lookup: %+v", lookup)
	}
}

func TestSQLiteStore_ImportThenRead(t *testing.T) {
	ctx := context.Background()
	athletes, regions := writeFixtures(t)
	dbPath := filepath.Join(t.TempDir(), "db", "olympics.db")

	store, err := NewSQLiteStore(dbPath, NewCSVStore(athletes, regions))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	imported, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if len(imported.Rows) != 4 {
		t.Fatalf("expected 4 imported rows, got %d", len(imported.Rows))
	}

	// A second load reads from the database and must match the import.
	read, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(read.Rows) != len(imported.Rows) {
		t.Fatalf("expected %d rows, got %d", len(imported.Rows), len(read.Rows))
	}
	for i := range read.Rows {
		if read.Rows[i] != imported.Rows[i] {
			t.Errorf("row %d differs:\n got %+v\nwant %+v", i, read.Rows[i], imported.Rows[i])
		}
	}
	if len(read.Regions) != len(imported.Regions) {
		t.Errorf("expected %d regions, got %d", len(imported.Regions), len(read.Regions))
	}

	n, err := store.Imports(ctx)
	if err != nil || n != 1 {
		t.Errorf("expected one recorded import, got %d (%v)", n, err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}

	// Reopening without a source works because the data is already there.
	reopened, err := NewSQLiteStore(dbPath, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	again, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if len(again.Rows) != 4 {
		t.Errorf("expected 4 rows after reopen, got %d", len(again.Rows))
	}
}

func TestSQLiteStore_EmptyWithoutSource(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "empty.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if _, err := store.Load(context.Background()); !errors.Is(err, ErrLoadDataset) {
		t.Errorf("expected ErrLoadDataset, got %v", err)
	}
}
