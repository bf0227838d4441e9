package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/olympics/internal/adapters/repository"
	service "github.com/okian/olympics/internal/app"
	"github.com/okian/olympics/internal/domain/types"
	"github.com/okian/olympics/internal/testdataset"
	"github.com/okian/olympics/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var wantOverallTally = []types.MedalTallyRow{
	{Label: "USA", Gold: 2, Silver: 1, Total: 3},
	{Label: "UK", Gold: 1, Total: 1},
	{Label: "Norway", Bronze: 1, Total: 1},
}

func TestServiceIntegration_CSV(t *testing.T) {
	Convey("Given the fixture written as CSV files", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		athletes, regions, err := testdataset.WriteCSV(ctx, t.TempDir(), testdataset.Raw())
		So(err, ShouldBeNil)

		svc := service.New(
			service.WithStore(repository.NewCSVStore(athletes, regions)),
			service.WithLogger(logger.Nop()),
		)
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should load and preprocess the files", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["backend"], ShouldEqual, repository.BackendCSV)
				So(stats["rows"], ShouldEqual, 9)
				So(stats["loadedAt"], ShouldNotBeEmpty)
			})

			Convey("Then the tally matches the in-memory fixture", func() {
				tally, err := svc.MedalTally(ctx, "Overall", "Overall")
				So(err, ShouldBeNil)
				So(tally.Rows, ShouldResemble, wantOverallTally)
			})
		})
	})
}

func TestServiceIntegration_SQLite(t *testing.T) {
	Convey("Given a SQLite store seeded from CSV files", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		dir := t.TempDir()
		athletes, regions, err := testdataset.WriteCSV(ctx, filepath.Join(dir, "csv"), testdataset.Raw())
		So(err, ShouldBeNil)
		dbPath := filepath.Join(dir, "olympics.db")

		store, err := repository.NewSQLiteStore(dbPath, repository.NewCSVStore(athletes, regions))
		So(err, ShouldBeNil)
		first := service.New(service.WithStore(store), service.WithLogger(logger.Nop()))

		Convey("When the first service imports and a second one reopens the database", func() {
			So(first.Start(ctx), ShouldBeNil)
			firstTally, err := first.MedalTally(ctx, "2000", "Overall")
			So(err, ShouldBeNil)
			first.Stop()

			reopened, err := repository.NewSQLiteStore(dbPath, nil)
			So(err, ShouldBeNil)
			second := service.New(service.WithStore(reopened), service.WithLogger(logger.Nop()))
			So(second.Start(ctx), ShouldBeNil)
			defer second.Stop()

			Convey("Then both see the same dataset", func() {
				So(second.GetStats()["backend"], ShouldEqual, repository.BackendSQLite)
				So(second.GetStats()["rows"], ShouldEqual, 9)

				secondTally, err := second.MedalTally(ctx, "2000", "Overall")
				So(err, ShouldBeNil)
				So(secondTally, ShouldResemble, firstTally)

				overall, err := second.MedalTally(ctx, "Overall", "Overall")
				So(err, ShouldBeNil)
				So(overall.Rows, ShouldResemble, wantOverallTally)
			})
		})
	})
}
