package analysis_test

import (
	"errors"
	"testing"

	"github.com/okian/olympics/internal/domain/analysis"
	"github.com/okian/olympics/internal/domain/types"
	"github.com/okian/olympics/internal/testdataset"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDataOverTime(t *testing.T) {
	Convey("Given the fixture dataset", t, func() {
		ds := testdataset.Dataset()

		Convey("When counting nations per edition", func() {
			got, err := analysis.DataOverTime(ds, analysis.ColumnRegion)

			Convey("Then the unresolved regions of an edition count as one nation", func() {
				So(err, ShouldBeNil)
				So(got.Points, ShouldResemble, []types.YearCount{{Year: 1906, Count: 1}, {Year: 2000, Count: 2}, {Year: 2004, Count: 4}})
			})
		})

		Convey("When counting events and athletes", func() {
			events, err1 := analysis.DataOverTime(ds, analysis.ColumnEvent)
			athletes, err2 := analysis.DataOverTime(ds, analysis.ColumnAthlete)

			Convey("Then distinct values are counted per year", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(events.Points, ShouldResemble, []types.YearCount{{Year: 1906, Count: 1}, {Year: 2000, Count: 3}, {Year: 2004, Count: 3}})
				So(athletes.Points, ShouldResemble, []types.YearCount{{Year: 1906, Count: 1}, {Year: 2000, Count: 3}, {Year: 2004, Count: 4}})
			})
		})

		Convey("When the column is unknown", func() {
			_, err := analysis.DataOverTime(ds, "medal")

			Convey("Then the filter is rejected", func() {
				So(errors.Is(err, analysis.ErrInvalidFilter), ShouldBeTrue)
			})
		})
	})
}

func TestEventHeatmap(t *testing.T) {
	Convey("Given the fixture dataset", t, func() {
		hm := analysis.EventHeatmap(testdataset.Dataset())

		Convey("Then distinct events are pivoted sport by year with zero fill", func() {
			So(hm.Sports, ShouldResemble, []string{"Athletics", "Rowing", "Swimming"})
			So(hm.Years, ShouldResemble, []int{1906, 2000, 2004})
			So(hm.Cells, ShouldResemble, [][]int{
				{1, 0, 1},
				{0, 1, 1},
				{0, 2, 1},
			})
			So(hm.Max, ShouldEqual, 2)
		})
	})
}

func TestMostSuccessful(t *testing.T) {
	Convey("Given the fixture dataset", t, func() {
		ds := testdataset.Dataset()

		Convey("When ranking across all sports", func() {
			got, err := analysis.MostSuccessful(ds, "Overall", 0)

			Convey("Then every medal row counts and ties are ordered by name", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 5)
				So(got[0], ShouldResemble, types.AthleteRank{Name: "Alice", Medals: 3, Sport: "Swimming", Region: "USA"})
				names := []string{got[1].Name, got[2].Name, got[3].Name, got[4].Name}
				So(names, ShouldResemble, []string{"Beth", "Carl", "Olav", "Zed"})
				So(got[4].Region, ShouldEqual, "")
			})
		})

		Convey("When ranking within one sport", func() {
			got, err := analysis.MostSuccessful(ds, "Rowing", 0)

			Convey("Then only that sport's medals count", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []types.AthleteRank{
					{Name: "Carl", Medals: 1, Sport: "Rowing", Region: "UK"},
					{Name: "Olav", Medals: 1, Sport: "Rowing", Region: "Norway"},
				})
			})
		})

		Convey("When a limit is given", func() {
			got, _ := analysis.MostSuccessful(ds, "", 2)

			Convey("Then the table is cut", func() {
				So(got, ShouldHaveLength, 2)
				So(got[1].Name, ShouldEqual, "Beth")
			})
		})

		Convey("When the sport is unknown", func() {
			_, err := analysis.MostSuccessful(ds, "Quidditch", 0)

			Convey("Then not found is returned", func() {
				So(errors.Is(err, analysis.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestOverallStats(t *testing.T) {
	Convey("Given the fixture dataset", t, func() {
		stats := analysis.OverallStats(testdataset.Dataset())

		Convey("Then the 1906 Games are not an edition", func() {
			So(stats, ShouldResemble, types.OverallStats{
				Editions:   2,
				HostCities: 2,
				Sports:     3,
				Events:     4,
				Nations:    3,
				Athletes:   6,
			})
		})
	})
}
