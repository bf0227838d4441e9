package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/okian/olympics/internal/domain/analysis"
	"github.com/okian/olympics/internal/domain/model"
	"github.com/okian/olympics/internal/domain/types"
	"github.com/okian/olympics/pkg/logger"
	"github.com/okian/olympics/pkg/metrics"
)

// Aggregation kinds, used as cache key prefixes and metric labels.
const (
	kindFilters        = "filters"
	kindMedalTally     = "medal_tally"
	kindOverview       = "overview"
	kindOverTime       = "over_time"
	kindEventHeatmap   = "event_heatmap"
	kindMostSuccessful = "most_successful"
	kindCountryMedals  = "country_medals"
	kindCountryHeatmap = "country_heatmap"
	kindCountryTop     = "country_top_athletes"
	kindAgeDist        = "age_distribution"
	kindHeightWeight   = "height_weight"
	kindMenVsWomen     = "men_vs_women"
)

// query memoizes compute under kind and the normalized selector values.
// compute sees the same normalized values as the cache key.
func query[T any](ctx context.Context, s *Service, kind string, compute func(ds *model.Dataset, sel []string) (T, error), selectors ...string) (T, error) {
	var zero T
	ds, err := s.current()
	if err != nil {
		return zero, err
	}
	metrics.RecordAggregation(kind)

	sel := make([]string, len(selectors))
	for i, v := range selectors {
		sel[i] = analysis.NormalizeSelector(v)
	}
	key := strings.Join(append([]string{kind}, sel...), "|")

	v, hit, err := s.results.GetOrCompute(ctx, key, func(context.Context) (any, error) {
		start := time.Now()
		out, err := compute(ds, sel)
		metrics.RecordAggregationLatency(kind, float64(time.Since(start).Microseconds())/1000)
		return out, err
	})
	if hit {
		metrics.RecordCacheHit(kind)
	} else {
		metrics.RecordCacheMiss(kind)
	}
	if err != nil {
		if !errors.Is(err, analysis.ErrNotFound) && !errors.Is(err, analysis.ErrInvalidFilter) {
			metrics.RecordAggregationError(kind)
			s.logger.Error(ctx, "aggregation failed", logger.String("kind", kind), logger.String("key", key), logger.Error(err))
		}
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}

// Filters returns every selector list.
func (s *Service) Filters(ctx context.Context) (types.Filters, error) {
	return query(ctx, s, kindFilters, func(ds *model.Dataset, _ []string) (types.Filters, error) {
		return analysis.Filters(ds), nil
	})
}

// MedalTally returns the tally for a year and country selection.
func (s *Service) MedalTally(ctx context.Context, year, country string) (types.MedalTally, error) {
	return query(ctx, s, kindMedalTally, func(ds *model.Dataset, sel []string) (types.MedalTally, error) {
		return analysis.FetchMedalTally(ds, sel[0], sel[1])
	}, year, country)
}

// Overview returns the headline stats and the three participation trends.
func (s *Service) Overview(ctx context.Context) (types.Overview, error) {
	return query(ctx, s, kindOverview, func(ds *model.Dataset, _ []string) (types.Overview, error) {
		var (
			ov  = types.Overview{Stats: analysis.OverallStats(ds)}
			err error
		)
		if ov.Nations, err = analysis.DataOverTime(ds, analysis.ColumnRegion); err != nil {
			return ov, err
		}
		if ov.Events, err = analysis.DataOverTime(ds, analysis.ColumnEvent); err != nil {
			return ov, err
		}
		ov.Athletes, err = analysis.DataOverTime(ds, analysis.ColumnAthlete)
		return ov, err
	})
}

// OverTime counts distinct values of column per edition.
func (s *Service) OverTime(ctx context.Context, column string) (types.OverTime, error) {
	return query(ctx, s, kindOverTime, func(ds *model.Dataset, sel []string) (types.OverTime, error) {
		return analysis.DataOverTime(ds, sel[0])
	}, strings.ToLower(column))
}

// EventHeatmap returns the sport by year event count matrix.
func (s *Service) EventHeatmap(ctx context.Context) (types.Heatmap, error) {
	return query(ctx, s, kindEventHeatmap, func(ds *model.Dataset, _ []string) (types.Heatmap, error) {
		return analysis.EventHeatmap(ds), nil
	})
}

// MostSuccessful ranks athletes by medals, optionally within a sport.
func (s *Service) MostSuccessful(ctx context.Context, sport string) ([]types.AthleteRank, error) {
	return query(ctx, s, kindMostSuccessful, func(ds *model.Dataset, sel []string) ([]types.AthleteRank, error) {
		return analysis.MostSuccessful(ds, sel[0], s.topAthletes)
	}, sport)
}

// CountryMedals returns a country's medal count per edition.
func (s *Service) CountryMedals(ctx context.Context, country string) ([]types.YearCount, error) {
	return query(ctx, s, kindCountryMedals, func(ds *model.Dataset, sel []string) ([]types.YearCount, error) {
		return analysis.YearwiseMedalTally(ds, sel[0])
	}, country)
}

// CountryHeatmap returns a country's sport by year medal matrix.
func (s *Service) CountryHeatmap(ctx context.Context, country string) (types.Heatmap, error) {
	return query(ctx, s, kindCountryHeatmap, func(ds *model.Dataset, sel []string) (types.Heatmap, error) {
		return analysis.CountryEventHeatmap(ds, sel[0])
	}, country)
}

// CountryTopAthletes ranks a country's athletes by medals.
func (s *Service) CountryTopAthletes(ctx context.Context, country string) ([]types.AthleteRank, error) {
	return query(ctx, s, kindCountryTop, func(ds *model.Dataset, sel []string) ([]types.AthleteRank, error) {
		return analysis.MostSuccessfulCountrywise(ds, sel[0], s.topCountryAthletes)
	}, country)
}

// AgeDistribution returns the four age density curves.
func (s *Service) AgeDistribution(ctx context.Context) ([]types.DensityCurve, error) {
	return query(ctx, s, kindAgeDist, func(ds *model.Dataset, _ []string) ([]types.DensityCurve, error) {
		return analysis.AgeDistribution(ds), nil
	})
}

// HeightWeight returns the height vs weight points, optionally within a sport.
func (s *Service) HeightWeight(ctx context.Context, sport string) ([]types.PhysicalPoint, error) {
	return query(ctx, s, kindHeightWeight, func(ds *model.Dataset, sel []string) ([]types.PhysicalPoint, error) {
		return analysis.WeightVHeight(ds, sel[0])
	}, sport)
}

// MenVsWomen returns male and female participation per edition.
func (s *Service) MenVsWomen(ctx context.Context) ([]types.GenderCount, error) {
	return query(ctx, s, kindMenVsWomen, func(ds *model.Dataset, _ []string) ([]types.GenderCount, error) {
		return analysis.MenVsWomen(ds), nil
	})
}

// CountryProfile bundles the three country views.
func (s *Service) CountryProfile(ctx context.Context, country string) (types.CountryProfile, error) {
	medals, err := s.CountryMedals(ctx, country)
	if err != nil {
		return types.CountryProfile{}, err
	}
	heatmap, err := s.CountryHeatmap(ctx, country)
	if err != nil {
		return types.CountryProfile{}, err
	}
	top, err := s.CountryTopAthletes(ctx, country)
	if err != nil {
		return types.CountryProfile{}, err
	}
	return types.CountryProfile{
		Country:     analysis.NormalizeSelector(country),
		Medals:      medals,
		Heatmap:     heatmap,
		TopAthletes: top,
	}, nil
}
