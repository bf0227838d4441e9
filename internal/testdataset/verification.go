package testdataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/olympics/internal/domain/types"
	"github.com/okian/olympics/pkg/logger"
)

// ErrTallyMismatch is returned when a country's yearly medals do not add up
// to its row in the overall tally.
var ErrTallyMismatch = errors.New("medal tally mismatch")

// verifyTallies compares the overall tally with the per-country totals.
// Countries that were not queried are skipped.
func verifyTallies(ctx context.Context, tally types.MedalTally, totals map[string]int, stats *Stats) error {
	logger.Get().Info(ctx, "verifying medal tallies", logger.Int("countries", len(totals)))

	var errs []error
	for _, row := range tally.Rows {
		got, ok := totals[row.Label]
		if !ok {
			continue
		}
		if got != row.Total {
			stats.MismatchedTallies++
			errs = append(errs, fmt.Errorf("%w: %s has %d medals by year, %d in the tally", ErrTallyMismatch, row.Label, got, row.Total))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if err := verifyOrder(tally.Rows); err != nil {
		return err
	}
	logger.Get().Info(ctx, "medal tallies verified")
	return nil
}

// verifyOrder checks that tally rows are sorted by gold, silver, bronze descending.
func verifyOrder(rows []types.MedalTallyRow) error {
	for i := 1; i < len(rows); i++ {
		a, b := rows[i-1], rows[i]
		if a.Gold != b.Gold {
			if a.Gold < b.Gold {
				return fmt.Errorf("tally not sorted: %s before %s", a.Label, b.Label)
			}
			continue
		}
		if a.Silver != b.Silver {
			if a.Silver < b.Silver {
				return fmt.Errorf("tally not sorted: %s before %s", a.Label, b.Label)
			}
			continue
		}
		if a.Bronze < b.Bronze {
			return fmt.Errorf("tally not sorted: %s before %s", a.Label, b.Label)
		}
	}
	return nil
}
