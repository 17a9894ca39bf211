package calculation

import (
	"fmt"

	"github.com/labfinance/taxsim/internal/domain"
)

// AggregationStats describes what happened while folding entries
type AggregationStats struct {
	Entries         int
	OutOfRange      int
	HeuristicRouted int
}

// Aggregator folds categorized ledger entries into one aggregate per month
type Aggregator struct {
	Categorizer *Categorizer
	Logger      Logger
}

// NewAggregator creates an aggregator with the default categorizer
func NewAggregator() *Aggregator {
	return &Aggregator{Categorizer: NewCategorizer(), Logger: NopLogger{}}
}

// Aggregate returns exactly one aggregate per requested month, in the requested
// order. Months without entries come back all-zero; entries outside the range
// are ignored.
func (a *Aggregator) Aggregate(entries []domain.LedgerEntry, months []domain.YearMonth) ([]domain.MonthlyAggregate, AggregationStats, error) {
	stats := AggregationStats{Entries: len(entries)}

	result := make([]domain.MonthlyAggregate, len(months))
	index := make(map[domain.YearMonth]int, len(months))
	for i, m := range months {
		if _, dup := index[m]; dup {
			return nil, stats, fmt.Errorf("%w: month %s requested twice", domain.ErrInvalidReference, m)
		}
		index[m] = i
		result[i] = domain.EmptyAggregate(m)
	}

	for _, entry := range entries {
		i, ok := index[entry.Month()]
		if !ok {
			stats.OutOfRange++
			continue
		}
		inc, err := a.Categorizer.Categorize(entry)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to categorize entry dated %s: %w", entry.Date.Format("2006-01-02"), err)
		}
		if inc.Heuristic {
			stats.HeuristicRouted++
		}
		result[i] = result[i].Add(inc.Bucket, inc.Amount)
	}

	if stats.OutOfRange > 0 {
		a.logger().Debugf("aggregator: %d of %d entries outside %d-month range", stats.OutOfRange, stats.Entries, len(months))
	}
	if stats.HeuristicRouted > 0 {
		a.logger().Debugf("aggregator: %d personnel entries routed by category name", stats.HeuristicRouted)
	}
	return result, stats, nil
}

func (a *Aggregator) logger() Logger {
	if a.Logger == nil {
		return NopLogger{}
	}
	return a.Logger
}

// AlignMonths returns one aggregate per month of the range, taking values from
// the supplied aggregates and filling absent months with zero records.
func AlignMonths(aggregates []domain.MonthlyAggregate, months []domain.YearMonth) ([]domain.MonthlyAggregate, error) {
	byMonth := make(map[domain.YearMonth]domain.MonthlyAggregate, len(aggregates))
	for _, agg := range aggregates {
		if err := agg.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byMonth[agg.Month]; dup {
			return nil, fmt.Errorf("%w: duplicate aggregate for %s", domain.ErrInvalidReference, agg.Month)
		}
		byMonth[agg.Month] = agg
	}
	out := make([]domain.MonthlyAggregate, len(months))
	for i, m := range months {
		if agg, ok := byMonth[m]; ok {
			out[i] = agg
			continue
		}
		out[i] = domain.EmptyAggregate(m)
	}
	return out, nil
}
