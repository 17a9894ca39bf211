package calculation

import (
	"time"

	"github.com/google/uuid"
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// TestLogger records messages by level
type TestLogger struct {
	Debugs []string
	Infos  []string
	Warns  []string
	Errors []string
}

func (l *TestLogger) Debugf(format string, args ...any) { l.Debugs = append(l.Debugs, format) }
func (l *TestLogger) Infof(format string, args ...any)  { l.Infos = append(l.Infos, format) }
func (l *TestLogger) Warnf(format string, args ...any)  { l.Warns = append(l.Warns, format) }
func (l *TestLogger) Errorf(format string, args ...any) { l.Errors = append(l.Errors, format) }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var reference = domain.NewYearMonth(2025, time.June)

// uniformWindow returns twelve identical months ending at reference
func uniformWindow(revenue, salaries, prolabore string) []domain.MonthlyAggregate {
	months := domain.MonthRange(reference, WindowLength)
	out := make([]domain.MonthlyAggregate, len(months))
	for i, m := range months {
		out[i] = domain.MonthlyAggregate{
			Month:            m,
			ServiceRevenue:   dec(revenue),
			PayrollSalaries:  dec(salaries),
			PayrollProlabore: dec(prolabore),
		}
	}
	return out
}

func category(name string, group domain.TaxGroup) domain.Category {
	return domain.Category{ID: uuid.New(), Name: name, TaxGroup: group}
}

func entry(date string, amount string, dir domain.Direction, cat domain.Category) domain.LedgerEntry {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.LedgerEntry{
		ID:         uuid.New(),
		Date:       t,
		Amount:     dec(amount),
		Direction:  dir,
		Category:   cat,
		CategoryID: cat.ID,
	}
}

func decFromInt(i int) decimal.Decimal {
	return decimal.NewFromInt(int64(i))
}
