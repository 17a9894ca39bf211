package calculation

import (
	"github.com/labfinance/taxsim/internal/domain"
	"github.com/shopspring/decimal"
)

// WindowLength is the number of months in the rolling window
const WindowLength = 12

// WindowTotals are the trailing 12-month sums
type WindowTotals struct {
	RBT12      decimal.Decimal
	Folha12    decimal.Decimal
	Informal12 decimal.Decimal
	Excluded12 decimal.Decimal
	// Months is the padded window, oldest first, always WindowLength long.
	Months []domain.MonthlyAggregate
}

// ResolveWindow sums the last twelve aggregates (oldest first). Missing leading
// months are treated as all-zero. Informal and excluded payroll never enter Folha12.
func ResolveWindow(months []domain.MonthlyAggregate) WindowTotals {
	window := padWindow(months)
	totals := WindowTotals{Months: window}
	for _, m := range window {
		totals.RBT12 = totals.RBT12.Add(m.GrossRevenue())
		totals.Folha12 = totals.Folha12.Add(m.FatorRPayroll())
		totals.Informal12 = totals.Informal12.Add(m.InformalPayroll)
		totals.Excluded12 = totals.Excluded12.Add(m.ExcludedPayroll)
	}
	return totals
}

func padWindow(months []domain.MonthlyAggregate) []domain.MonthlyAggregate {
	if len(months) >= WindowLength {
		out := make([]domain.MonthlyAggregate, WindowLength)
		copy(out, months[len(months)-WindowLength:])
		return out
	}
	out := make([]domain.MonthlyAggregate, WindowLength)
	missing := WindowLength - len(months)
	var first domain.YearMonth
	if len(months) > 0 {
		first = months[0].Month
	}
	for i := 0; i < missing; i++ {
		var month domain.YearMonth
		if !first.IsZero() {
			month = first.AddMonths(i - missing)
		}
		out[i] = domain.EmptyAggregate(month)
	}
	copy(out[missing:], months)
	return out
}

// SlidingWindow keeps running RBT12 and Folha12 sums over the last twelve months
// pushed into it. Pushing adds the newest month and subtracts the one that falls
// out, so a trend over N reference months costs N updates instead of N*12 sums.
type SlidingWindow struct {
	ring    [WindowLength]domain.MonthlyAggregate
	next    int
	count   int
	rbt12   decimal.Decimal
	folha12 decimal.Decimal
}

// NewSlidingWindow creates an empty window (equivalent to twelve zero months)
func NewSlidingWindow() *SlidingWindow {
	return &SlidingWindow{}
}

// Push adds the newest month, evicting the oldest once twelve are held
func (w *SlidingWindow) Push(m domain.MonthlyAggregate) {
	if w.count == WindowLength {
		old := w.ring[w.next]
		w.rbt12 = w.rbt12.Sub(old.GrossRevenue())
		w.folha12 = w.folha12.Sub(old.FatorRPayroll())
	} else {
		w.count++
	}
	w.ring[w.next] = m
	w.next = (w.next + 1) % WindowLength
	w.rbt12 = w.rbt12.Add(m.GrossRevenue())
	w.folha12 = w.folha12.Add(m.FatorRPayroll())
}

// RBT12 returns the current trailing revenue
func (w *SlidingWindow) RBT12() decimal.Decimal { return w.rbt12 }

// Folha12 returns the current trailing payroll
func (w *SlidingWindow) Folha12() decimal.Decimal { return w.folha12 }

// Full reports whether twelve months have been pushed
func (w *SlidingWindow) Full() bool { return w.count == WindowLength }
