// Package dashboard turns the monthly cash flow of a dashboard summary into
// the monthly and cumulative series drawn by the dashboard chart.
package dashboard

import (
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Series holds one value per month of the chart.
type Series []decimal.Decimal

// Floats converts the series for JSON consumers that expect numbers.
func (s Series) Floats() []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = v.InexactFloat64()
	}
	return out
}

// Cumulative returns the running total of the series.
func (s Series) Cumulative() Series {
	out := make(Series, len(s))
	total := decimal.Zero
	for i, v := range s {
		total = total.Add(v)
		out[i] = total
	}
	return out
}

// Flow is the cash flow of a program laid out month by month.
type Flow struct {
	// Months are the keys of the cash flow in ascending order
	Months []types.Month

	Baseline Series
	Planned  Series
	Actual   Series
}

// NewFlow orders the cash flow by month. Missing values count as zero.
func NewFlow(cashFlow map[types.Month]models.CashFlowEntry) Flow {
	months := make([]types.Month, 0, len(cashFlow))
	for month := range cashFlow {
		months = append(months, month)
	}
	slices.SortFunc(months, func(a, b types.Month) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})

	f := Flow{
		Months:   months,
		Baseline: make(Series, len(months)),
		Planned:  make(Series, len(months)),
		Actual:   make(Series, len(months)),
	}

	for i, month := range months {
		entry := cashFlow[month]
		f.Baseline[i] = orZero(entry.Baseline)
		f.Planned[i] = orZero(entry.Planned)
		f.Actual[i] = orZero(entry.Actual)
	}

	return f
}

// Index returns the position of the month in the flow, or -1.
func (f Flow) Index(m types.Month) int {
	return slices.IndexFunc(f.Months, m.Equal)
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
