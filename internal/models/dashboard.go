package models

import (
	"github.com/program-ledger/console/internal/types"
	"github.com/shopspring/decimal"
)

// DashboardSummary is the read-only aggregate the backend computes for a
// program as of a date.
//
// Numeric fields are nullable so that a field the backend left out can be
// told apart from zero.
type DashboardSummary struct {
	ProgramID       types.ID                      `json:"program_id"`
	AsOfDate        *types.Date                   `json:"as_of_date"`
	ActualsToDate   decimal.NullDecimal           `json:"actuals_to_date"`
	PlannedToDate   decimal.NullDecimal           `json:"planned_to_date"`
	ETC             decimal.NullDecimal           `json:"etc"`
	EAC             decimal.NullDecimal           `json:"eac"`
	MonthlyCashFlow map[types.Month]CashFlowEntry `json:"monthly_cash_flow"`
	VarianceAlerts  []VarianceAlert               `json:"variance_alerts"`
	TopVendors      []TopVendor                   `json:"top_vendors"`
}

// CashFlowEntry is the spend of one month. The backend keys the entries
// by "YYYY-MM", keys that are no month fail decoding.
type CashFlowEntry struct {
	Baseline decimal.NullDecimal `json:"baseline"`
	Planned  decimal.NullDecimal `json:"planned"`
	Actual   decimal.NullDecimal `json:"actual"`
}

type VarianceAlert struct {
	WbsCategoryID types.ID            `json:"wbs_category_id"`
	Planned       decimal.NullDecimal `json:"planned"`
	Actual        decimal.NullDecimal `json:"actual"`
	Variance      decimal.NullDecimal `json:"variance"`
}

type TopVendor struct {
	Vendor string              `json:"vendor"`
	Spend  decimal.NullDecimal `json:"spend"`
}
