package models

import (
	"github.com/program-ledger/console/internal/types"
	"github.com/shopspring/decimal"
)

// LedgerTransaction is a single cost line tracked across its baseline,
// planned and actual date/amount pairs.
type LedgerTransaction struct {
	Model
	LedgerTransactionEditable
	CreatedAt *types.Timestamp `json:"created_at,omitempty"`
}

// LedgerTransactionEditable contains all fields a user can set.
//
// Optional fields never carry the omitempty option, an unset value is sent
// as null.
type LedgerTransactionEditable struct {
	ProgramID          types.ID            `json:"program_id"`
	VendorName         string              `json:"vendor_name"`
	ExpenseDescription string              `json:"expense_description"`
	WbsCategoryID      *types.ID           `json:"wbs_category_id"`
	WbsSubcategoryID   *types.ID           `json:"wbs_subcategory_id"`
	BaselineDate       *types.Date         `json:"baseline_date"`
	BaselineAmount     decimal.NullDecimal `json:"baseline_amount"`
	PlannedDate        *types.Date         `json:"planned_date"`
	PlannedAmount      decimal.NullDecimal `json:"planned_amount"`
	ActualDate         *types.Date         `json:"actual_date"`
	ActualAmount       decimal.NullDecimal `json:"actual_amount"`
	InvoiceLink        *string             `json:"invoice_link"`
	InvoiceNumber      *string             `json:"invoice_number"`
	Notes              *string             `json:"notes"`
}

// Complete reports whether both actual fields are present.
func (t LedgerTransactionEditable) Complete() bool {
	return t.ActualDate != nil && t.ActualAmount.Valid
}

// Planned reports whether both planned fields are present.
func (t LedgerTransactionEditable) Planned() bool {
	return t.PlannedDate != nil && t.PlannedAmount.Valid
}

// AnyPlanned reports whether at least one planned field is present.
func (t LedgerTransactionEditable) AnyPlanned() bool {
	return t.PlannedDate != nil || t.PlannedAmount.Valid
}

// Baselined reports whether both baseline fields are present.
func (t LedgerTransactionEditable) Baselined() bool {
	return t.BaselineDate != nil && t.BaselineAmount.Valid
}

// SetCategory selects a category and clears the subcategory in the same step.
// A subcategory is only meaningful for the category it was chosen under.
func (t *LedgerTransactionEditable) SetCategory(id *types.ID) {
	t.WbsCategoryID = id
	t.WbsSubcategoryID = nil
}

// TransactionsOf returns the transactions booked on the program, in input order.
func TransactionsOf(transactions []LedgerTransaction, programID types.ID) []LedgerTransaction {
	scoped := make([]LedgerTransaction, 0)
	for _, t := range transactions {
		if t.ProgramID == programID {
			scoped = append(scoped, t)
		}
	}
	return scoped
}
