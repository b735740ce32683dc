// Package ledger contains the logic of the ledger view: row
// classification, search and the descriptors of the editable fields.
package ledger

import (
	"strings"

	"github.com/program-ledger/console/internal/models"
	"github.com/ryanuber/go-glob"
)

// RowClass is the progress tier of a transaction.
type RowClass string

const (
	RowNone         RowClass = ""
	RowComplete     RowClass = "complete"
	RowInProgress   RowClass = "in-progress"
	RowBaselineOnly RowClass = "baseline-only"
)

// Classify returns the tier of the transaction. The first match wins:
//
//   - complete: actual date and amount are set
//   - in progress: planned date and amount are set
//   - baseline only: baseline date and amount are set, no planned field is
func Classify(t models.LedgerTransactionEditable) RowClass {
	switch {
	case t.Complete():
		return RowComplete
	case t.Planned():
		return RowInProgress
	case t.Baselined() && !t.AnyPlanned():
		return RowBaselineOnly
	default:
		return RowNone
	}
}

// CSSClass returns the class used to highlight rows of the tier.
func (c RowClass) CSSClass() string {
	switch c {
	case RowComplete:
		return "ledger-row-green"
	case RowInProgress:
		return "ledger-row-yellow"
	case RowBaselineOnly:
		return "ledger-row-gray"
	default:
		return ""
	}
}

// Matches reports whether the query occurs in the vendor, the description
// or the invoice number, ignoring case. An empty query matches everything,
// "*" in the query matches any text.
func Matches(t models.LedgerTransactionEditable, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	pattern := "*" + query + "*"

	fields := []string{t.VendorName, t.ExpenseDescription}
	if t.InvoiceNumber != nil {
		fields = append(fields, *t.InvoiceNumber)
	}

	for _, f := range fields {
		if glob.Glob(pattern, strings.ToLower(f)) {
			return true
		}
	}

	return false
}

// Search returns the transactions matching the query, in input order.
func Search(transactions []models.LedgerTransaction, query string) []models.LedgerTransaction {
	found := make([]models.LedgerTransaction, 0, len(transactions))
	for _, t := range transactions {
		if Matches(t.LedgerTransactionEditable, query) {
			found = append(found, t)
		}
	}
	return found
}

// InvoiceHref returns the link target for the invoice number.
func InvoiceHref(t models.LedgerTransactionEditable) string {
	if t.InvoiceLink == nil || strings.TrimSpace(*t.InvoiceLink) == "" {
		return "#"
	}
	return *t.InvoiceLink
}
