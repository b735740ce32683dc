package ledger

import (
	"net/url"
	"sort"
	"strings"

	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
	"github.com/program-ledger/console/internal/wbs"
)

// FieldErrors maps field names to the problem with their value.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	messages := make([]string, 0, len(names))
	for _, name := range names {
		label := name
		if f, err := FieldByName(name); err == nil {
			label = f.Label
		}
		messages = append(messages, label+": "+e[name])
	}
	return strings.Join(messages, "; ")
}

// ParseDraft reads a transaction form. Every field is parsed, so the draft
// keeps all input even if some values are invalid.
func ParseDraft(values url.Values, programID types.ID, idx wbs.Index) (models.LedgerTransactionEditable, FieldErrors) {
	draft := models.LedgerTransactionEditable{ProgramID: programID}
	errs := FieldErrors{}

	for _, f := range Fields {
		if err := f.Set(&draft, values.Get(f.Name)); err != nil {
			errs[f.Name] = err.Error()
		}
	}

	Reconcile(&draft, idx)

	if len(errs) == 0 {
		return draft, nil
	}
	return draft, errs
}

// ApplyCell sets a single field of the transaction, as done when a grid
// cell is committed. A subcategory must be a child of the transaction's
// category, setting a category clears a subcategory that is not.
func ApplyCell(t *models.LedgerTransactionEditable, name, value string, idx wbs.Index) error {
	f, err := FieldByName(name)
	if err != nil {
		return err
	}

	before := *t
	if err := f.Set(t, value); err != nil {
		return FieldErrors{name: err.Error()}
	}

	if f.Kind == KindSubcategory && t.WbsSubcategoryID != nil {
		if t.WbsCategoryID == nil || !idx.BelongsTo(*t.WbsSubcategoryID, *t.WbsCategoryID) {
			*t = before
			return FieldErrors{name: ErrSubcategory.Error()}
		}
	}

	Reconcile(t, idx)
	return nil
}

// Reconcile clears a subcategory that is not a child of the selected
// category, including any subcategory when no category is selected.
func Reconcile(t *models.LedgerTransactionEditable, idx wbs.Index) {
	if t.WbsSubcategoryID == nil {
		return
	}

	if t.WbsCategoryID == nil || !idx.BelongsTo(*t.WbsSubcategoryID, *t.WbsCategoryID) {
		t.WbsSubcategoryID = nil
	}
}

// Values returns the draft as raw form values, keyed by field name.
func Values(t models.LedgerTransactionEditable) map[string]string {
	values := make(map[string]string, len(Fields))
	for _, f := range Fields {
		values[f.Name] = f.Value(t)
	}
	return values
}
