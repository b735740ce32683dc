package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/program-ledger/console/internal/format"
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
	"github.com/shopspring/decimal"
)

var (
	ErrRequired      = errors.New("this field is required")
	ErrInvalidAmount = errors.New("the amount must be a number")
	ErrUnknownField  = errors.New("the field does not exist or cannot be edited")
	ErrSubcategory   = errors.New("the subcategory does not belong to the selected category")
)

// Kind decides how a field is parsed and which input renders it.
type Kind string

const (
	KindText        Kind = "text"
	KindLink        Kind = "url"
	KindDate        Kind = "date"
	KindAmount      Kind = "amount"
	KindCategory    Kind = "category"
	KindSubcategory Kind = "subcategory"
)

// Field describes one editable field of a transaction.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool

	// Column is false for fields that are only edited in forms.
	Column bool

	set   func(t *models.LedgerTransactionEditable, value string) error
	value func(t models.LedgerTransactionEditable) string
}

// Set parses value into the field of t. Empty values of optional fields
// become null.
func (f Field) Set(t *models.LedgerTransactionEditable, value string) error {
	value = strings.TrimSpace(value)
	if f.Required && value == "" {
		return ErrRequired
	}
	return f.set(t, value)
}

// Value returns the raw input value of the field.
func (f Field) Value(t models.LedgerTransactionEditable) string {
	return f.value(t)
}

// Fields lists the editable fields in column order.
var Fields = []Field{
	{
		Name: "vendor_name", Label: "Vendor", Kind: KindText, Required: true, Column: true,
		set:   func(t *models.LedgerTransactionEditable, v string) error { t.VendorName = v; return nil },
		value: func(t models.LedgerTransactionEditable) string { return t.VendorName },
	},
	{
		Name: "expense_description", Label: "Description", Kind: KindText, Required: true, Column: true,
		set:   func(t *models.LedgerTransactionEditable, v string) error { t.ExpenseDescription = v; return nil },
		value: func(t models.LedgerTransactionEditable) string { return t.ExpenseDescription },
	},
	{
		Name: "wbs_category_id", Label: "WBS Category", Kind: KindCategory, Column: true,
		set: func(t *models.LedgerTransactionEditable, v string) error {
			id, err := types.ParseOptionalID(v)
			if err != nil {
				return err
			}
			t.SetCategory(id)
			return nil
		},
		value: func(t models.LedgerTransactionEditable) string { return optionalID(t.WbsCategoryID) },
	},
	{
		Name: "wbs_subcategory_id", Label: "WBS Subcategory", Kind: KindSubcategory, Column: true,
		set: func(t *models.LedgerTransactionEditable, v string) error {
			id, err := types.ParseOptionalID(v)
			if err != nil {
				return err
			}
			t.WbsSubcategoryID = id
			return nil
		},
		value: func(t models.LedgerTransactionEditable) string { return optionalID(t.WbsSubcategoryID) },
	},
	{
		Name: "invoice_number", Label: "Invoice #", Kind: KindText, Column: true,
		set:   func(t *models.LedgerTransactionEditable, v string) error { t.InvoiceNumber = optionalText(v); return nil },
		value: func(t models.LedgerTransactionEditable) string { return text(t.InvoiceNumber) },
	},
	{
		Name: "invoice_link", Label: "Invoice Link", Kind: KindLink,
		set:   func(t *models.LedgerTransactionEditable, v string) error { t.InvoiceLink = optionalText(v); return nil },
		value: func(t models.LedgerTransactionEditable) string { return text(t.InvoiceLink) },
	},
	dateField("baseline_date", "Baseline Date", func(t *models.LedgerTransactionEditable) **types.Date { return &t.BaselineDate }),
	amountField("baseline_amount", "Baseline Amt", func(t *models.LedgerTransactionEditable) *decimal.NullDecimal { return &t.BaselineAmount }),
	dateField("planned_date", "Planned Date", func(t *models.LedgerTransactionEditable) **types.Date { return &t.PlannedDate }),
	amountField("planned_amount", "Planned Amt", func(t *models.LedgerTransactionEditable) *decimal.NullDecimal { return &t.PlannedAmount }),
	dateField("actual_date", "Actual Date", func(t *models.LedgerTransactionEditable) **types.Date { return &t.ActualDate }),
	amountField("actual_amount", "Actual Amt", func(t *models.LedgerTransactionEditable) *decimal.NullDecimal { return &t.ActualAmount }),
	{
		Name: "notes", Label: "Notes", Kind: KindText, Column: true,
		set:   func(t *models.LedgerTransactionEditable, v string) error { t.Notes = optionalText(v); return nil },
		value: func(t models.LedgerTransactionEditable) string { return text(t.Notes) },
	},
}

// FieldByName returns the descriptor of the field.
func FieldByName(name string) (Field, error) {
	for _, f := range Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Columns returns the fields shown as table columns.
func Columns() []Field {
	columns := make([]Field, 0, len(Fields))
	for _, f := range Fields {
		if f.Column {
			columns = append(columns, f)
		}
	}
	return columns
}

func dateField(name, label string, ref func(*models.LedgerTransactionEditable) **types.Date) Field {
	return Field{
		Name: name, Label: label, Kind: KindDate, Column: true,
		set: func(t *models.LedgerTransactionEditable, v string) error {
			d, err := types.ParseOptionalDate(v)
			if err != nil {
				return err
			}
			*ref(t) = d
			return nil
		},
		value: func(t models.LedgerTransactionEditable) string {
			d := *ref(&t)
			if d == nil {
				return ""
			}
			return d.String()
		},
	}
}

func amountField(name, label string, ref func(*models.LedgerTransactionEditable) *decimal.NullDecimal) Field {
	return Field{
		Name: name, Label: label, Kind: KindAmount, Column: true,
		set: func(t *models.LedgerTransactionEditable, v string) error {
			if v == "" {
				*ref(t) = decimal.NullDecimal{}
				return nil
			}

			d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
			if err != nil {
				return ErrInvalidAmount
			}
			*ref(t) = decimal.NewNullDecimal(d)
			return nil
		},
		value: func(t models.LedgerTransactionEditable) string {
			return format.Decimal(*ref(&t))
		},
	}
}

func optionalID(id *types.ID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func optionalText(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func text(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
