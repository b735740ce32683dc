// Package format renders amounts and timestamps for display.
package format

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is displayed for values the backend did not report.
const NotAvailable = "N/A"

// Formatter formats values for one locale, currency and time zone.
type Formatter struct {
	tag      language.Tag
	printer  *message.Printer
	symbol   string
	location *time.Location
	layout   string
}

// New returns a Formatter. If unit is the zero Unit, the currency of the
// locale's region is used.
func New(tag language.Tag, unit currency.Unit, location *time.Location) *Formatter {
	if unit == (currency.Unit{}) {
		if fromTag, conf := currency.FromTag(tag); conf != language.No {
			unit = fromTag
		} else {
			unit = currency.USD
		}
	}

	if location == nil {
		location = time.Local
	}

	printer := message.NewPrinter(tag)

	return &Formatter{
		tag:      tag,
		printer:  printer,
		symbol:   printer.Sprint(currency.Symbol(unit)),
		location: location,
		layout:   dateTimeLayout(tag),
	}
}

// Tag returns the locale the formatter renders for.
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// Symbol returns the currency symbol for the formatter's locale.
func (f *Formatter) Symbol() string {
	return f.symbol
}

// Location returns the time zone timestamps are displayed in.
func (f *Formatter) Location() *time.Location {
	return f.location
}

// Currency formats an amount with two decimal places, the currency symbol
// and thousands separators.
func (f *Formatter) Currency(d decimal.Decimal) string {
	return f.withSymbol(d, 2)
}

// NullCurrency is Currency for optional amounts. A missing amount is
// displayed as NotAvailable.
func (f *Formatter) NullCurrency(d decimal.NullDecimal) string {
	if !d.Valid {
		return NotAvailable
	}
	return f.Currency(d.Decimal)
}

// Whole formats an amount rounded to whole units with thousands separators.
// A missing amount is displayed as the empty string.
func (f *Formatter) Whole(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return f.number(d.Decimal, 0)
}

// Percent formats a ratio given in percent points, e.g. 12.5 as "12.5%".
func (f *Formatter) Percent(d decimal.NullDecimal) string {
	if !d.Valid {
		return NotAvailable
	}
	return f.number(d.Decimal, 1) + "%"
}

// DateTime formats a timestamp in the formatter's time zone using the
// conventions of its locale.
func (f *Formatter) DateTime(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.In(f.location).Format(f.layout)
}

// Relative describes t relative to now, e.g. "3 hours ago".
func (f *Formatter) Relative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Text returns s or NotAvailable for a missing value.
func Text(s *string) string {
	if s == nil {
		return NotAvailable
	}
	return *s
}

func (f *Formatter) withSymbol(d decimal.Decimal, scale int32) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + f.symbol + f.number(d, scale)
}

func (f *Formatter) number(d decimal.Decimal, scale int32) string {
	rounded := d.Round(scale)
	return f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(int(scale))))
}

// dateTimeLayout returns a time layout that follows the numeric
// date-time style of the locale.
func dateTimeLayout(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()

	switch {
	case base.String() == "en" && region.String() == "US":
		return "1/2/2006, 3:04:05 PM"
	case base.String() == "en":
		return "02/01/2006, 15:04:05"
	case base.String() == "de":
		return "2.1.2006, 15:04:05"
	case base.String() == "fr", base.String() == "es", base.String() == "it":
		return "02/01/2006 15:04:05"
	default:
		return "2006-01-02 15:04:05"
	}
}

// Decimal renders an optional amount as raw input value.
func Decimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
