package printing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when no locale is configured or it does not parse
const DefaultLocale = "es-CO"

// Formatter renders amounts and labels for one locale
type Formatter struct {
	printer *message.Printer
	title   cases.Caser
}

// NewFormatter creates a formatter for a BCP 47 tag
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.MustParse(DefaultLocale)
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		title:   cases.Title(tag),
	}
}

// Money formats an amount with two decimals and the peso sign
func (f *Formatter) Money(amount decimal.Decimal) string {
	return "$ " + f.Decimal(amount, 2)
}

// Decimal formats a value with a fixed number of decimals and grouping
func (f *Formatter) Decimal(value decimal.Decimal, scale int) string {
	return f.printer.Sprint(number.Decimal(value.Round(int32(scale)).InexactFloat64(), number.Scale(scale)))
}

// Quantity drops the decimals of whole quantities
func (f *Formatter) Quantity(value decimal.Decimal) string {
	if value.Equal(value.Truncate(0)) {
		return f.Decimal(value, 0)
	}
	return f.Decimal(value, 3)
}

// Percent formats a percentage such as 19 as "19 %"
func (f *Formatter) Percent(value decimal.Decimal) string {
	return f.Quantity(value) + " %"
}

// Title capitalizes a display name
func (f *Formatter) Title(s string) string {
	return f.title.String(strings.ToLower(strings.TrimSpace(s)))
}
