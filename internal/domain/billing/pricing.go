package billing

import (
	"github.com/shopspring/decimal"
	"github.com/supermercado/backend/internal/domain/shared"
)

var (
	// Tolerance is the allowed difference when comparing money totals
	Tolerance = decimal.RequireFromString("0.01")

	hundred = decimal.NewFromInt(100)
)

// Round2 rounds half to even at two decimals. Every intermediate amount goes
// through it so replicated totals match exactly.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// WithinTolerance reports whether a and b differ by at most Tolerance
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// LineInput is what the cashier enters for one invoice line plus the
// tax percentage of the product.
type LineInput struct {
	Quantity           decimal.Decimal
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountValue      decimal.Decimal
	TaxPercentage      decimal.Decimal
}

// LineAmounts are the computed money values of one line
type LineAmounts struct {
	Gross       decimal.Decimal // round(qty * price)
	Discount    decimal.Decimal
	TaxableBase decimal.Decimal // gross - discount
	Tax         decimal.Decimal
	Total       decimal.Decimal // taxable base + tax
}

// Totals are the invoice-level sums
type Totals struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Net      decimal.Decimal
}

// Validate checks the ranges of a line input
func (in LineInput) Validate() error {
	if !in.Quantity.IsPositive() {
		return shared.NewValidationError("Quantity must be greater than zero")
	}
	if in.UnitPrice.IsNegative() {
		return shared.NewValidationError("Unit price cannot be negative")
	}
	if in.DiscountPercentage.IsNegative() || in.DiscountPercentage.GreaterThan(hundred) {
		return shared.NewValidationError("Discount percentage must be between 0 and 100")
	}
	if in.DiscountValue.IsNegative() {
		return shared.NewValidationError("Discount value cannot be negative")
	}
	if in.TaxPercentage.IsNegative() || in.TaxPercentage.GreaterThan(hundred) {
		return shared.NewValidationError("Tax percentage must be between 0 and 100")
	}
	return nil
}

// CalculateLine computes discount, tax and total of one line.
// A non-zero discount value takes precedence; otherwise it is derived from
// the percentage. The discount can never exceed the gross amount.
func CalculateLine(in LineInput) (LineAmounts, error) {
	if err := in.Validate(); err != nil {
		return LineAmounts{}, err
	}

	gross := Round2(in.Quantity.Mul(in.UnitPrice))

	discount := in.DiscountValue
	if discount.IsZero() {
		discount = Round2(gross.Mul(in.DiscountPercentage).Div(hundred))
	}
	if discount.GreaterThan(gross) {
		return LineAmounts{}, shared.NewValidationError(
			"Discount %s exceeds line gross amount %s", discount.StringFixed(2), gross.StringFixed(2))
	}

	base := gross.Sub(discount)
	tax := Round2(base.Mul(in.TaxPercentage).Div(hundred))

	return LineAmounts{
		Gross:       gross,
		Discount:    discount,
		TaxableBase: base,
		Tax:         tax,
		Total:       base.Add(tax),
	}, nil
}

// SumTotals aggregates line amounts into invoice totals
func SumTotals(lines []LineAmounts) Totals {
	t := Totals{
		Gross:    decimal.Zero,
		Discount: decimal.Zero,
		Tax:      decimal.Zero,
	}
	for _, l := range lines {
		t.Gross = t.Gross.Add(l.Gross)
		t.Discount = t.Discount.Add(l.Discount)
		t.Tax = t.Tax.Add(l.Tax)
	}
	t.Net = t.Gross.Sub(t.Discount).Add(t.Tax)
	return t
}

// IsBalanced checks net = gross - discount + tax within tolerance
func (t Totals) IsBalanced() bool {
	return WithinTolerance(t.Net, t.Gross.Sub(t.Discount).Add(t.Tax))
}

// SumAmounts adds up payment amounts
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum
}
