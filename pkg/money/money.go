// Package money handles Brazilian real amounts.
//
// Amounts are stored as integer centavos (Cents) so that totals never drift
// from floating point error. Parsing follows the dashboard's input rules:
// everything except digits and the comma is stripped, the first comma is the
// decimal separator and any later commas are ignored. Input that cannot be
// read as a number becomes zero.
//
// Formatting uses the pt-BR convention: "." groups thousands and "," separates
// the centavos, e.g. "R$ 1.234,50".
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is an amount in centavos.
type Cents int64

// CurrencySymbol prefixes formatted amounts.
const CurrencySymbol = "R$"

var (
	hundred  = decimal.NewFromInt(100)
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// FromDecimal converts an amount in reais to cents, rounding half away from zero.
// Amounts that do not fit in Cents are coerced to zero.
func FromDecimal(d decimal.Decimal) Cents {
	return fromCentsDecimal(d.Mul(hundred).Round(0))
}

func fromCentsDecimal(c decimal.Decimal) Cents {
	if c.LessThan(minCents) || c.GreaterThan(maxCents) {
		return 0
	}
	return Cents(c.IntPart())
}

// FromReais converts a float amount in reais to cents.
func FromReais(v float64) Cents {
	return FromDecimal(decimal.NewFromFloat(v))
}

// Decimal returns the amount in reais.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Reais returns the amount in reais as a float, for display and logging only.
func (c Cents) Reais() float64 {
	return c.Decimal().InexactFloat64()
}

// String implements fmt.Stringer using the currency format.
func (c Cents) String() string {
	return FormatBRL(c)
}

// ParseDecimal normalizes free-form user input into a decimal number.
// It never fails: unreadable input yields zero.
func ParseDecimal(s string) decimal.Decimal {
	var b strings.Builder
	seenComma := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',' && !seenComma:
			b.WriteByte('.')
			seenComma = true
		}
	}

	normalized := strings.TrimSuffix(b.String(), ".")
	if normalized == "" {
		return decimal.Zero
	}
	if strings.HasPrefix(normalized, ".") {
		normalized = "0" + normalized
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Parse reads a currency string such as "R$ 1.234,50" into cents.
func Parse(s string) Cents {
	return FromDecimal(ParseDecimal(s))
}

// Format renders the amount without the currency symbol: "1.234,50".
func Format(c Cents) string {
	neg := c < 0
	if neg {
		c = -c
	}

	whole := strconv.FormatInt(int64(c)/100, 10)
	frac := int64(c) % 100

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}

// FormatBRL renders the amount with the currency symbol: "R$ 1.234,50".
// Negative amounts are rendered as "-R$ 1,00".
func FormatBRL(c Cents) string {
	if c < 0 {
		return "-" + CurrencySymbol + " " + Format(-c)
	}
	return CurrencySymbol + " " + Format(c)
}

// Mask applies the typing mask used by currency inputs: the digits typed so
// far are read as centavos, so "12345" becomes "R$ 123,45". Input without any
// digit yields an empty string; more digits than Cents can hold yield zero.
func Mask(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return ""
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return ""
	}
	return FormatBRL(fromCentsDecimal(d))
}

// Percent returns pct percent of c, rounded to the cent.
func (c Cents) Percent(pct decimal.Decimal) Cents {
	return FromDecimal(c.Decimal().Mul(pct).Div(hundred))
}

// MulDecimal multiplies the amount by factor, rounded to the cent.
func (c Cents) MulDecimal(factor decimal.Decimal) Cents {
	return FromDecimal(c.Decimal().Mul(factor))
}
