package ordertax

import (
	"strings"

	"github.com/flexprice/ordertax/internal/types"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount with the currency symbol, a thousands
// separator and two decimal places, e.g. ₹1,234.50
func FormatCurrency(amount decimal.Decimal, currency string) string {
	fixed := amount.StringFixed(amountPrecision)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + types.GetCurrencySymbol(currency) + groupThousands(whole) + "." + frac
}

// FormatRate renders a percentage with two decimal places, e.g. 5.50%
func FormatRate(rate decimal.Decimal) string {
	return rate.StringFixed(amountPrecision) + "%"
}

// FormatCurrencyString formats textual input. Non-numeric input formats as zero.
func FormatCurrencyString(amount string, currency string) string {
	return FormatCurrency(parseOrZero(amount), currency)
}

// FormatRateString formats textual input. Non-numeric input formats as zero.
func FormatRateString(rate string) string {
	return FormatRate(parseOrZero(rate))
}

func parseOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
