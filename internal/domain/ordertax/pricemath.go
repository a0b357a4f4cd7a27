package ordertax

import (
	"github.com/shopspring/decimal"
)

// amountPrecision is the number of decimal places every amount is rounded to
const amountPrecision = 2

var hundred = decimal.NewFromInt(100)

// Round2 rounds half up to two decimal places. Amounts in the engine are never
// negative, so rounding half away from zero is the same as half up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(amountPrecision)
}

// LineAmount is unitPrice * quantity plus the per line modifiers, rounded once
func LineAmount(item OrderItemForTax) decimal.Decimal {
	amount := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	if item.ModifiersPrice != nil {
		amount = amount.Add(*item.ModifiersPrice)
	}
	return Round2(amount)
}

// Sum adds already rounded amounts. The result is exact.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// PercentOf returns amount * rate / 100 without rounding
func PercentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

// ExtractInclusiveTax returns the tax contained in a gross amount,
// gross - gross / (1 + rate/100), without rounding
func ExtractInclusiveTax(gross, rate decimal.Decimal) decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(rate.Div(hundred))
	return gross.Sub(gross.Div(divisor))
}
