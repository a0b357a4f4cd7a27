package ordertax

import (
	"fmt"

	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/shopspring/decimal"
)

// ValidateItems rejects malformed order lines. Nothing is coerced.
func ValidateItems(items []OrderItemForTax) error {
	for i, item := range items {
		if item.Quantity < 1 {
			return ierr.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return ierr.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "must not be negative")
		}
		if item.ModifiersPrice != nil && item.ModifiersPrice.IsNegative() {
			return ierr.NewValidationError(fmt.Sprintf("items[%d].modifiers_price", i), "must not be negative")
		}
	}
	return nil
}

// Compute derives order totals from the resolved configuration. A nil
// configuration produces the checkout fallback. Compute never blocks.
func Compute(config *taxconfig.TaxConfiguration, items []OrderItemForTax) (OrderTotals, error) {
	if err := ValidateItems(items); err != nil {
		return OrderTotals{}, err
	}

	lines := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineAmount(item))
	}
	rawSubtotal := Sum(lines...)

	if config == nil {
		return absentTotals(rawSubtotal), nil
	}

	if err := taxconfig.ValidateTaxRateRange(config.TaxRate); err != nil {
		return OrderTotals{}, err
	}

	var subtotal, tax, total decimal.Decimal
	switch {
	case config.IsTaxExempt:
		subtotal = rawSubtotal
		tax = decimal.Zero
		total = rawSubtotal
	case config.IsPriceInclusive:
		tax = Round2(ExtractInclusiveTax(rawSubtotal, config.TaxRate))
		subtotal = Round2(rawSubtotal.Sub(tax))
		total = rawSubtotal
	default:
		subtotal = rawSubtotal
		tax = Round2(PercentOf(rawSubtotal, config.TaxRate))
		total = Round2(subtotal.Add(tax))
	}

	return OrderTotals{
		SubtotalAmount: subtotal,
		TaxAmount:      tax,
		TotalAmount:    total,
		TaxBreakdown: TaxBreakdown{
			TaxRate:          config.TaxRate,
			TaxAmount:        tax,
			IsTaxExempt:      config.IsTaxExempt,
			IsPriceInclusive: config.IsPriceInclusive,
		},
	}, nil
}

// FallbackTotals computes subtotal-only totals for when no configuration can
// be applied, either because none exists or because resolution failed
func FallbackTotals(items []OrderItemForTax) (OrderTotals, error) {
	return Compute(nil, items)
}

func absentTotals(rawSubtotal decimal.Decimal) OrderTotals {
	return OrderTotals{
		SubtotalAmount: rawSubtotal,
		TaxAmount:      decimal.Zero,
		TotalAmount:    rawSubtotal,
		TaxBreakdown: TaxBreakdown{
			TaxRate:          decimal.Zero,
			TaxAmount:        decimal.Zero,
			IsTaxExempt:      true,
			IsPriceInclusive: false,
		},
		DisplayMessage: MessageTaxAtCheckout,
	}
}
