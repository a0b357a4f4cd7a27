package ordertax

import (
	"github.com/shopspring/decimal"
)

// MessageTaxAtCheckout is shown when no tax configuration could be applied
const MessageTaxAtCheckout = "Tax will be calculated at checkout"

// OrderItemForTax is a single priced line of a draft order
type OrderItemForTax struct {
	MenuItemID string          `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	// ModifiersPrice is added once per line, it is not multiplied by Quantity
	ModifiersPrice *decimal.Decimal `json:"modifiers_price,omitempty"`
}

// TaxBreakdown describes how the tax amount of an order was derived
type TaxBreakdown struct {
	TaxRate          decimal.Decimal `json:"tax_rate"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	IsTaxExempt      bool            `json:"is_tax_exempt"`
	IsPriceInclusive bool            `json:"is_price_inclusive"`
}

// OrderTotals is the only output of the engine. It is passed by value and
// never modified once built; a new calculation produces a new value.
type OrderTotals struct {
	SubtotalAmount decimal.Decimal `json:"subtotal_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TaxBreakdown   TaxBreakdown    `json:"tax_breakdown"`
	DisplayMessage string          `json:"display_message,omitempty"`
}

// IsFallback reports whether the totals were produced without a configuration
func (t OrderTotals) IsFallback() bool {
	return t.DisplayMessage != ""
}

// Equal compares two totals by value
func (t OrderTotals) Equal(other OrderTotals) bool {
	return t.SubtotalAmount.Equal(other.SubtotalAmount) &&
		t.TaxAmount.Equal(other.TaxAmount) &&
		t.TotalAmount.Equal(other.TotalAmount) &&
		t.TaxBreakdown.TaxRate.Equal(other.TaxBreakdown.TaxRate) &&
		t.TaxBreakdown.TaxAmount.Equal(other.TaxBreakdown.TaxAmount) &&
		t.TaxBreakdown.IsTaxExempt == other.TaxBreakdown.IsTaxExempt &&
		t.TaxBreakdown.IsPriceInclusive == other.TaxBreakdown.IsPriceInclusive &&
		t.DisplayMessage == other.DisplayMessage
}
