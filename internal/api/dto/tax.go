package dto

import (
	"fmt"
	"strings"

	"github.com/flexprice/ordertax/internal/domain/ordertax"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/flexprice/ordertax/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one priced line of a draft order
type OrderItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	// quantity must be at least 1
	Quantity int `json:"quantity"`
	// unit_price is a non-negative decimal string or number; it has no default
	UnitPrice *decimal.Decimal `json:"unit_price"`
	// modifiers_price is added once to the line, not per unit
	ModifiersPrice *decimal.Decimal `json:"modifiers_price,omitempty"`
}

// CalculateTaxRequest asks for the totals of a draft order
type CalculateTaxRequest struct {
	// organization_id is taken from the path
	OrganizationID string `json:"-"`

	ServiceType types.ServiceType `json:"service_type" validate:"required"`

	// cart_id orders recalculations of the same cart; results older than the
	// latest applied one for the cart are discarded
	CartID string `json:"cart_id,omitempty"`

	Items []OrderItemRequest `json:"items"`

	// currency is used for the formatted amounts only
	Currency string `json:"currency,omitempty"`
}

func (r *CalculateTaxRequest) Validate() error {
	if r.OrganizationID == "" {
		return ierr.NewValidationError("organization_id", "is required")
	}

	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.ServiceType.Validate(); err != nil {
		return err
	}

	if r.Currency != "" && !types.IsValidCurrency(r.Currency) {
		return ierr.NewValidationError("currency", "is not a supported currency")
	}

	for i, item := range r.Items {
		if item.UnitPrice == nil {
			return ierr.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "is required")
		}
	}

	return ordertax.ValidateItems(r.ToOrderItems())
}

// ToOrderItems converts the request lines into engine inputs
func (r *CalculateTaxRequest) ToOrderItems() []ordertax.OrderItemForTax {
	return lo.Map(r.Items, func(item OrderItemRequest, _ int) ordertax.OrderItemForTax {
		return ordertax.OrderItemForTax{
			MenuItemID:     item.MenuItemID,
			Quantity:       item.Quantity,
			UnitPrice:      lo.FromPtr(item.UnitPrice),
			ModifiersPrice: item.ModifiersPrice,
		}
	})
}

type TaxBreakdownResponse struct {
	TaxRate          string `json:"tax_rate"`
	TaxAmount        string `json:"tax_amount"`
	IsTaxExempt      bool   `json:"is_tax_exempt"`
	IsPriceInclusive bool   `json:"is_price_inclusive"`
}

// FormattedTotals carries display strings such as "₹1,234.50" and "5.50%"
type FormattedTotals struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
	TaxRate  string `json:"tax_rate"`
}

// CalculateTaxResponse holds amounts as fixed two place decimal strings
type CalculateTaxResponse struct {
	SubtotalAmount string               `json:"subtotal_amount"`
	TaxAmount      string               `json:"tax_amount"`
	TotalAmount    string               `json:"total_amount"`
	TaxBreakdown   TaxBreakdownResponse `json:"tax_breakdown"`
	DisplayMessage string               `json:"display_message,omitempty"`
	Currency       string               `json:"currency"`
	Formatted      FormattedTotals      `json:"formatted"`
	// sequence increases with every calculation; clients keep the highest one they saw
	Sequence uint64 `json:"sequence,omitempty"`
}

func NewCalculateTaxResponse(totals ordertax.OrderTotals, currency string, sequence uint64) *CalculateTaxResponse {
	if currency == "" {
		currency = types.DefaultCurrency
	}
	currency = strings.ToLower(currency)

	return &CalculateTaxResponse{
		SubtotalAmount: totals.SubtotalAmount.StringFixed(2),
		TaxAmount:      totals.TaxAmount.StringFixed(2),
		TotalAmount:    totals.TotalAmount.StringFixed(2),
		TaxBreakdown: TaxBreakdownResponse{
			TaxRate:          totals.TaxBreakdown.TaxRate.String(),
			TaxAmount:        totals.TaxBreakdown.TaxAmount.StringFixed(2),
			IsTaxExempt:      totals.TaxBreakdown.IsTaxExempt,
			IsPriceInclusive: totals.TaxBreakdown.IsPriceInclusive,
		},
		DisplayMessage: totals.DisplayMessage,
		Currency:       currency,
		Formatted: FormattedTotals{
			Subtotal: ordertax.FormatCurrency(totals.SubtotalAmount, currency),
			Tax:      ordertax.FormatCurrency(totals.TaxAmount, currency),
			Total:    ordertax.FormatCurrency(totals.TotalAmount, currency),
			TaxRate:  ordertax.FormatRate(totals.TaxBreakdown.TaxRate),
		},
		Sequence: sequence,
	}
}
