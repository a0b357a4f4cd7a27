package ordertax

import (
	"testing"
	"time"

	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAmount(t *testing.T, want string, got decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "%s: expected %s, got %s", label, want, got.String())
}

func item(id string, qty int, price string) OrderItemForTax {
	return OrderItemForTax{
		MenuItemID: id,
		Quantity:   qty,
		UnitPrice:  decimal.RequireFromString(price),
	}
}

func itemWithModifiers(id string, qty int, price, modifiers string) OrderItemForTax {
	it := item(id, qty, price)
	it.ModifiersPrice = lo.ToPtr(decimal.RequireFromString(modifiers))
	return it
}

func config(rate string, mutate ...func(c *taxconfig.TaxConfiguration)) *taxconfig.TaxConfiguration {
	c := &taxconfig.TaxConfiguration{
		ID:             "taxcfg_test",
		OrganizationID: "org_1",
		TaxType:        types.TaxTypeGST,
		TaxRate:        decimal.RequireFromString(rate),
		ServiceType:    types.ServiceTypeAll,
		IsDefault:      true,
		IsActive:       true,
		BaseModel: types.BaseModel{
			Status:    types.StatusPublished,
			UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, m := range mutate {
		m(c)
	}
	return c
}

func inclusive(c *taxconfig.TaxConfiguration) { c.IsPriceInclusive = true }
func exempt(c *taxconfig.TaxConfiguration)    { c.IsTaxExempt = true }

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		config        *taxconfig.TaxConfiguration
		items         []OrderItemForTax
		wantSubtotal  string
		wantTax       string
		wantTotal     string
		wantMessage   string
		wantExempt    bool
		wantInclusive bool
	}{
		{
			name:         "exclusive_rounding_boundary",
			config:       config("5.5"),
			items:        []OrderItemForTax{item("paneer", 2, "150.00")},
			wantSubtotal: "300.00",
			wantTax:      "16.50",
			wantTotal:    "316.50",
		},
		{
			name:          "inclusive_boundary",
			config:        config("18", inclusive),
			items:         []OrderItemForTax{item("thali", 1, "118.00")},
			wantSubtotal:  "100.00",
			wantTax:       "18.00",
			wantTotal:     "118.00",
			wantInclusive: true,
		},
		{
			name:         "zero_rate_exclusive",
			config:       config("0"),
			items:        []OrderItemForTax{item("tea", 3, "20.00")},
			wantSubtotal: "60.00",
			wantTax:      "0.00",
			wantTotal:    "60.00",
		},
		{
			name:         "exempt_ignores_rate",
			config:       config("28", exempt),
			items:        []OrderItemForTax{item("water", 2, "25.00")},
			wantSubtotal: "50.00",
			wantTax:      "0",
			wantTotal:    "50.00",
			wantExempt:   true,
		},
		{
			name:         "absent_configuration_fallback",
			config:       nil,
			items:        []OrderItemForTax{item("dosa", 1, "80.00"), item("vada", 2, "30.00")},
			wantSubtotal: "140.00",
			wantTax:      "0",
			wantTotal:    "140.00",
			wantMessage:  MessageTaxAtCheckout,
			wantExempt:   true,
		},
		{
			name:   "modifiers_added_once_per_line",
			config: config("10"),
			items: []OrderItemForTax{
				itemWithModifiers("pizza", 2, "200.00", "35.50"),
			},
			wantSubtotal: "435.50",
			wantTax:      "43.55",
			wantTotal:    "479.05",
		},
		{
			name:   "line_rounding_before_summation",
			config: config("0"),
			items: []OrderItemForTax{
				item("a", 1, "0.004"),
				item("b", 1, "0.004"),
			},
			// each line rounds to 0.00, rounding the raw sum would give 0.01
			wantSubtotal: "0.00",
			wantTax:      "0.00",
			wantTotal:    "0.00",
		},
		{
			name:   "half_up_per_line",
			config: config("0"),
			items: []OrderItemForTax{
				item("a", 1, "0.125"),
				item("b", 1, "0.125"),
			},
			// 0.13 + 0.13, rounding the raw sum would give 0.25
			wantSubtotal: "0.26",
			wantTax:      "0.00",
			wantTotal:    "0.26",
		},
		{
			name:          "inclusive_non_terminating_division",
			config:        config("5", inclusive),
			items:         []OrderItemForTax{item("combo", 1, "100.00")},
			wantSubtotal:  "95.24",
			wantTax:       "4.76",
			wantTotal:     "100.00",
			wantInclusive: true,
		},
		{
			name:         "exclusive_tax_rounds_half_up",
			config:       config("12.5"),
			items:        []OrderItemForTax{item("cake", 1, "99.99")},
			wantSubtotal: "99.99",
			wantTax:      "12.50",
			wantTotal:    "112.49",
		},
		{
			name:         "empty_order",
			config:       config("5"),
			items:        nil,
			wantSubtotal: "0",
			wantTax:      "0",
			wantTotal:    "0",
		},
		{
			name:         "full_rate",
			config:       config("100"),
			items:        []OrderItemForTax{item("luxury", 1, "10.00")},
			wantSubtotal: "10.00",
			wantTax:      "10.00",
			wantTotal:    "20.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := Compute(tt.config, tt.items)
			require.NoError(t, err)

			assertAmount(t, tt.wantSubtotal, totals.SubtotalAmount, "subtotal")
			assertAmount(t, tt.wantTax, totals.TaxAmount, "tax")
			assertAmount(t, tt.wantTotal, totals.TotalAmount, "total")
			assertAmount(t, tt.wantTax, totals.TaxBreakdown.TaxAmount, "breakdown tax")
			assert.Equal(t, tt.wantMessage, totals.DisplayMessage)
			assert.Equal(t, tt.wantExempt, totals.TaxBreakdown.IsTaxExempt)
			assert.Equal(t, tt.wantInclusive, totals.TaxBreakdown.IsPriceInclusive)

			if tt.config == nil {
				assert.True(t, totals.TaxBreakdown.TaxRate.IsZero())
			} else {
				assert.True(t, tt.config.TaxRate.Equal(totals.TaxBreakdown.TaxRate))
			}
		})
	}
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		config    *taxconfig.TaxConfiguration
		items     []OrderItemForTax
		wantField string
	}{
		{
			name:      "zero_quantity",
			config:    config("5"),
			items:     []OrderItemForTax{item("a", 0, "10.00")},
			wantField: "items[0].quantity",
		},
		{
			name:      "negative_quantity",
			config:    nil,
			items:     []OrderItemForTax{item("a", 1, "10.00"), item("b", -2, "10.00")},
			wantField: "items[1].quantity",
		},
		{
			name:      "negative_unit_price",
			config:    config("5"),
			items:     []OrderItemForTax{item("a", 1, "-0.01")},
			wantField: "items[0].unit_price",
		},
		{
			name:      "negative_modifiers",
			config:    config("5"),
			items:     []OrderItemForTax{itemWithModifiers("a", 1, "10.00", "-1")},
			wantField: "items[0].modifiers_price",
		},
		{
			name:      "rate_above_hundred",
			config:    config("100.01"),
			items:     []OrderItemForTax{item("a", 1, "10.00")},
			wantField: "tax_rate",
		},
		{
			name:      "negative_rate",
			config:    config("-1"),
			items:     []OrderItemForTax{item("a", 1, "10.00")},
			wantField: "tax_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.config, tt.items)
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
			assert.Equal(t, tt.wantField, ierr.ReportableDetails(err)["field"])
		})
	}
}

func TestComputeIdentities(t *testing.T) {
	prices := []string{"0.01", "0.05", "1.99", "9.995", "17.45", "118.00", "149.99", "999.95", "1234.567"}
	rates := []string{"0", "0.5", "2.5", "5", "5.5", "12", "12.5", "18", "28", "33.333", "100"}
	quantities := []int{1, 2, 3, 7}

	for _, price := range prices {
		for _, rate := range rates {
			for _, qty := range quantities {
				items := []OrderItemForTax{item("x", qty, price), itemWithModifiers("y", 1, price, "0.10")}

				excl, err := Compute(config(rate), items)
				require.NoError(t, err)
				assert.True(t, excl.TotalAmount.Equal(Round2(excl.SubtotalAmount.Add(excl.TaxAmount))),
					"exclusive identity price=%s rate=%s qty=%d", price, rate, qty)

				incl, err := Compute(config(rate, inclusive), items)
				require.NoError(t, err)
				raw := Sum(LineAmount(items[0]), LineAmount(items[1]))
				assert.True(t, incl.TotalAmount.Equal(raw), "inclusive total price=%s rate=%s", price, rate)
				assert.True(t, Round2(incl.SubtotalAmount.Add(incl.TaxAmount)).Equal(incl.TotalAmount),
					"inclusive identity price=%s rate=%s qty=%d", price, rate, qty)

				ex, err := Compute(config(rate, exempt, inclusive), items)
				require.NoError(t, err)
				assert.True(t, ex.TaxAmount.IsZero())
				assert.True(t, ex.TotalAmount.Equal(ex.SubtotalAmount))
			}
		}
	}
}
