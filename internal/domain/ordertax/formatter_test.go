package ordertax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"0", "inr", "₹0.00"},
		{"16.5", "inr", "₹16.50"},
		{"316.50", "INR", "₹316.50"},
		{"1234.5", "usd", "$1,234.50"},
		{"1234567.891", "usd", "$1,234,567.89"},
		{"999.995", "eur", "€1,000.00"},
		{"-42.1", "gbp", "-£42.10"},
		{"12", "xyz", "XYZ12.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+"_"+tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "5.50%", FormatRate(decimal.RequireFromString("5.5")))
	assert.Equal(t, "18.00%", FormatRate(decimal.NewFromInt(18)))
	assert.Equal(t, "0.00%", FormatRate(decimal.Zero))
	assert.Equal(t, "12.35%", FormatRate(decimal.RequireFromString("12.345")))
}

func TestFormatNonNumericInput(t *testing.T) {
	assert.Equal(t, "₹0.00", FormatCurrencyString("abc", "inr"))
	assert.Equal(t, "₹0.00", FormatCurrencyString("", "inr"))
	assert.Equal(t, "₹12.30", FormatCurrencyString(" 12.3 ", "inr"))
	assert.Equal(t, "0.00%", FormatRateString("NaN"))
	assert.Equal(t, "5.50%", FormatRateString("5.5"))
}
