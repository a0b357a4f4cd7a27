package taxconfig

import (
	"testing"

	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateTaxRate(t *testing.T) {
	tests := []struct {
		rate    string
		wantErr bool
	}{
		{"0", false},
		{"5.5", false},
		{"5.1234", false},
		{"5.12340", false},
		{"100", false},
		{"5.12345", true},
		{"0.00001", true},
		{"-0.01", true},
		{"100.0001", true},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			err := ValidateTaxRate(decimal.RequireFromString(tt.rate))
			if tt.wantErr {
				assert.True(t, ierr.IsValidation(err))
				assert.Equal(t, "tax_rate", ierr.ReportableDetails(err)["field"])
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateTaxRateRangeIgnoresPrecision(t *testing.T) {
	assert.NoError(t, ValidateTaxRateRange(decimal.RequireFromString("5.12345")))
	assert.True(t, ierr.IsValidation(ValidateTaxRateRange(decimal.NewFromInt(101))))
}
