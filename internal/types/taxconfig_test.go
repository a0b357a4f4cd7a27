package types

import (
	"testing"

	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestServiceTypeValidate(t *testing.T) {
	for _, st := range ServiceTypes {
		assert.NoError(t, st.Validate(), st.String())
	}

	for _, st := range []ServiceType{"", "dine_in", "PICKUP"} {
		err := st.Validate()
		assert.Error(t, err, st.String())
		assert.True(t, ierr.IsValidation(err))
	}
}

func TestTaxTypeValidate(t *testing.T) {
	assert.NoError(t, TaxTypeGST.Validate())
	assert.NoError(t, TaxTypeVAT.Validate())

	err := TaxType("gst").Validate()
	assert.True(t, ierr.IsValidation(err))
	assert.Equal(t, "tax_type", ierr.ReportableDetails(err)["field"])
}

func TestTaxConfigurationFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  TaxConfigurationFilter
		wantErr bool
	}{
		{name: "defaults", filter: *NewTaxConfigurationFilter()},
		{name: "no limit", filter: *NewNoLimitTaxConfigurationFilter()},
		{
			name: "limit too large",
			filter: TaxConfigurationFilter{
				QueryFilter: &QueryFilter{Limit: lo.ToPtr(5000)},
			},
			wantErr: true,
		},
		{
			name: "bad order",
			filter: TaxConfigurationFilter{
				QueryFilter: &QueryFilter{Limit: lo.ToPtr(10), Order: lo.ToPtr("sideways")},
			},
			wantErr: true,
		},
		{
			name: "unknown sort field",
			filter: TaxConfigurationFilter{
				QueryFilter: &QueryFilter{Limit: lo.ToPtr(10), Sort: lo.ToPtr("organization_id; drop table")},
			},
			wantErr: true,
		},
		{
			name: "deleted status",
			filter: TaxConfigurationFilter{
				QueryFilter: &QueryFilter{Limit: lo.ToPtr(10), Status: lo.ToPtr(StatusDeleted)},
			},
			wantErr: true,
		},
		{
			name: "bad service type",
			filter: TaxConfigurationFilter{
				ServiceTypes: []ServiceType{ServiceTypeDineIn, "BOGUS"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				assert.True(t, ierr.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetCurrencySymbol(t *testing.T) {
	assert.Equal(t, "₹", GetCurrencySymbol("INR"))
	assert.Equal(t, "$", GetCurrencySymbol("usd"))
	assert.Equal(t, "XYZ", GetCurrencySymbol("xyz"))
}
