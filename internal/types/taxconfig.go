package types

import (
	"slices"
	"strings"

	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/samber/lo"
)

// ServiceType is the channel of consumption a tax configuration applies to
type ServiceType string

const (
	ServiceTypeDineIn   ServiceType = "DINE_IN"
	ServiceTypeTakeaway ServiceType = "TAKEAWAY"
	ServiceTypeDelivery ServiceType = "DELIVERY"
	// ServiceTypeAll is the catch-all scope used when no channel specific default exists
	ServiceTypeAll ServiceType = "ALL"
)

// ServiceTypes lists every supported service type
var ServiceTypes = []ServiceType{
	ServiceTypeDineIn,
	ServiceTypeTakeaway,
	ServiceTypeDelivery,
	ServiceTypeAll,
}

func (s ServiceType) String() string {
	return string(s)
}

func (s ServiceType) Validate() error {
	if !slices.Contains(ServiceTypes, s) {
		return ierr.NewError("invalid service type").
			WithHintf("Service type must be one of %s", strings.Join(lo.Map(ServiceTypes, func(st ServiceType, _ int) string {
				return st.String()
			}), ", ")).
			WithReportableDetails(map[string]any{
				"field":  "service_type",
				"reason": "unsupported value " + string(s),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TaxType is the kind of tax a configuration levies
type TaxType string

const (
	TaxTypeGST      TaxType = "GST"
	TaxTypeVAT      TaxType = "VAT"
	TaxTypeSalesTax TaxType = "SALES_TAX"
)

// TaxTypes lists every supported tax type
var TaxTypes = []TaxType{
	TaxTypeGST,
	TaxTypeVAT,
	TaxTypeSalesTax,
}

func (t TaxType) String() string {
	return string(t)
}

func (t TaxType) Validate() error {
	if !slices.Contains(TaxTypes, t) {
		return ierr.NewError("invalid tax type").
			WithHintf("Tax type must be one of %s", strings.Join(lo.Map(TaxTypes, func(tt TaxType, _ int) string {
				return tt.String()
			}), ", ")).
			WithReportableDetails(map[string]any{
				"field":  "tax_type",
				"reason": "unsupported value " + string(t),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TaxConfigurationFilter represents filters for tax configuration queries
type TaxConfigurationFilter struct {
	*QueryFilter
	TaxConfigurationIDs []string      `json:"tax_configuration_ids,omitempty" form:"tax_configuration_ids" validate:"omitempty"`
	ServiceTypes        []ServiceType `json:"service_types,omitempty" form:"service_types" validate:"omitempty"`
	IsActive            *bool         `json:"is_active,omitempty" form:"is_active"`
	IsDefault           *bool         `json:"is_default,omitempty" form:"is_default"`
}

// NewTaxConfigurationFilter creates a new TaxConfigurationFilter with default values
func NewTaxConfigurationFilter() *TaxConfigurationFilter {
	return &TaxConfigurationFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitTaxConfigurationFilter creates a new TaxConfigurationFilter with no pagination limits
func NewNoLimitTaxConfigurationFilter() *TaxConfigurationFilter {
	return &TaxConfigurationFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// Validate validates the TaxConfigurationFilter
func (f TaxConfigurationFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}

	for _, st := range f.ServiceTypes {
		if err := st.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// GetLimit implements BaseFilter
func (f TaxConfigurationFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter
func (f TaxConfigurationFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter
func (f TaxConfigurationFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter
func (f TaxConfigurationFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

// GetStatus implements BaseFilter
func (f TaxConfigurationFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return string(StatusPublished)
	}
	return f.QueryFilter.GetStatus()
}

// IsUnlimited implements BaseFilter
func (f TaxConfigurationFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return false
	}
	return f.QueryFilter.IsUnlimited()
}
