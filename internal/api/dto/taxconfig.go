package dto

import (
	"context"

	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/flexprice/ordertax/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TaxConfigurationResponse represents the response for tax configuration operations
type TaxConfigurationResponse struct {
	*taxconfig.TaxConfiguration `json:",inline"`
}

// ListTaxConfigurationsResponse represents the response for listing tax configurations
type ListTaxConfigurationsResponse struct {
	Items      []*TaxConfigurationResponse `json:"items"`
	Pagination *types.PaginationResponse   `json:"pagination,omitempty"`
}

// PreviewTaxConfigurationResponse shows which configuration would apply and
// what it does to a sample order of 100.00
type PreviewTaxConfigurationResponse struct {
	ServiceType     types.ServiceType         `json:"service_type"`
	Configuration   *TaxConfigurationResponse `json:"configuration"`
	SampleBreakdown *CalculateTaxResponse     `json:"sample_breakdown"`
}

// CreateTaxConfigurationRequest represents the request to create a tax configuration
type CreateTaxConfigurationRequest struct {
	Name string `json:"name,omitempty"`

	TaxType types.TaxType `json:"tax_type" validate:"required"`

	// tax_rate is a percentage between 0 and 100
	TaxRate *decimal.Decimal `json:"tax_rate"`

	ServiceType types.ServiceType `json:"service_type" validate:"required"`

	IsDefault bool `json:"is_default"`

	// is_active defaults to true
	IsActive *bool `json:"is_active,omitempty"`

	IsTaxExempt bool `json:"is_tax_exempt"`

	IsPriceInclusive bool `json:"is_price_inclusive"`

	ApplicableRegion *string `json:"applicable_region,omitempty"`

	Metadata types.Metadata `json:"metadata,omitempty"`
}

func (r *CreateTaxConfigurationRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.TaxType.Validate(); err != nil {
		return err
	}

	if err := r.ServiceType.Validate(); err != nil {
		return err
	}

	if r.TaxRate == nil {
		return ierr.NewValidationError("tax_rate", "is required")
	}

	return taxconfig.ValidateTaxRate(*r.TaxRate)
}

func (r *CreateTaxConfigurationRequest) ToTaxConfiguration(ctx context.Context, organizationID string) *taxconfig.TaxConfiguration {
	return &taxconfig.TaxConfiguration{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAX_CONFIGURATION),
		OrganizationID:   organizationID,
		Name:             r.Name,
		TaxType:          r.TaxType,
		TaxRate:          lo.FromPtr(r.TaxRate),
		ServiceType:      r.ServiceType,
		IsDefault:        r.IsDefault,
		IsActive:         lo.FromPtrOr(r.IsActive, true),
		IsTaxExempt:      r.IsTaxExempt,
		IsPriceInclusive: r.IsPriceInclusive,
		ApplicableRegion: r.ApplicableRegion,
		Metadata:         r.Metadata,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
}

// UpdateTaxConfigurationRequest only changes the fields that are present
type UpdateTaxConfigurationRequest struct {
	Name             *string            `json:"name,omitempty"`
	TaxType          *types.TaxType     `json:"tax_type,omitempty"`
	TaxRate          *decimal.Decimal   `json:"tax_rate,omitempty"`
	ServiceType      *types.ServiceType `json:"service_type,omitempty"`
	IsDefault        *bool              `json:"is_default,omitempty"`
	IsActive         *bool              `json:"is_active,omitempty"`
	IsTaxExempt      *bool              `json:"is_tax_exempt,omitempty"`
	IsPriceInclusive *bool              `json:"is_price_inclusive,omitempty"`
	ApplicableRegion *string            `json:"applicable_region,omitempty"`
	Metadata         types.Metadata     `json:"metadata,omitempty"`
}

func (r *UpdateTaxConfigurationRequest) Validate() error {
	if r.TaxType != nil {
		if err := r.TaxType.Validate(); err != nil {
			return err
		}
	}

	if r.ServiceType != nil {
		if err := r.ServiceType.Validate(); err != nil {
			return err
		}
	}

	if r.TaxRate != nil {
		return taxconfig.ValidateTaxRate(*r.TaxRate)
	}

	return nil
}

// ApplyTo returns a patched copy of the configuration
func (r *UpdateTaxConfigurationRequest) ApplyTo(c *taxconfig.TaxConfiguration) *taxconfig.TaxConfiguration {
	updated := c.Copy()

	if r.Name != nil {
		updated.Name = *r.Name
	}
	if r.TaxType != nil {
		updated.TaxType = *r.TaxType
	}
	if r.TaxRate != nil {
		updated.TaxRate = *r.TaxRate
	}
	if r.ServiceType != nil {
		updated.ServiceType = *r.ServiceType
	}
	if r.IsDefault != nil {
		updated.IsDefault = *r.IsDefault
	}
	if r.IsActive != nil {
		updated.IsActive = *r.IsActive
	}
	if r.IsTaxExempt != nil {
		updated.IsTaxExempt = *r.IsTaxExempt
	}
	if r.IsPriceInclusive != nil {
		updated.IsPriceInclusive = *r.IsPriceInclusive
	}
	if r.ApplicableRegion != nil {
		updated.ApplicableRegion = lo.EmptyableToPtr(*r.ApplicableRegion)
	}
	if r.Metadata != nil {
		updated.Metadata = r.Metadata
	}

	return updated
}
