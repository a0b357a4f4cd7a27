package taxconfig

import (
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/shopspring/decimal"
)

// taxRatePlaces matches the scale of the tax_rate column
const taxRatePlaces = 4

var (
	minTaxRate = decimal.Zero
	maxTaxRate = decimal.NewFromInt(100)
)

// TaxConfiguration is a named tax policy owned by an organization
type TaxConfiguration struct {
	// ID of the tax configuration
	ID string `db:"id" json:"id"`
	// OrganizationID is the organization that exclusively owns this configuration
	OrganizationID string `db:"organization_id" json:"organization_id"`
	// Name is an optional label shown in settings
	Name string `db:"name" json:"name"`
	// TaxType is the kind of tax levied
	TaxType types.TaxType `db:"tax_type" json:"tax_type"`
	// TaxRate is a percentage in the closed range 0..100
	TaxRate decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	// ServiceType is the channel this configuration applies to
	ServiceType types.ServiceType `db:"service_type" json:"service_type"`
	// IsDefault makes the configuration eligible for its service type
	IsDefault bool `db:"is_default" json:"is_default"`
	// IsActive configurations are the only ones the resolver may select
	IsActive bool `db:"is_active" json:"is_active"`
	// IsTaxExempt forces zero tax regardless of TaxRate
	IsTaxExempt bool `db:"is_tax_exempt" json:"is_tax_exempt"`
	// IsPriceInclusive means line prices already contain tax
	IsPriceInclusive bool `db:"is_price_inclusive" json:"is_price_inclusive"`
	// ApplicableRegion is advisory and never enforced by the resolver
	ApplicableRegion *string `db:"applicable_region" json:"applicable_region,omitempty"`
	// Metadata holds free form key value pairs
	Metadata types.Metadata `db:"metadata" json:"metadata,omitempty"`

	types.BaseModel
}

// Validate checks the invariants a configuration must hold before it is persisted or used
func (c *TaxConfiguration) Validate() error {
	if c.OrganizationID == "" {
		return ierr.NewValidationError("organization_id", "is required")
	}

	if err := c.TaxType.Validate(); err != nil {
		return err
	}

	if err := c.ServiceType.Validate(); err != nil {
		return err
	}

	return ValidateTaxRate(c.TaxRate)
}

// ValidateTaxRate rejects rates outside 0..100 and rates with more decimal
// places than the store keeps. Rates are never clamped or rounded.
func ValidateTaxRate(rate decimal.Decimal) error {
	if err := ValidateTaxRateRange(rate); err != nil {
		return err
	}
	if !rate.Equal(rate.Truncate(taxRatePlaces)) {
		return ierr.NewValidationError("tax_rate", "must have at most 4 decimal places")
	}
	return nil
}

// ValidateTaxRateRange rejects rates outside 0..100
func ValidateTaxRateRange(rate decimal.Decimal) error {
	if rate.LessThan(minTaxRate) || rate.GreaterThan(maxTaxRate) {
		return ierr.NewValidationError("tax_rate", "must be between 0 and 100")
	}
	return nil
}

// IsSelectable reports whether the resolver may ever pick this configuration
func (c *TaxConfiguration) IsSelectable(organizationID string) bool {
	return c != nil &&
		c.OrganizationID == organizationID &&
		c.IsActive &&
		c.Status == types.StatusPublished
}

// HoldsDefaultSlot reports whether the configuration occupies the single
// active default slot for its (organization, service type) pair
func (c *TaxConfiguration) HoldsDefaultSlot() bool {
	return c.IsDefault && c.IsActive && c.Status == types.StatusPublished
}

// Copy returns a deep copy so callers can patch without touching shared state
func (c *TaxConfiguration) Copy() *TaxConfiguration {
	if c == nil {
		return nil
	}
	cp := *c
	if c.ApplicableRegion != nil {
		region := *c.ApplicableRegion
		cp.ApplicableRegion = &region
	}
	if c.Metadata != nil {
		cp.Metadata = make(types.Metadata, len(c.Metadata))
		for k, v := range c.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
