package ordertax

import (
	"context"

	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/samber/lo"
)

// ConfigurationSource supplies candidate configurations for resolution.
// Implementations may over-return; the resolver re-checks every predicate.
type ConfigurationSource interface {
	ListCandidates(ctx context.Context, organizationID string, serviceType types.ServiceType) ([]*taxconfig.TaxConfiguration, error)
}

// Resolver selects the single tax configuration that applies to an
// organization and service type
type Resolver struct {
	source ConfigurationSource
}

func NewResolver(source ConfigurationSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the applicable configuration, or nil when none applies.
// Precedence is an exact service type default first, then an ALL default.
// Within a tier the most recently updated configuration wins, and the
// greatest ID breaks an UpdatedAt tie.
func (r *Resolver) Resolve(ctx context.Context, organizationID string, serviceType types.ServiceType) (*taxconfig.TaxConfiguration, error) {
	if organizationID == "" {
		return nil, ierr.NewValidationError("organization_id", "is required")
	}
	if err := serviceType.Validate(); err != nil {
		return nil, err
	}

	candidates, err := r.source.ListCandidates(ctx, organizationID, serviceType)
	if err != nil {
		if ierr.IsValidation(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Tax configuration is temporarily unavailable").
			WithReportableDetails(map[string]any{
				"organization_id": organizationID,
				"service_type":    serviceType,
			}).
			Mark(ierr.ErrUnavailable)
	}

	// a cancelled lookup must not be mistaken for "no configuration"
	if err := ctx.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Tax configuration lookup timed out").
			Mark(ierr.ErrUnavailable)
	}

	return Select(candidates, organizationID, serviceType), nil
}

// Select applies the precedence rules to an in-memory candidate set
func Select(candidates []*taxconfig.TaxConfiguration, organizationID string, serviceType types.ServiceType) *taxconfig.TaxConfiguration {
	eligible := lo.Filter(candidates, func(c *taxconfig.TaxConfiguration, _ int) bool {
		return c.IsSelectable(organizationID) && c.IsDefault
	})

	tiers := []types.ServiceType{serviceType, types.ServiceTypeAll}
	for _, tier := range tiers {
		matches := lo.Filter(eligible, func(c *taxconfig.TaxConfiguration, _ int) bool {
			return c.ServiceType == tier
		})
		if len(matches) == 0 {
			continue
		}
		return lo.MaxBy(matches, isNewer).Copy()
	}

	return nil
}

// isNewer orders by UpdatedAt, then by ID since ulids sort by creation time
func isNewer(a, b *taxconfig.TaxConfiguration) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID > b.ID
}
