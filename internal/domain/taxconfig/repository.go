package taxconfig

import (
	"context"

	"github.com/flexprice/ordertax/internal/types"
)

// Repository is the persistent TaxConfigurationStore
type Repository interface {
	Create(ctx context.Context, config *TaxConfiguration) error
	Get(ctx context.Context, id string) (*TaxConfiguration, error)
	Update(ctx context.Context, config *TaxConfiguration) error
	Delete(ctx context.Context, config *TaxConfiguration) error
	List(ctx context.Context, organizationID string, filter *types.TaxConfigurationFilter) ([]*TaxConfiguration, error)
	Count(ctx context.Context, organizationID string, filter *types.TaxConfigurationFilter) (int, error)

	// GetDefault returns the configuration holding the active default slot for
	// the pair, or a not found error
	GetDefault(ctx context.Context, organizationID string, serviceType types.ServiceType) (*TaxConfiguration, error)

	// ListCandidates returns the active default configurations that may apply to
	// the service type, i.e. those scoped to it or to ALL
	ListCandidates(ctx context.Context, organizationID string, serviceType types.ServiceType) ([]*TaxConfiguration, error)
}
