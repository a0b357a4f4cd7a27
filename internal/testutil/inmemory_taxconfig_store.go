package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/types"
)

// InMemoryTaxConfigurationStore implements taxconfig.Repository. It enforces
// the single active default slot the way the partial unique index does.
type InMemoryTaxConfigurationStore struct {
	*InMemoryStore[*taxconfig.TaxConfiguration]
	// writes serializes slot checks with the write they guard
	writes sync.Mutex
}

var _ taxconfig.Repository = (*InMemoryTaxConfigurationStore)(nil)

func NewInMemoryTaxConfigurationStore() *InMemoryTaxConfigurationStore {
	return &InMemoryTaxConfigurationStore{
		InMemoryStore: NewInMemoryStore[*taxconfig.TaxConfiguration](),
	}
}

func taxConfigurationFilterFn(ctx context.Context, c *taxconfig.TaxConfiguration, filter interface{}) bool {
	f, ok := filter.(*taxConfigurationQuery)
	if !ok {
		return false
	}

	if c.OrganizationID != f.organizationID || c.Status == types.StatusDeleted {
		return false
	}

	if status := f.GetStatus(); status != "" && string(c.Status) != status {
		return false
	}
	if len(f.TaxConfigurationIDs) > 0 && !slices.Contains(f.TaxConfigurationIDs, c.ID) {
		return false
	}
	if len(f.ServiceTypes) > 0 && !slices.Contains(f.ServiceTypes, c.ServiceType) {
		return false
	}
	if f.IsActive != nil && c.IsActive != *f.IsActive {
		return false
	}
	if f.IsDefault != nil && c.IsDefault != *f.IsDefault {
		return false
	}

	return true
}

// taxConfigurationQuery scopes a filter to an organization and forwards
// pagination to the generic store
type taxConfigurationQuery struct {
	*types.TaxConfigurationFilter
	organizationID string
}

func newTaxConfigurationQuery(organizationID string, filter *types.TaxConfigurationFilter) *taxConfigurationQuery {
	if filter == nil {
		filter = types.NewTaxConfigurationFilter()
	}
	return &taxConfigurationQuery{
		TaxConfigurationFilter: filter,
		organizationID:         organizationID,
	}
}

func newestFirst(a, b *taxconfig.TaxConfiguration) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (s *InMemoryTaxConfigurationStore) Create(ctx context.Context, c *taxconfig.TaxConfiguration) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	if err := s.checkDefaultSlot(ctx, c); err != nil {
		return err
	}

	if err := s.InMemoryStore.Create(ctx, c.ID, c.Copy()); err != nil {
		return ierr.WithError(err).
			WithHint("A tax configuration with this ID already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryTaxConfigurationStore) Get(ctx context.Context, id string) (*taxconfig.TaxConfiguration, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || c.Status == types.StatusDeleted {
		return nil, ierr.NewError("tax configuration not found").
			WithHintf("Tax configuration with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return c.Copy(), nil
}

func (s *InMemoryTaxConfigurationStore) Update(ctx context.Context, c *taxconfig.TaxConfiguration) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	existing, err := s.InMemoryStore.Get(ctx, c.ID)
	if err != nil || existing.Status == types.StatusDeleted || existing.OrganizationID != c.OrganizationID {
		return ierr.NewError("tax configuration not found").
			WithHintf("Tax configuration with ID %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}

	if err := s.checkDefaultSlot(ctx, c); err != nil {
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	c.UpdatedBy = types.GetUserID(ctx)
	return s.InMemoryStore.Update(ctx, c.ID, c.Copy())
}

func (s *InMemoryTaxConfigurationStore) Delete(ctx context.Context, c *taxconfig.TaxConfiguration) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	existing, err := s.InMemoryStore.Get(ctx, c.ID)
	if err != nil || existing.Status == types.StatusDeleted || existing.OrganizationID != c.OrganizationID {
		return ierr.NewError("tax configuration not found").
			WithHintf("Tax configuration with ID %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}

	deleted := existing.Copy()
	deleted.Status = types.StatusDeleted
	deleted.UpdatedAt = time.Now().UTC()
	deleted.UpdatedBy = types.GetUserID(ctx)
	return s.InMemoryStore.Update(ctx, c.ID, deleted)
}

func (s *InMemoryTaxConfigurationStore) List(ctx context.Context, organizationID string, filter *types.TaxConfigurationFilter) ([]*taxconfig.TaxConfiguration, error) {
	return s.InMemoryStore.List(ctx, newTaxConfigurationQuery(organizationID, filter), taxConfigurationFilterFn, newestFirst)
}

func (s *InMemoryTaxConfigurationStore) Count(ctx context.Context, organizationID string, filter *types.TaxConfigurationFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, newTaxConfigurationQuery(organizationID, filter), taxConfigurationFilterFn)
}

func (s *InMemoryTaxConfigurationStore) GetDefault(ctx context.Context, organizationID string, serviceType types.ServiceType) (*taxconfig.TaxConfiguration, error) {
	configs, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, c *taxconfig.TaxConfiguration, _ interface{}) bool {
		return c.OrganizationID == organizationID && c.ServiceType == serviceType && c.HoldsDefaultSlot()
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, ierr.NewError("no default tax configuration").
			WithHintf("No default tax configuration for %s", serviceType).
			Mark(ierr.ErrNotFound)
	}
	return configs[0].Copy(), nil
}

func (s *InMemoryTaxConfigurationStore) ListCandidates(ctx context.Context, organizationID string, serviceType types.ServiceType) ([]*taxconfig.TaxConfiguration, error) {
	configs, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, c *taxconfig.TaxConfiguration, _ interface{}) bool {
		return c.OrganizationID == organizationID &&
			(c.ServiceType == serviceType || c.ServiceType == types.ServiceTypeAll) &&
			c.HoldsDefaultSlot()
	}, nil)
	if err != nil {
		return nil, err
	}

	result := make([]*taxconfig.TaxConfiguration, 0, len(configs))
	for _, c := range configs {
		result = append(result, c.Copy())
	}
	return result, nil
}

// Seed stores a configuration as is, bypassing the default slot check. Tests
// use it to build states a real database would only reach through races.
func (s *InMemoryTaxConfigurationStore) Seed(ctx context.Context, c *taxconfig.TaxConfiguration) error {
	return s.InMemoryStore.Create(ctx, c.ID, c.Copy())
}

func (s *InMemoryTaxConfigurationStore) checkDefaultSlot(ctx context.Context, c *taxconfig.TaxConfiguration) error {
	if !c.HoldsDefaultSlot() {
		return nil
	}

	holders, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, other *taxconfig.TaxConfiguration, _ interface{}) bool {
		return other.ID != c.ID &&
			other.OrganizationID == c.OrganizationID &&
			other.ServiceType == c.ServiceType &&
			other.HoldsDefaultSlot()
	}, nil)
	if err != nil {
		return err
	}

	if len(holders) > 0 {
		return ierr.NewError("default slot taken").
			WithHintf("An active default tax configuration already exists for %s", c.ServiceType).
			WithReportableDetails(map[string]any{
				"organization_id": c.OrganizationID,
				"service_type":    c.ServiceType,
			}).
			Mark(ierr.ErrConflict)
	}
	return nil
}
