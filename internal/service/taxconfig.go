package service

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/flexprice/ordertax/internal/api/dto"
	"github.com/flexprice/ordertax/internal/domain/ordertax"
	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TaxConfigurationService manages the tax configurations of an organization
type TaxConfigurationService interface {
	Create(ctx context.Context, organizationID string, req dto.CreateTaxConfigurationRequest) (*dto.TaxConfigurationResponse, error)
	Get(ctx context.Context, organizationID, id string) (*dto.TaxConfigurationResponse, error)
	List(ctx context.Context, organizationID string, filter *types.TaxConfigurationFilter) (*dto.ListTaxConfigurationsResponse, error)
	Update(ctx context.Context, organizationID, id string, req dto.UpdateTaxConfigurationRequest) (*dto.TaxConfigurationResponse, error)
	Delete(ctx context.Context, organizationID, id string) error

	// Preview resolves the configuration that would apply to
	// the service type, ALL when nil, and applies it to a sample order
	Preview(ctx context.Context, organizationID string, serviceType *types.ServiceType) (*dto.PreviewTaxConfigurationResponse, error)
}

type taxConfigurationService struct {
	ServiceParams
	resolver *ordertax.Resolver
}

func NewTaxConfigurationService(params ServiceParams) TaxConfigurationService {
	return &taxConfigurationService{
		ServiceParams: params,
		resolver:      ordertax.NewResolver(params.TaxConfigRepo),
	}
}

func (s *taxConfigurationService) Create(ctx context.Context, organizationID string, req dto.CreateTaxConfigurationRequest) (*dto.TaxConfigurationResponse, error) {
	if organizationID == "" {
		return nil, ierr.NewValidationError("organization_id", "is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	config := req.ToTaxConfiguration(ctx, organizationID)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.checkDefaultSlot(ctx, config); err != nil {
			return err
		}
		return s.TaxConfigRepo.Create(ctx, config)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created tax configuration",
		"organization_id", organizationID,
		"tax_configuration_id", config.ID,
		"service_type", config.ServiceType,
		"is_default", config.IsDefault,
	)

	s.afterWrite(ctx, types.TaxConfigurationEventCreated, config)

	return &dto.TaxConfigurationResponse{TaxConfiguration: config}, nil
}

func (s *taxConfigurationService) Get(ctx context.Context, organizationID, id string) (*dto.TaxConfigurationResponse, error) {
	config, err := s.get(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return &dto.TaxConfigurationResponse{TaxConfiguration: config}, nil
}

func (s *taxConfigurationService) List(ctx context.Context, organizationID string, filter *types.TaxConfigurationFilter) (*dto.ListTaxConfigurationsResponse, error) {
	if organizationID == "" {
		return nil, ierr.NewValidationError("organization_id", "is required")
	}

	if filter == nil {
		filter = types.NewTaxConfigurationFilter()
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	configs, err := s.TaxConfigRepo.List(ctx, organizationID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.TaxConfigRepo.Count(ctx, organizationID, filter)
	if err != nil {
		return nil, err
	}

	pagination := types.NewPaginationResponse(total, filter.GetLimit(), filter.GetOffset())

	return &dto.ListTaxConfigurationsResponse{
		Items: lo.Map(configs, func(c *taxconfig.TaxConfiguration, _ int) *dto.TaxConfigurationResponse {
			return &dto.TaxConfigurationResponse{TaxConfiguration: c}
		}),
		Pagination: &pagination,
	}, nil
}

func (s *taxConfigurationService) Update(ctx context.Context, organizationID, id string, req dto.UpdateTaxConfigurationRequest) (*dto.TaxConfigurationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *taxconfig.TaxConfiguration
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.get(ctx, organizationID, id)
		if err != nil {
			return err
		}

		updated = req.ApplyTo(existing)
		updated.UpdatedAt = time.Now().UTC()
		updated.UpdatedBy = types.GetUserID(ctx)

		if err := updated.Validate(); err != nil {
			return err
		}

		if err := s.checkDefaultSlot(ctx, updated); err != nil {
			return err
		}

		return s.TaxConfigRepo.Update(ctx, updated)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("updated tax configuration",
		"organization_id", organizationID,
		"tax_configuration_id", id,
		"service_type", updated.ServiceType,
		"is_default", updated.IsDefault,
	)

	s.afterWrite(ctx, types.TaxConfigurationEventUpdated, updated)

	return &dto.TaxConfigurationResponse{TaxConfiguration: updated}, nil
}

func (s *taxConfigurationService) Delete(ctx context.Context, organizationID, id string) error {
	var deleted *taxconfig.TaxConfiguration
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.get(ctx, organizationID, id)
		if err != nil {
			return err
		}
		deleted = existing
		return s.TaxConfigRepo.Delete(ctx, existing)
	})
	if err != nil {
		return err
	}

	s.Logger.Infow("deleted tax configuration",
		"organization_id", organizationID,
		"tax_configuration_id", id,
	)

	s.afterWrite(ctx, types.TaxConfigurationEventDeleted, deleted)
	return nil
}

func (s *taxConfigurationService) Preview(ctx context.Context, organizationID string, serviceType *types.ServiceType) (*dto.PreviewTaxConfigurationResponse, error) {
	if organizationID == "" {
		return nil, ierr.NewValidationError("organization_id", "is required")
	}

	st := lo.FromPtrOr(serviceType, types.ServiceTypeAll)
	if st == "" {
		st = types.ServiceTypeAll
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	config, err := s.resolver.Resolve(ctx, organizationID, st)
	if err != nil {
		return nil, err
	}

	sample := []ordertax.OrderItemForTax{
		{MenuItemID: "sample", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
	}

	totals, err := ordertax.Compute(config, sample)
	if err != nil {
		return nil, err
	}

	response := &dto.PreviewTaxConfigurationResponse{
		ServiceType:     st,
		SampleBreakdown: dto.NewCalculateTaxResponse(totals, s.Config.TaxEngine.Currency, 0),
	}
	if config != nil {
		response.Configuration = &dto.TaxConfigurationResponse{TaxConfiguration: config}
	}

	return response, nil
}

// get scopes a lookup to the organization; configurations of other
// organizations are reported as not found
func (s *taxConfigurationService) get(ctx context.Context, organizationID, id string) (*taxconfig.TaxConfiguration, error) {
	if organizationID == "" {
		return nil, ierr.NewValidationError("organization_id", "is required")
	}
	if id == "" {
		return nil, ierr.NewValidationError("id", "is required")
	}

	config, err := s.TaxConfigRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if config.OrganizationID != organizationID || config.Status == types.StatusDeleted {
		return nil, ierr.NewError("tax configuration not found").
			WithHintf("Tax configuration with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	return config, nil
}

// checkDefaultSlot rejects a write that would give the organization a second
// active default for the service type
func (s *taxConfigurationService) checkDefaultSlot(ctx context.Context, config *taxconfig.TaxConfiguration) error {
	if !config.HoldsDefaultSlot() {
		return nil
	}

	holder, err := s.TaxConfigRepo.GetDefault(ctx, config.OrganizationID, config.ServiceType)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil
		}
		return err
	}

	if holder.ID == config.ID {
		return nil
	}

	return ierr.NewError("default tax configuration already exists").
		WithHintf("A default tax configuration for %s already exists, unset it before adding another", config.ServiceType).
		WithReportableDetails(map[string]any{
			"service_type":                  config.ServiceType,
			"existing_tax_configuration_id": holder.ID,
		}).
		Mark(ierr.ErrConflict)
}

// afterWrite drops memoized calculations of the organization and announces
// the change. The write is already committed, so a failed publish is only logged.
func (s *taxConfigurationService) afterWrite(ctx context.Context, name types.TaxConfigurationEventName, config *taxconfig.TaxConfiguration) {
	s.CalculationCache.InvalidateOrganization(ctx, config.OrganizationID)

	if s.PubSub == nil {
		return
	}

	event := types.NewTaxConfigurationEvent(name, config.OrganizationID, config.ID, config.ServiceType)
	payload, err := jsoniter.Marshal(event)
	if err != nil {
		s.Logger.Errorw("failed to marshal tax configuration event",
			"event_name", name,
			"tax_configuration_id", config.ID,
			"error", err,
		)
		return
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("organization_id", config.OrganizationID)
	msg.Metadata.Set("event_name", string(name))

	if err := s.PubSub.Publish(ctx, types.TopicTaxConfigurationChanged, msg); err != nil {
		s.Logger.Errorw("failed to publish tax configuration event",
			"event_name", name,
			"organization_id", config.OrganizationID,
			"tax_configuration_id", config.ID,
			"error", err,
		)
	}
}
