package service

import (
	"context"

	"github.com/flexprice/ordertax/internal/api/dto"
	"github.com/flexprice/ordertax/internal/cache"
	"github.com/flexprice/ordertax/internal/domain/ordertax"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/types"
)

type TaxService interface {
	// CalculateTax validates the request, calculates the totals and orders the
	// result against other calculations of the same cart
	CalculateTax(ctx context.Context, req *dto.CalculateTaxRequest) (*dto.CalculateTaxResponse, error)

	// Calculate returns the totals for a draft order. Only validation errors
	// are returned; when configuration cannot be read the last known totals
	// or the checkout fallback are returned instead.
	Calculate(ctx context.Context, organizationID string, serviceType types.ServiceType, items []ordertax.OrderItemForTax) (ordertax.OrderTotals, error)

	// GetCartTotals returns the latest applied totals of a cart
	GetCartTotals(ctx context.Context, organizationID, cartID string) (*dto.CalculateTaxResponse, error)

	// ReleaseCart stops tracking a cart, typically once the order is placed
	ReleaseCart(ctx context.Context, organizationID, cartID string) error

	CartRefresher
}

// trackedCart is the last calculated input of a cart
type trackedCart struct {
	organizationID string
	serviceType    types.ServiceType
	items          []ordertax.OrderItemForTax
	currency       string
}

type taxService struct {
	ServiceParams
	resolver *ordertax.Resolver
	carts    *cache.InMemoryCache
}

func NewTaxService(params ServiceParams) TaxService {
	return &taxService{
		ServiceParams: params,
		resolver:      ordertax.NewResolver(params.ConfigurationSource),
		carts:         cache.NewInMemoryCache(appliedTotalsTTL, cache.DefaultCleanupInterval),
	}
}

func cartKey(organizationID, cartID string) string {
	return cache.GenerateKey("cart", organizationID, cartID)
}

func cartPrefix(organizationID string) string {
	return cache.GenerateKey("cart", organizationID) + ":"
}

func (s *taxService) CalculateTax(ctx context.Context, req *dto.CalculateTaxRequest) (*dto.CalculateTaxResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = s.Config.TaxEngine.Currency
	}

	sequence := s.Tracker.Next()
	items := req.ToOrderItems()

	totals, err := s.Calculate(ctx, req.OrganizationID, req.ServiceType, items)
	if err != nil {
		return nil, err
	}

	if req.CartID == "" {
		return dto.NewCalculateTaxResponse(totals, currency, sequence), nil
	}

	key := cartKey(req.OrganizationID, req.CartID)
	if s.Tracker.Commit(ctx, key, sequence, totals) {
		s.carts.Set(ctx, key, trackedCart{
			organizationID: req.OrganizationID,
			serviceType:    req.ServiceType,
			items:          items,
			currency:       currency,
		}, 0)
	} else if latest, latestSequence, ok := s.Tracker.Latest(ctx, key); ok {
		// a later calculation of this cart already landed, hand back that one
		return dto.NewCalculateTaxResponse(latest, currency, latestSequence), nil
	}

	return dto.NewCalculateTaxResponse(totals, currency, sequence), nil
}

func (s *taxService) Calculate(ctx context.Context, organizationID string, serviceType types.ServiceType, items []ordertax.OrderItemForTax) (ordertax.OrderTotals, error) {
	if organizationID == "" {
		return ordertax.OrderTotals{}, ierr.NewValidationError("organization_id", "is required")
	}
	if err := serviceType.Validate(); err != nil {
		return ordertax.OrderTotals{}, err
	}
	if err := ordertax.ValidateItems(items); err != nil {
		return ordertax.OrderTotals{}, err
	}

	key := cache.NewCalculationKey(organizationID, serviceType, items)

	totals, err := s.CalculationCache.GetOrCompute(ctx, key, func(ctx context.Context) (ordertax.OrderTotals, error) {
		resolveCtx, cancel := context.WithTimeout(ctx, s.Config.TaxEngine.ResolveTimeout)
		defer cancel()

		config, err := s.resolver.Resolve(resolveCtx, organizationID, serviceType)
		if err != nil {
			return ordertax.OrderTotals{}, err
		}

		return ordertax.Compute(config, items)
	})
	if err == nil {
		return totals, nil
	}

	if ierr.IsValidation(err) {
		return ordertax.OrderTotals{}, err
	}

	s.Logger.Warnw("tax calculation degraded to fallback",
		"organization_id", organizationID,
		"service_type", serviceType,
		"error", err,
	)

	if stale, ok := s.CalculationCache.GetStale(ctx, key); ok {
		return stale, nil
	}

	return ordertax.FallbackTotals(items)
}

func (s *taxService) GetCartTotals(ctx context.Context, organizationID, cartID string) (*dto.CalculateTaxResponse, error) {
	if err := validateCart(organizationID, cartID); err != nil {
		return nil, err
	}

	key := cartKey(organizationID, cartID)
	totals, sequence, ok := s.Tracker.Latest(ctx, key)
	if !ok {
		return nil, ierr.NewError("cart totals not found").
			WithHintf("No totals have been calculated for cart %s", cartID).
			Mark(ierr.ErrNotFound)
	}

	currency := s.Config.TaxEngine.Currency
	if v, found := s.carts.Get(ctx, key); found {
		currency = v.(trackedCart).currency
	}

	return dto.NewCalculateTaxResponse(totals, currency, sequence), nil
}

func (s *taxService) ReleaseCart(ctx context.Context, organizationID, cartID string) error {
	if err := validateCart(organizationID, cartID); err != nil {
		return err
	}

	key := cartKey(organizationID, cartID)
	s.Tracker.Forget(ctx, key)
	s.carts.Delete(ctx, key)
	return nil
}

// RefreshCarts recalculates every tracked cart of the organization in the
// background. Each recalculation takes its sequence now, so a calculation
// requested by the client after this call still wins.
func (s *taxService) RefreshCarts(ctx context.Context, organizationID string) int {
	// recalculations outlive the event that triggered them
	recalculateCtx := context.WithoutCancel(ctx)

	carts := s.carts.GetByPrefix(ctx, cartPrefix(organizationID))
	for key, value := range carts {
		cart := value.(trackedCart)
		s.Tracker.RecalculateAsync(recalculateCtx, key, func(ctx context.Context) (ordertax.OrderTotals, error) {
			return s.Calculate(ctx, cart.organizationID, cart.serviceType, cart.items)
		})
	}

	if len(carts) > 0 {
		s.Logger.Debugw("recalculating carts after configuration change",
			"organization_id", organizationID,
			"carts", len(carts),
		)
	}

	return len(carts)
}

func validateCart(organizationID, cartID string) error {
	if organizationID == "" {
		return ierr.NewValidationError("organization_id", "is required")
	}
	if cartID == "" {
		return ierr.NewValidationError("cart_id", "is required")
	}
	return nil
}
