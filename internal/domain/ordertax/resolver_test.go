package ordertax

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	configs []*taxconfig.TaxConfiguration
	err     error
	block   bool
}

func (s *staticSource) ListCandidates(ctx context.Context, organizationID string, serviceType types.ServiceType) ([]*taxconfig.TaxConfiguration, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.configs, nil
}

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func candidate(id string, st types.ServiceType, rate string, updated time.Time, mutate ...func(c *taxconfig.TaxConfiguration)) *taxconfig.TaxConfiguration {
	c := &taxconfig.TaxConfiguration{
		ID:             id,
		OrganizationID: "org_1",
		TaxType:        types.TaxTypeGST,
		TaxRate:        decimal.RequireFromString(rate),
		ServiceType:    st,
		IsDefault:      true,
		IsActive:       true,
		BaseModel: types.BaseModel{
			Status:    types.StatusPublished,
			CreatedAt: baseTime,
			UpdatedAt: updated,
		},
	}
	for _, m := range mutate {
		m(c)
	}
	return c
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		configs     []*taxconfig.TaxConfiguration
		serviceType types.ServiceType
		wantID      string
	}{
		{
			name: "exact_service_type_beats_all",
			configs: []*taxconfig.TaxConfiguration{
				candidate("cfg_all", types.ServiceTypeAll, "12", baseTime.Add(time.Hour)),
				candidate("cfg_dine", types.ServiceTypeDineIn, "5", baseTime),
			},
			serviceType: types.ServiceTypeDineIn,
			wantID:      "cfg_dine",
		},
		{
			name: "falls_back_to_all",
			configs: []*taxconfig.TaxConfiguration{
				candidate("cfg_all", types.ServiceTypeAll, "12", baseTime),
				candidate("cfg_dine", types.ServiceTypeDineIn, "5", baseTime),
			},
			serviceType: types.ServiceTypeDelivery,
			wantID:      "cfg_all",
		},
		{
			name: "inactive_never_selected",
			configs: []*taxconfig.TaxConfiguration{
				candidate("cfg_dine", types.ServiceTypeDineIn, "5", baseTime, func(c *taxconfig.TaxConfiguration) { c.IsActive = false }),
				candidate("cfg_all", types.ServiceTypeAll, "12", baseTime),
			},
			serviceType: types.ServiceTypeDineIn,
			wantID:      "cfg_all",
		},
		{
			name: "non_default_never_selected",
			configs: []*taxconfig.TaxConfiguration{
				candidate("cfg_dine", types.ServiceTypeDineIn, "5", baseTime, func(c *taxconfig.TaxConfiguration) { c.IsDefault = false }),
			},
			serviceType: types.ServiceTypeDineIn,
			wantID:      "",
		},
		{
			name: "deleted_never_selected",
			configs: []*taxconfig.TaxConfiguration{
				candidate("cfg_dine", types.ServiceTypeDineIn, "5", baseTime, func(c *taxconfig.TaxConfiguration) { c.Status = types.StatusDeleted }),
			},
			serviceType: types.ServiceTypeDineIn,
			wantID:      "",
		},
		{
			name: "other_organization_ignored",
			configs: []*taxconfig.TaxConfiguration{
				candidate("cfg_other", types.ServiceTypeDineIn, "5", baseTime, func(c *taxconfig.TaxConfiguration) { c.OrganizationID = "org_2" }),
			},
			serviceType: types.ServiceTypeDineIn,
			wantID:      "",
		},
		{
			name:        "no_candidates",
			configs:     nil,
			serviceType: types.ServiceTypeTakeaway,
			wantID:      "",
		},
		{
			name: "tie_break_most_recently_updated",
			configs: []*taxconfig.TaxConfiguration{
				candidate("cfg_b", types.ServiceTypeDineIn, "5", baseTime),
				candidate("cfg_a", types.ServiceTypeDineIn, "7", baseTime.Add(time.Minute)),
				candidate("cfg_c", types.ServiceTypeDineIn, "9", baseTime.Add(-time.Minute)),
			},
			serviceType: types.ServiceTypeDineIn,
			wantID:      "cfg_a",
		},
		{
			name: "tie_break_equal_updated_at_uses_greatest_id",
			configs: []*taxconfig.TaxConfiguration{
				candidate("taxcfg_01HZX0000000000000000000A", types.ServiceTypeAll, "5", baseTime),
				candidate("taxcfg_01HZX0000000000000000000C", types.ServiceTypeAll, "7", baseTime),
				candidate("taxcfg_01HZX0000000000000000000B", types.ServiceTypeAll, "9", baseTime),
			},
			serviceType: types.ServiceTypeTakeaway,
			wantID:      "taxcfg_01HZX0000000000000000000C",
		},
		{
			name: "all_requested_directly",
			configs: []*taxconfig.TaxConfiguration{
				candidate("cfg_dine", types.ServiceTypeDineIn, "5", baseTime),
				candidate("cfg_all", types.ServiceTypeAll, "12", baseTime),
			},
			serviceType: types.ServiceTypeAll,
			wantID:      "cfg_all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&staticSource{configs: tt.configs})
			got, err := r.Resolve(context.Background(), "org_1", tt.serviceType)
			require.NoError(t, err)

			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolvePrecedenceThenCompute(t *testing.T) {
	r := NewResolver(&staticSource{configs: []*taxconfig.TaxConfiguration{
		candidate("cfg_dine", types.ServiceTypeDineIn, "5", baseTime),
		candidate("cfg_all", types.ServiceTypeAll, "12", baseTime),
	}})

	cfg, err := r.Resolve(context.Background(), "org_1", types.ServiceTypeDineIn)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.True(t, decimal.NewFromInt(5).Equal(cfg.TaxRate))

	totals, err := Compute(cfg, []OrderItemForTax{item("a", 1, "100.00")})
	require.NoError(t, err)
	assertAmount(t, "5.00", totals.TaxAmount, "tax")
}

func TestResolveReturnsCopy(t *testing.T) {
	original := candidate("cfg_all", types.ServiceTypeAll, "12", baseTime)
	r := NewResolver(&staticSource{configs: []*taxconfig.TaxConfiguration{original}})

	got, err := r.Resolve(context.Background(), "org_1", types.ServiceTypeAll)
	require.NoError(t, err)
	got.TaxRate = decimal.NewFromInt(99)

	assert.True(t, decimal.NewFromInt(12).Equal(original.TaxRate))
}

func TestResolveErrors(t *testing.T) {
	t.Run("invalid_service_type", func(t *testing.T) {
		r := NewResolver(&staticSource{})
		_, err := r.Resolve(context.Background(), "org_1", types.ServiceType("PICKUP"))
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("missing_organization", func(t *testing.T) {
		r := NewResolver(&staticSource{})
		_, err := r.Resolve(context.Background(), "", types.ServiceTypeAll)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("source_failure_is_transient", func(t *testing.T) {
		r := NewResolver(&staticSource{err: errors.New("connection refused")})
		_, err := r.Resolve(context.Background(), "org_1", types.ServiceTypeAll)
		require.Error(t, err)
		assert.True(t, ierr.IsUnavailable(err))
		assert.False(t, ierr.IsValidation(err))
	})

	t.Run("timeout_is_transient", func(t *testing.T) {
		r := NewResolver(&staticSource{block: true})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := r.Resolve(ctx, "org_1", types.ServiceTypeAll)
		require.Error(t, err)
		assert.True(t, ierr.IsUnavailable(err))
	})
}
