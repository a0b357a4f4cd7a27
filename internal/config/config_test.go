package config

import (
	"testing"
	"time"

	"github.com/flexprice/ordertax/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.TaxEngine.CacheTTL)
	assert.Equal(t, types.ConfigurationSourcePostgres, cfg.TaxEngine.Source)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Configuration)
		wantErr bool
	}{
		{
			name:   "defaults",
			mutate: func(c *Configuration) {},
		},
		{
			name:    "stale window shorter than fresh window",
			mutate:  func(c *Configuration) { c.TaxEngine.StaleTTL = time.Second },
			wantErr: true,
		},
		{
			name:    "unknown source",
			mutate:  func(c *Configuration) { c.TaxEngine.Source = "dynamodb" },
			wantErr: true,
		},
		{
			name:    "remote source without base url",
			mutate:  func(c *Configuration) { c.TaxEngine.Source = types.ConfigurationSourceRemote },
			wantErr: true,
		},
		{
			name: "remote source with base url",
			mutate: func(c *Configuration) {
				c.TaxEngine.Source = types.ConfigurationSourceRemote
				c.ConfigService.BaseURL = "http://config.internal"
			},
		},
		{
			name:    "missing resolve timeout",
			mutate:  func(c *Configuration) { c.TaxEngine.ResolveTimeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv("ORDERTAX_TAX_ENGINE_CACHE_TTL", "45s")
	t.Setenv("ORDERTAX_SERVER_ADDRESS", ":9090")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.TaxEngine.CacheTTL)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "inr", cfg.TaxEngine.Currency)
}
