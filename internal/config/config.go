package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/ordertax/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment    DeploymentConfig    `validate:"required"`
	Server        ServerConfig        `validate:"required"`
	Logging       LoggingConfig       `validate:"required"`
	Postgres      PostgresConfig      `validate:"required"`
	TaxEngine     TaxEngineConfig     `mapstructure:"tax_engine" validate:"required"`
	ConfigService ConfigServiceConfig `mapstructure:"config_service"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Sentry        SentryConfig        `validate:"required"`
	Pyroscope     PyroscopeConfig     `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// TaxEngineConfig controls resolution, caching and fallback of tax calculations
type TaxEngineConfig struct {
	// Source is where the resolver reads configurations from
	Source types.ConfigurationSourceType `mapstructure:"source" validate:"required,oneof=postgres remote"`
	// CacheEnabled turns the calculation cache into a pass-through when false
	CacheEnabled bool `mapstructure:"cache_enabled"`
	// CacheTTL is the fresh window of a cached calculation, measured from insertion
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"required,gt=0"`
	// StaleTTL bounds how long an expired entry may still be served when resolution fails
	StaleTTL time.Duration `mapstructure:"stale_ttl" validate:"required,gtefield=CacheTTL"`
	// ResolveTimeout caps a single configuration lookup
	ResolveTimeout time.Duration `mapstructure:"resolve_timeout" validate:"required,gt=0"`
	// Currency is used for formatted amounts
	Currency string `mapstructure:"currency" validate:"required"`
}

// ConfigServiceConfig describes the optional remote configuration service
type ConfigServiceConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	RetryMax int           `mapstructure:"retry_max"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type PyroscopeConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	ServerAddress   string   `mapstructure:"server_address"`
	ApplicationName string   `mapstructure:"application_name"`
	BasicAuthUser   string   `mapstructure:"basic_auth_user"`
	BasicAuthPass   string   `mapstructure:"basic_auth_pass"`
	SampleRate      uint32   `mapstructure:"sample_rate"`
	ProfileTypes    []string `mapstructure:"profile_types"`
}

func NewConfig() (*Configuration, error) {
	// a missing .env is fine, the variables may already be exported
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ordertax")

	v.SetEnvPrefix("ORDERTAX")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can override values absent from the file
func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()

	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("logging.level", d.Logging.Level)

	v.SetDefault("postgres.host", d.Postgres.Host)
	v.SetDefault("postgres.port", d.Postgres.Port)
	v.SetDefault("postgres.user", d.Postgres.User)
	v.SetDefault("postgres.password", d.Postgres.Password)
	v.SetDefault("postgres.dbname", d.Postgres.DBName)
	v.SetDefault("postgres.sslmode", d.Postgres.SSLMode)
	v.SetDefault("postgres.max_open_conns", d.Postgres.MaxOpenConns)
	v.SetDefault("postgres.max_idle_conns", d.Postgres.MaxIdleConns)
	v.SetDefault("postgres.conn_max_lifetime", d.Postgres.ConnMaxLifetime)

	v.SetDefault("tax_engine.source", d.TaxEngine.Source)
	v.SetDefault("tax_engine.cache_enabled", d.TaxEngine.CacheEnabled)
	v.SetDefault("tax_engine.cache_ttl", d.TaxEngine.CacheTTL)
	v.SetDefault("tax_engine.stale_ttl", d.TaxEngine.StaleTTL)
	v.SetDefault("tax_engine.resolve_timeout", d.TaxEngine.ResolveTimeout)
	v.SetDefault("tax_engine.currency", d.TaxEngine.Currency)

	v.SetDefault("config_service.base_url", "")
	v.SetDefault("config_service.api_key", "")
	v.SetDefault("config_service.timeout", d.ConfigService.Timeout)
	v.SetDefault("config_service.retry_max", d.ConfigService.RetryMax)

	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("sentry.sample_rate", d.Sentry.SampleRate)

	v.SetDefault("pyroscope.enabled", false)
	v.SetDefault("pyroscope.server_address", "")
	v.SetDefault("pyroscope.application_name", d.Pyroscope.ApplicationName)
	v.SetDefault("pyroscope.sample_rate", d.Pyroscope.SampleRate)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.TaxEngine.Source == types.ConfigurationSourceRemote && c.ConfigService.BaseURL == "" {
		return fmt.Errorf("config_service.base_url is required when tax_engine.source is remote")
	}

	return nil
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts, tests or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "ordertax",
			Password:        "ordertax123",
			DBName:          "ordertax",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		TaxEngine: TaxEngineConfig{
			Source:         types.ConfigurationSourcePostgres,
			CacheEnabled:   true,
			CacheTTL:       30 * time.Second,
			StaleTTL:       5 * time.Minute,
			ResolveTimeout: 2 * time.Second,
			Currency:       types.DefaultCurrency,
		},
		ConfigService: ConfigServiceConfig{
			Timeout:  2 * time.Second,
			RetryMax: 2,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Sentry: SentryConfig{
			Environment: "local",
			SampleRate:  0.1,
		},
		Pyroscope: PyroscopeConfig{
			ApplicationName: "ordertax",
			SampleRate:      100,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
