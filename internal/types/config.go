package types

type RunMode string

const (
	// ModeLocal runs the API server with in-process event handling
	ModeLocal RunMode = "local"
	// ModeAPI runs just the API server
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ConfigurationSourceType selects where the resolver reads tax configurations from
type ConfigurationSourceType string

const (
	ConfigurationSourcePostgres ConfigurationSourceType = "postgres"
	ConfigurationSourceRemote   ConfigurationSourceType = "remote"
)
