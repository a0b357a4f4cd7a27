package testutil

import (
	"context"

	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

type txMarker struct{}

// MockPostgresClient runs transactional functions without a database
type MockPostgresClient struct {
	logger *logger.Logger
	// Err is returned by Ping when set
	Err error
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes the given function, marking the context as transactional
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}
	return fn(context.WithValue(ctx, txMarker{}, true))
}

func (c *MockPostgresClient) Ping(ctx context.Context) error {
	return c.Err
}

// InTx reports whether ctx was produced by MockPostgresClient.WithTx
func InTx(ctx context.Context) bool {
	v, _ := ctx.Value(txMarker{}).(bool)
	return v
}
