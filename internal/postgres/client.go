package postgres

import (
	"context"
)

// IClient is the transactional surface services depend on
type IClient interface {
	// WithTx wraps the given function in a transaction. Calls nested inside an
	// open transaction run on a savepoint.
	WithTx(ctx context.Context, fn func(context.Context) error) error

	// Ping reports whether the database is reachable
	Ping(ctx context.Context) error
}

var _ IClient = (*DB)(nil)

// Ping checks the connection
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}
