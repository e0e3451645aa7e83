package testenv

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LockIntegrationDB serialises integration test packages sharing one database
// with a session-level advisory lock. The returned func releases it.
func LockIntegrationDB(ctx context.Context, pool *pgxpool.Pool, lockID int64) (func(), error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock conn: %w", err)
	}
	if _, err := conn.Exec(ctx, `select pg_advisory_lock($1)`, lockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("advisory lock %d: %w", lockID, err)
	}
	return func() {
		_, _ = conn.Exec(context.Background(), `select pg_advisory_unlock($1)`, lockID)
		conn.Release()
	}, nil
}
