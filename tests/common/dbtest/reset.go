//go:build e2e

package dbtest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetDB truncates the booking tables between tests. The restaurant_policy
// row is kept because the seeded policy is cached in-process and not reloaded
// per test.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx,
		"TRUNCATE reservations, time_slots, notification_jobs RESTART IDENTITY CASCADE")
	return err
}
