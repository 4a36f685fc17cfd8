package usecase

import (
	"context"

	"tablebook/internal/infra"
)

// UnitOfWork runs a function inside a database transaction. Repositories
// receive the transactional DBTX so row locks taken inside fn hold until
// commit or rollback.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, db infra.DBTX) error) error
	DB() infra.DBTX
}
