package repository

import (
	"context"
	"time"

	"tablebook/internal/infra"

	"github.com/google/uuid"
)

// NotificationRepository writes outbox rows for the SMS/email dispatchers.
// The booking core never waits on delivery; it only records the job.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, db infra.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	const query = `
		INSERT INTO notification_jobs (id, kind, topic, payload, run_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := db.Exec(ctx, query, uuid.New(), kind, topic, payload, runAt)
	if err != nil {
		return infra.WrapPgErr("failed to enqueue notification job", err)
	}
	return nil
}
