package repository

import (
	"context"
	"errors"
	"time"

	"tablebook/internal/domain/policy"
	"tablebook/internal/domain/slot"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type SlotRepository struct{}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{}
}

func (r *SlotRepository) FindByDate(ctx context.Context, db infra.DBTX, date time.Time) ([]*slot.TimeSlot, error) {
	const query = `
		SELECT id, slot_date, slot_time, total_capacity, booked_capacity
		FROM time_slots
		WHERE slot_date = $1
		ORDER BY slot_time`

	rows, err := db.Query(ctx, query, pgconv.DateToPgtype(date))
	if err != nil {
		return nil, infra.WrapPgErr("failed to query time slots", err)
	}
	defer rows.Close()

	var slots []*slot.TimeSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr("failed to read time slots", err)
	}
	return slots, nil
}

// FindForUpdate takes the per-slot exclusive row lock. The lock is held
// until the surrounding transaction commits or rolls back.
func (r *SlotRepository) FindForUpdate(ctx context.Context, db infra.DBTX, date time.Time, at policy.TimeOfDay) (*slot.TimeSlot, error) {
	const query = `
		SELECT id, slot_date, slot_time, total_capacity, booked_capacity
		FROM time_slots
		WHERE slot_date = $1 AND slot_time = $2
		FOR UPDATE`

	row := db.QueryRow(ctx, query, pgconv.DateToPgtype(date), pgconv.TimeOfDayToPgtype(at))
	return scanSlot(row)
}

// CreateIfAbsent inserts a slot unless the (date, time) pair already
// exists; a concurrent creator winning the race is not an error.
func (r *SlotRepository) CreateIfAbsent(ctx context.Context, db infra.DBTX, s *slot.TimeSlot) error {
	const query = `
		INSERT INTO time_slots (id, slot_date, slot_time, total_capacity, booked_capacity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slot_date, slot_time) DO NOTHING`

	_, err := db.Exec(ctx, query,
		s.ID(),
		pgconv.DateToPgtype(s.Date()),
		pgconv.TimeOfDayToPgtype(s.At()),
		s.TotalCapacity(),
		s.BookedCapacity(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to create time slot", err)
	}
	return nil
}

// BulkCreateIfAbsent inserts a batch of generated slots and reports how
// many were actually written; racing generators lose quietly.
func (r *SlotRepository) BulkCreateIfAbsent(ctx context.Context, db infra.DBTX, slots []*slot.TimeSlot) (int, error) {
	created := 0
	for _, s := range slots {
		const query = `
			INSERT INTO time_slots (id, slot_date, slot_time, total_capacity, booked_capacity)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slot_date, slot_time) DO NOTHING`

		tag, err := db.Exec(ctx, query,
			s.ID(),
			pgconv.DateToPgtype(s.Date()),
			pgconv.TimeOfDayToPgtype(s.At()),
			s.TotalCapacity(),
			s.BookedCapacity(),
		)
		if err != nil {
			return created, infra.WrapPgErr("failed to create time slot", err)
		}
		created += int(tag.RowsAffected())
	}
	return created, nil
}

func (r *SlotRepository) CountByDate(ctx context.Context, db infra.DBTX, date time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM time_slots WHERE slot_date = $1`

	var count int
	if err := db.QueryRow(ctx, query, pgconv.DateToPgtype(date)).Scan(&count); err != nil {
		return 0, infra.WrapPgErr("failed to count time slots", err)
	}
	return count, nil
}

// UpdateBookedCapacity writes the booked count computed on the locked
// entity; the check constraint backstops the domain invariant.
func (r *SlotRepository) UpdateBookedCapacity(ctx context.Context, db infra.DBTX, id uuid.UUID, bookedCapacity int) error {
	const query = `UPDATE time_slots SET booked_capacity = $2 WHERE id = $1`

	tag, err := db.Exec(ctx, query, id, bookedCapacity)
	if err != nil {
		return infra.WrapPgErr("failed to update slot capacity", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "time slot not found", nil)
	}
	return nil
}

func scanSlot(row pgx.Row) (*slot.TimeSlot, error) {
	var (
		id       uuid.UUID
		date     pgtype.Date
		at       pgtype.Time
		total    int
		booked   int
	)
	if err := row.Scan(&id, &date, &at, &total, &booked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "time slot not found", err)
		}
		return nil, infra.WrapPgErr("failed to scan time slot", err)
	}

	timeOfDay, err := pgconv.TimeOfDayFromPgtype(at)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "malformed slot time", err)
	}
	s, err := slot.Reconstruct(id, date.Time, timeOfDay, total, booked)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid persisted slot", err)
	}
	return s, nil
}
