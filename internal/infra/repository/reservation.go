package repository

import (
	"context"
	"errors"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

// Create inserts a reservation. A unique violation on
// (slot_date, slot_time, phone) comes back as KindDuplicateKey so the
// usecase can tell "already booked" from a capacity problem.
func (r *ReservationRepository) Create(ctx context.Context, db infra.DBTX, res *booking.Reservation) error {
	const query = `
		INSERT INTO reservations
			(id, slot_date, slot_time, party_size, customer_name,
			 customer_phone, phone_normalized, customer_email,
			 special_requests, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var email *string
	if e := res.CustomerEmail(); e != nil {
		v := e.String()
		email = &v
	}
	var special *string
	if sr := res.SpecialRequests(); !sr.IsEmpty() {
		v := sr.String()
		special = &v
	}

	_, err := db.Exec(ctx, query,
		res.ID(),
		pgconv.DateToPgtype(res.Date()),
		pgconv.TimeOfDayToPgtype(res.At()),
		res.PartySize(),
		res.CustomerName().String(),
		res.CustomerPhone().String(),
		res.CustomerPhone().Normalized(),
		pgconv.TextFromPtr(email),
		pgconv.TextFromPtr(special),
		res.Status().String(),
		res.CreatedAt(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, db infra.DBTX, id uuid.UUID) (*booking.Reservation, error) {
	const query = `
		SELECT id, slot_date, slot_time, party_size, customer_name,
		       customer_phone, customer_email, special_requests, status, created_at
		FROM reservations
		WHERE id = $1`

	return scanReservation(db.QueryRow(ctx, query, id))
}

// FindForUpdate locks the reservation row for a status change.
func (r *ReservationRepository) FindForUpdate(ctx context.Context, db infra.DBTX, id uuid.UUID) (*booking.Reservation, error) {
	const query = `
		SELECT id, slot_date, slot_time, party_size, customer_name,
		       customer_phone, customer_email, special_requests, status, created_at
		FROM reservations
		WHERE id = $1
		FOR UPDATE`

	return scanReservation(db.QueryRow(ctx, query, id))
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, db infra.DBTX, id uuid.UUID, status booking.Status) error {
	const query = `UPDATE reservations SET status = $2 WHERE id = $1`

	tag, err := db.Exec(ctx, query, id, status.String())
	if err != nil {
		return infra.WrapPgErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "reservation not found", nil)
	}
	return nil
}

func scanReservation(row pgx.Row) (*booking.Reservation, error) {
	var (
		id        uuid.UUID
		date      pgtype.Date
		at        pgtype.Time
		partySize int
		name      string
		phone     string
		email     pgtype.Text
		special   pgtype.Text
		status    string
		createdAt time.Time
	)
	err := row.Scan(&id, &date, &at, &partySize, &name, &phone, &email, &special, &status, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation not found", err)
		}
		return nil, infra.WrapPgErr("failed to scan reservation", err)
	}

	timeOfDay, err := pgconv.TimeOfDayFromPgtype(at)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "malformed reservation time", err)
	}
	customerName, err := booking.NewCustomerName(name)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid persisted reservation", err)
	}
	customerPhone, err := booking.NewPhone(phone)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid persisted reservation", err)
	}
	var emailVO *booking.Email
	if emailStr := pgconv.PtrFromText(email); emailStr != nil {
		e, ok, err := booking.NewEmail(*emailStr)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid persisted reservation", err)
		}
		if ok {
			emailVO = &e
		}
	}
	specialVO := booking.NewSpecialRequests("")
	if specialStr := pgconv.PtrFromText(special); specialStr != nil {
		specialVO = booking.NewSpecialRequests(*specialStr)
	}

	res, err := booking.Reconstruct(
		id, date.Time, timeOfDay, partySize,
		customerName, customerPhone, emailVO, specialVO,
		booking.Status(status), createdAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid persisted reservation", err)
	}
	return res, nil
}
