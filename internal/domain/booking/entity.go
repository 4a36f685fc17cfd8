package booking

import (
	"errors"
	"time"

	"tablebook/internal/domain/policy"

	"github.com/google/uuid"
)

var (
	ErrPartySizeTooSmall    = errors.New("party size must be at least 1")
	ErrPartySizeTooLarge    = errors.New("party size exceeds maximum")
	ErrReservationCancelled = errors.New("reservation is already cancelled")
	ErrReservationCompleted = errors.New("reservation is already completed")
	ErrInvalidStatus        = errors.New("invalid reservation status")
)

// Request is the completed booking intent a conversation hands to the
// booking engine.
type Request struct {
	Date            time.Time
	At              policy.TimeOfDay
	PartySize       int
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	SpecialRequests string
}

type Reservation struct {
	id              uuid.UUID
	date            time.Time
	at              policy.TimeOfDay
	partySize       int
	customerName    CustomerName
	customerPhone   Phone
	customerEmail   *Email
	specialRequests SpecialRequests
	status          Status
	createdAt       time.Time
}

// NewReservation validates the customer-supplied shape of a request. Date
// and operating-hours rules live in the booking engine, which also knows
// the policy horizon.
func NewReservation(req Request, maxPartySize int, now time.Time) (*Reservation, error) {
	if req.PartySize < 1 {
		return nil, ErrPartySizeTooSmall
	}
	if req.PartySize > maxPartySize {
		return nil, ErrPartySizeTooLarge
	}

	name, err := NewCustomerName(req.CustomerName)
	if err != nil {
		return nil, err
	}
	phone, err := NewPhone(req.CustomerPhone)
	if err != nil {
		return nil, err
	}
	email, hasEmail, err := NewEmail(req.CustomerEmail)
	if err != nil {
		return nil, err
	}
	var emailPtr *Email
	if hasEmail {
		emailPtr = &email
	}

	return &Reservation{
		id:              uuid.New(),
		date:            policy.DateOf(req.Date),
		at:              req.At,
		partySize:       req.PartySize,
		customerName:    name,
		customerPhone:   phone,
		customerEmail:   emailPtr,
		specialRequests: NewSpecialRequests(req.SpecialRequests),
		status:          StatusConfirmed,
		createdAt:       now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	date time.Time,
	at policy.TimeOfDay,
	partySize int,
	name CustomerName,
	phone Phone,
	email *Email,
	specialRequests SpecialRequests,
	status Status,
	createdAt time.Time,
) (*Reservation, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Reservation{
		id:              id,
		date:            policy.DateOf(date),
		at:              at,
		partySize:       partySize,
		customerName:    name,
		customerPhone:   phone,
		customerEmail:   email,
		specialRequests: specialRequests,
		status:          status,
		createdAt:       createdAt,
	}, nil
}

func (r *Reservation) Cancel() error {
	switch r.status {
	case StatusCancelled:
		return ErrReservationCancelled
	case StatusCompleted:
		return ErrReservationCompleted
	}
	r.status = StatusCancelled
	return nil
}

func (r *Reservation) IsActive() bool {
	return r.status == StatusConfirmed
}

func (r *Reservation) StartsAt() time.Time {
	return r.at.On(r.date)
}

func (r *Reservation) ID() uuid.UUID                   { return r.id }
func (r *Reservation) Date() time.Time                 { return r.date }
func (r *Reservation) At() policy.TimeOfDay            { return r.at }
func (r *Reservation) PartySize() int                  { return r.partySize }
func (r *Reservation) CustomerName() CustomerName      { return r.customerName }
func (r *Reservation) CustomerPhone() Phone            { return r.customerPhone }
func (r *Reservation) CustomerEmail() *Email           { return r.customerEmail }
func (r *Reservation) SpecialRequests() SpecialRequests { return r.specialRequests }
func (r *Reservation) Status() Status                  { return r.status }
func (r *Reservation) CreatedAt() time.Time            { return r.createdAt }
