package slot

import (
	"errors"
	"time"

	"tablebook/internal/domain/policy"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity    = errors.New("total capacity must be at least 1")
	ErrBookedOutOfRange   = errors.New("booked capacity must be between 0 and total capacity")
	ErrInsufficientSeats  = errors.New("not enough remaining capacity")
	ErrInvalidPartySize   = errors.New("party size must be at least 1")
	ErrReleaseExceedsBook = errors.New("cannot release more seats than are booked")
)

// TimeSlot is a bookable (date, time) unit with finite capacity. Capacity
// only moves through Book and Release so 0 <= booked <= total always holds.
type TimeSlot struct {
	id             uuid.UUID
	date           time.Time
	at             policy.TimeOfDay
	totalCapacity  int
	bookedCapacity int
}

func NewTimeSlot(date time.Time, at policy.TimeOfDay, totalCapacity int) (*TimeSlot, error) {
	if totalCapacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &TimeSlot{
		id:            uuid.New(),
		date:          policy.DateOf(date),
		at:            at,
		totalCapacity: totalCapacity,
	}, nil
}

func Reconstruct(id uuid.UUID, date time.Time, at policy.TimeOfDay, totalCapacity, bookedCapacity int) (*TimeSlot, error) {
	if totalCapacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if bookedCapacity < 0 || bookedCapacity > totalCapacity {
		return nil, ErrBookedOutOfRange
	}
	return &TimeSlot{
		id:             id,
		date:           policy.DateOf(date),
		at:             at,
		totalCapacity:  totalCapacity,
		bookedCapacity: bookedCapacity,
	}, nil
}

func (s *TimeSlot) Remaining() int {
	return s.totalCapacity - s.bookedCapacity
}

func (s *TimeSlot) IsAvailable(partySize int) bool {
	return partySize >= 1 && s.Remaining() >= partySize
}

// Book increments the booked capacity; callers must hold the storage-level
// slot lock while calling it.
func (s *TimeSlot) Book(partySize int) error {
	if partySize < 1 {
		return ErrInvalidPartySize
	}
	if !s.IsAvailable(partySize) {
		return ErrInsufficientSeats
	}
	s.bookedCapacity += partySize
	return nil
}

// Release frees seats when a reservation is cancelled.
func (s *TimeSlot) Release(partySize int) error {
	if partySize < 1 {
		return ErrInvalidPartySize
	}
	if partySize > s.bookedCapacity {
		return ErrReleaseExceedsBook
	}
	s.bookedCapacity -= partySize
	return nil
}

func (s *TimeSlot) StartsAt() time.Time {
	return s.at.On(s.date)
}

func (s *TimeSlot) ID() uuid.UUID         { return s.id }
func (s *TimeSlot) Date() time.Time       { return s.date }
func (s *TimeSlot) At() policy.TimeOfDay  { return s.at }
func (s *TimeSlot) TotalCapacity() int    { return s.totalCapacity }
func (s *TimeSlot) BookedCapacity() int   { return s.bookedCapacity }
