package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/policy"
	"tablebook/internal/domain/slot"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrPastDate            = errs.New("booking date is in the past")
	ErrBeyondWindow        = errs.New("booking date is beyond the booking window")
	ErrClosedDay           = errs.New("restaurant is closed on the requested day")
	ErrOutsideHours        = errs.New("requested time is outside operating hours")
	ErrUnalignedTime       = errs.New("requested time is not on the slot schedule")
	ErrDuplicateBooking    = errs.New("a booking with this phone already exists for the slot")
	ErrReservationNotFound = errs.New("reservation not found")
)

// CapacityError reports a full slot together with nearby alternatives on the
// same date that could still seat the party.
type CapacityError struct {
	Remaining    int
	Alternatives []SlotInfo
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity: %d seats remaining", e.Remaining)
}

// SlotInfo is the availability view of a single time slot.
type SlotInfo struct {
	At        policy.TimeOfDay
	Remaining int
	Total     int
}

type SlotRepository interface {
	FindByDate(ctx context.Context, db infra.DBTX, date time.Time) ([]*slot.TimeSlot, error)
	FindForUpdate(ctx context.Context, db infra.DBTX, date time.Time, at policy.TimeOfDay) (*slot.TimeSlot, error)
	CreateIfAbsent(ctx context.Context, db infra.DBTX, s *slot.TimeSlot) error
	BulkCreateIfAbsent(ctx context.Context, db infra.DBTX, slots []*slot.TimeSlot) (int, error)
	CountByDate(ctx context.Context, db infra.DBTX, date time.Time) (int, error)
	UpdateBookedCapacity(ctx context.Context, db infra.DBTX, id uuid.UUID, bookedCapacity int) error
}

type ReservationRepository interface {
	Create(ctx context.Context, db infra.DBTX, res *booking.Reservation) error
	FindByID(ctx context.Context, db infra.DBTX, id uuid.UUID) (*booking.Reservation, error)
	FindForUpdate(ctx context.Context, db infra.DBTX, id uuid.UUID) (*booking.Reservation, error)
	UpdateStatus(ctx context.Context, db infra.DBTX, id uuid.UUID, status booking.Status) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, db infra.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type BookingUseCase interface {
	ValidateBookingRequest(date time.Time, at policy.TimeOfDay, partySize int) error
	GetAvailableSlots(ctx context.Context, date time.Time, partySize int) ([]SlotInfo, error)
	CreateBooking(ctx context.Context, req booking.Request) (*booking.Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*booking.Reservation, error)
	CancelReservation(ctx context.Context, id uuid.UUID) (*booking.Reservation, error)
	GenerateTimeSlots(ctx context.Context, date time.Time) (int, error)
	GenerateHorizonSlots(ctx context.Context) (int, error)
}

type bookingUseCase struct {
	uow              UnitOfWork
	slotRepo         SlotRepository
	reservationRepo  ReservationRepository
	notificationRepo NotificationRepository
	policyUC         PolicyUseCase
	clock            clock.Clock
}

func NewBookingUseCase(
	uow UnitOfWork,
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	notificationRepo NotificationRepository,
	policyUC PolicyUseCase,
	clk clock.Clock,
) BookingUseCase {
	return &bookingUseCase{
		uow:              uow,
		slotRepo:         slotRepo,
		reservationRepo:  reservationRepo,
		notificationRepo: notificationRepo,
		policyUC:         policyUC,
		clock:            clk,
	}
}

// ValidateBookingRequest applies the policy rules in a fixed order so the
// caller always learns the most fundamental problem first: date before
// party size, party size before day-of-week, day before time.
func (u *bookingUseCase) ValidateBookingRequest(date time.Time, at policy.TimeOfDay, partySize int) error {
	cfg, err := u.policyUC.Current()
	if err != nil {
		return err
	}

	now := u.clock.Now()
	today := policy.DateOf(now)
	date = policy.DateIn(date, now.Location())

	if date.Before(today) {
		return ErrPastDate
	}
	if date.After(cfg.LastBookableDate(today)) {
		return ErrBeyondWindow
	}
	if partySize < 1 {
		return booking.ErrPartySizeTooSmall
	}
	if partySize > cfg.MaxPartySize() {
		return booking.ErrPartySizeTooLarge
	}
	hours, open := cfg.HoursFor(date.Weekday())
	if !open {
		return ErrClosedDay
	}
	if !hours.Contains(at) {
		return ErrOutsideHours
	}
	// Off-schedule times would create slot rows no availability listing
	// ever shows.
	if at.Sub(hours.Open)%cfg.SlotDuration() != 0 {
		return ErrUnalignedTime
	}
	return nil
}

// GetAvailableSlots lists the times on date that can still seat partySize
// people. Slots without a database row have seen no bookings yet and count
// as fully available, and times already past are dropped when date is today.
func (u *bookingUseCase) GetAvailableSlots(ctx context.Context, date time.Time, partySize int) ([]SlotInfo, error) {
	cfg, err := u.policyUC.Current()
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	today := policy.DateOf(now)
	date = policy.DateIn(date, now.Location())

	if date.Before(today) {
		return nil, ErrPastDate
	}
	if date.After(cfg.LastBookableDate(today)) {
		return nil, ErrBeyondWindow
	}
	hours, open := cfg.HoursFor(date.Weekday())
	if !open {
		return []SlotInfo{}, nil
	}

	existing, err := u.slotRepo.FindByDate(ctx, u.uow.DB(), date)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load time slots")
	}
	byTime := make(map[policy.TimeOfDay]*slot.TimeSlot, len(existing))
	for _, s := range existing {
		byTime[s.At()] = s
	}

	var nowTime policy.TimeOfDay
	sameDay := policy.SameDate(date, today)
	if sameDay {
		nowTime = policy.TimeOfDayFrom(u.clock.Now())
	}

	infos := make([]SlotInfo, 0)
	for at := hours.Open; at.Before(hours.Close); at = at.Add(cfg.SlotDuration()) {
		if sameDay && !at.After(nowTime) {
			continue
		}
		remaining := cfg.DefaultSlotCapacity()
		total := cfg.DefaultSlotCapacity()
		if s, ok := byTime[at]; ok {
			remaining = s.Remaining()
			total = s.TotalCapacity()
		}
		if remaining < partySize {
			continue
		}
		infos = append(infos, SlotInfo{At: at, Remaining: remaining, Total: total})
	}
	return infos, nil
}

// CreateBooking validates the request and books the slot under a row-level
// lock. The slot row is created lazily with the default capacity on first
// booking, and the availability re-check inside the transaction is what
// prevents overbooking under concurrency.
func (u *bookingUseCase) CreateBooking(ctx context.Context, req booking.Request) (*booking.Reservation, error) {
	if err := u.ValidateBookingRequest(req.Date, req.At, req.PartySize); err != nil {
		return nil, err
	}
	cfg, err := u.policyUC.Current()
	if err != nil {
		return nil, err
	}

	date := policy.DateIn(req.Date, u.clock.Now().Location())
	req.Date = date

	var created *booking.Reservation
	err = u.uow.Within(ctx, func(ctx context.Context, db infra.DBTX) error {
		seed, err := slot.NewTimeSlot(date, req.At, cfg.DefaultSlotCapacity())
		if err != nil {
			return err
		}
		if err := u.slotRepo.CreateIfAbsent(ctx, db, seed); err != nil {
			return errs.Wrap(err, "failed to ensure time slot")
		}

		locked, err := u.slotRepo.FindForUpdate(ctx, db, date, req.At)
		if err != nil {
			return errs.Wrap(err, "failed to lock time slot")
		}

		if !locked.IsAvailable(req.PartySize) {
			alts, altErr := u.alternativesWithin(ctx, db, cfg, date, req.At, req.PartySize)
			if altErr != nil {
				slog.Warn("failed to compute alternative slots", "error", altErr.Error())
			}
			return &CapacityError{Remaining: locked.Remaining(), Alternatives: alts}
		}

		res, err := booking.NewReservation(req, cfg.MaxPartySize(), u.clock.Now())
		if err != nil {
			return err
		}
		if err := u.reservationRepo.Create(ctx, db, res); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrDuplicateBooking)
			}
			return errs.Wrap(err, "failed to create reservation")
		}

		if err := locked.Book(req.PartySize); err != nil {
			return err
		}
		if err := u.slotRepo.UpdateBookedCapacity(ctx, db, locked.ID(), locked.BookedCapacity()); err != nil {
			return errs.Wrap(err, "failed to update slot capacity")
		}

		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.enqueueNotification(ctx, "reservation_confirmed", created)
	return created, nil
}

func (u *bookingUseCase) GetReservation(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	res, err := u.reservationRepo.FindByID(ctx, u.uow.DB(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Wrap(err, "failed to load reservation")
	}
	return res, nil
}

// CancelReservation marks the reservation cancelled and returns its seats
// to the slot, both under the same transaction.
func (u *bookingUseCase) CancelReservation(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	var cancelled *booking.Reservation
	err := u.uow.Within(ctx, func(ctx context.Context, db infra.DBTX) error {
		res, err := u.reservationRepo.FindForUpdate(ctx, db, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrReservationNotFound)
			}
			return errs.Wrap(err, "failed to lock reservation")
		}

		if err := res.Cancel(); err != nil {
			return err
		}
		if err := u.reservationRepo.UpdateStatus(ctx, db, res.ID(), res.Status()); err != nil {
			return errs.Wrap(err, "failed to update reservation status")
		}

		locked, err := u.slotRepo.FindForUpdate(ctx, db, res.Date(), res.At())
		if err != nil {
			return errs.Wrap(err, "failed to lock time slot")
		}
		if err := locked.Release(res.PartySize()); err != nil {
			return err
		}
		if err := u.slotRepo.UpdateBookedCapacity(ctx, db, locked.ID(), locked.BookedCapacity()); err != nil {
			return errs.Wrap(err, "failed to update slot capacity")
		}

		cancelled = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.enqueueNotification(ctx, "reservation_cancelled", cancelled)
	return cancelled, nil
}

// GenerateTimeSlots pre-creates the slot rows for a date. It is a no-op when
// the date already has rows, so it can be re-run freely.
func (u *bookingUseCase) GenerateTimeSlots(ctx context.Context, date time.Time) (int, error) {
	cfg, err := u.policyUC.Current()
	if err != nil {
		return 0, err
	}
	date = policy.DateIn(date, u.clock.Now().Location())

	count, err := u.slotRepo.CountByDate(ctx, u.uow.DB(), date)
	if err != nil {
		return 0, errs.Wrap(err, "failed to count time slots")
	}
	if count > 0 {
		return 0, nil
	}

	slots, err := slot.GenerateForDate(date, cfg)
	if err != nil {
		return 0, err
	}
	if len(slots) == 0 {
		return 0, nil
	}

	created, err := u.slotRepo.BulkCreateIfAbsent(ctx, u.uow.DB(), slots)
	if err != nil {
		return 0, errs.Wrap(err, "failed to create time slots")
	}
	return created, nil
}

// GenerateHorizonSlots pre-creates slots for every date in the booking
// window, today included. Dates that already have rows are skipped.
func (u *bookingUseCase) GenerateHorizonSlots(ctx context.Context) (int, error) {
	cfg, err := u.policyUC.Current()
	if err != nil {
		return 0, err
	}

	today := policy.DateOf(u.clock.Now())
	last := cfg.LastBookableDate(today)

	total := 0
	for date := today; !date.After(last); date = date.AddDate(0, 0, 1) {
		created, err := u.GenerateTimeSlots(ctx, date)
		if err != nil {
			return total, errs.Wrap(err, "failed to generate slots for horizon")
		}
		total += created
	}
	return total, nil
}

// alternativesWithin collects up to three still-bookable slots nearest to
// the requested time on the same date.
func (u *bookingUseCase) alternativesWithin(
	ctx context.Context,
	db infra.DBTX,
	cfg *policy.Config,
	date time.Time,
	requested policy.TimeOfDay,
	partySize int,
) ([]SlotInfo, error) {
	hours, open := cfg.HoursFor(date.Weekday())
	if !open {
		return nil, nil
	}

	existing, err := u.slotRepo.FindByDate(ctx, db, date)
	if err != nil {
		return nil, err
	}
	byTime := make(map[policy.TimeOfDay]*slot.TimeSlot, len(existing))
	for _, s := range existing {
		byTime[s.At()] = s
	}

	type candidate struct {
		info     SlotInfo
		distance time.Duration
	}
	var candidates []candidate
	for at := hours.Open; at.Before(hours.Close); at = at.Add(cfg.SlotDuration()) {
		if at.Equal(requested) {
			continue
		}
		remaining := cfg.DefaultSlotCapacity()
		total := cfg.DefaultSlotCapacity()
		if s, ok := byTime[at]; ok {
			remaining = s.Remaining()
			total = s.TotalCapacity()
		}
		if remaining < partySize {
			continue
		}
		d := at.On(date).Sub(requested.On(date))
		if d < 0 {
			d = -d
		}
		candidates = append(candidates, candidate{
			info:     SlotInfo{At: at, Remaining: remaining, Total: total},
			distance: d,
		})
	}

	// Insertion sort keeps ties in schedule order.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].distance < candidates[j-1].distance; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	const maxAlternatives = 3
	out := make([]SlotInfo, 0, maxAlternatives)
	for _, c := range candidates {
		out = append(out, c.info)
		if len(out) == maxAlternatives {
			break
		}
	}
	return out, nil
}

// enqueueNotification writes an outbox job after the booking transaction
// committed; a failure here never fails the booking itself.
func (u *bookingUseCase) enqueueNotification(ctx context.Context, kind string, res *booking.Reservation) {
	payload, err := json.Marshal(map[string]any{
		"reservation_id": res.ID().String(),
		"date":           res.Date().Format("2006-01-02"),
		"time":           res.At().String(),
		"party_size":     res.PartySize(),
		"customer_name":  res.CustomerName().String(),
		"phone":          res.CustomerPhone().String(),
	})
	if err != nil {
		slog.Error("failed to encode notification payload", "error", err.Error())
		return
	}
	if err := u.notificationRepo.CreateJob(ctx, u.uow.DB(), kind, "booking", payload, u.clock.Now()); err != nil {
		slog.Warn("failed to enqueue notification", "kind", kind, "reservation_id", res.ID().String(), "error", err.Error())
	}
}
