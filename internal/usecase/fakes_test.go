//go:build unit

package usecase_test

import (
	"context"
	"sync"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/policy"
	"tablebook/internal/domain/slot"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase"

	"github.com/google/uuid"
)

// fakeUoW serializes transactions with a mutex, which models the row-level
// lock the real implementation takes with FOR UPDATE: two concurrent
// bookings for the same slot observe each other's committed state.
type fakeUoW struct {
	mu sync.Mutex
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, db infra.DBTX) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(ctx, nil)
}

func (u *fakeUoW) DB() infra.DBTX { return nil }

// dayKey mirrors how DATE columns behave: the calendar day alone identifies
// the row, whatever location the time.Time carries.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

type slotKey struct {
	date string
	at   policy.TimeOfDay
}

type slotRow struct {
	id     uuid.UUID
	date   time.Time
	at     policy.TimeOfDay
	total  int
	booked int
}

// fakeSlotRepo stores plain rows and reconstructs entities on read, the same
// ownership model as the database: mutations only land via explicit updates.
type fakeSlotRepo struct {
	mu   sync.Mutex
	rows map[slotKey]*slotRow
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{rows: make(map[slotKey]*slotRow)}
}

func (r *fakeSlotRepo) seed(date time.Time, at policy.TimeOfDay, total, booked int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[slotKey{dayKey(date), at}] = &slotRow{
		id: uuid.New(), date: date, at: at, total: total, booked: booked,
	}
}

func (r *fakeSlotRepo) FindByDate(_ context.Context, _ infra.DBTX, date time.Time) ([]*slot.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*slot.TimeSlot
	for _, row := range r.rows {
		if policy.SameDate(row.date, date) {
			s, err := slot.Reconstruct(row.id, row.date, row.at, row.total, row.booked)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) FindForUpdate(_ context.Context, _ infra.DBTX, date time.Time, at policy.TimeOfDay) (*slot.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[slotKey{dayKey(date), at}]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "time slot not found", nil)
	}
	return slot.Reconstruct(row.id, row.date, row.at, row.total, row.booked)
}

func (r *fakeSlotRepo) CreateIfAbsent(_ context.Context, _ infra.DBTX, s *slot.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slotKey{dayKey(s.Date()), s.At()}
	if _, exists := r.rows[key]; exists {
		return nil
	}
	r.rows[key] = &slotRow{
		id: s.ID(), date: s.Date(), at: s.At(), total: s.TotalCapacity(), booked: s.BookedCapacity(),
	}
	return nil
}

func (r *fakeSlotRepo) BulkCreateIfAbsent(_ context.Context, _ infra.DBTX, slots []*slot.TimeSlot) (int, error) {
	created := 0
	for _, s := range slots {
		r.mu.Lock()
		_, exists := r.rows[slotKey{dayKey(s.Date()), s.At()}]
		r.mu.Unlock()
		if exists {
			continue
		}
		if err := r.CreateIfAbsent(context.Background(), nil, s); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (r *fakeSlotRepo) CountByDate(_ context.Context, _ infra.DBTX, date time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, row := range r.rows {
		if policy.SameDate(row.date, date) {
			count++
		}
	}
	return count, nil
}

func (r *fakeSlotRepo) UpdateBookedCapacity(_ context.Context, _ infra.DBTX, id uuid.UUID, bookedCapacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.id == id {
			row.booked = bookedCapacity
			return nil
		}
	}
	return infra.WrapRepoErr(infra.KindNotFound, "time slot not found", nil)
}

func (r *fakeSlotRepo) bookedAt(date time.Time, at policy.TimeOfDay) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[slotKey{dayKey(date), at}]; ok {
		return row.booked
	}
	return -1
}

type reservationKey struct {
	date  string
	at    policy.TimeOfDay
	phone string
}

type fakeReservationRepo struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*booking.Reservation
	unique map[reservationKey]uuid.UUID
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{
		byID:   make(map[uuid.UUID]*booking.Reservation),
		unique: make(map[reservationKey]uuid.UUID),
	}
}

func (r *fakeReservationRepo) Create(_ context.Context, _ infra.DBTX, res *booking.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reservationKey{dayKey(res.Date()), res.At(), res.CustomerPhone().Normalized()}
	if _, exists := r.unique[key]; exists {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "duplicate reservation", nil)
	}
	r.unique[key] = res.ID()
	r.byID[res.ID()] = res
	return nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, _ infra.DBTX, id uuid.UUID) (*booking.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation not found", nil)
	}
	return r.reconstruct(res)
}

func (r *fakeReservationRepo) FindForUpdate(ctx context.Context, db infra.DBTX, id uuid.UUID) (*booking.Reservation, error) {
	return r.FindByID(ctx, db, id)
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, _ infra.DBTX, id uuid.UUID, status booking.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "reservation not found", nil)
	}
	updated, err := booking.Reconstruct(
		res.ID(), res.Date(), res.At(), res.PartySize(),
		res.CustomerName(), res.CustomerPhone(), res.CustomerEmail(),
		res.SpecialRequests(), status, res.CreatedAt(),
	)
	if err != nil {
		return err
	}
	r.byID[id] = updated
	return nil
}

// reconstruct returns a copy so callers cannot mutate the stored row.
func (r *fakeReservationRepo) reconstruct(res *booking.Reservation) (*booking.Reservation, error) {
	return booking.Reconstruct(
		res.ID(), res.Date(), res.At(), res.PartySize(),
		res.CustomerName(), res.CustomerPhone(), res.CustomerEmail(),
		res.SpecialRequests(), res.Status(), res.CreatedAt(),
	)
}

type notificationJob struct {
	kind  string
	topic string
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	jobs []notificationJob
}

func (r *fakeNotificationRepo) CreateJob(_ context.Context, _ infra.DBTX, kind, topic string, _ []byte, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, notificationJob{kind: kind, topic: topic})
	return nil
}

func (r *fakeNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// stubPolicyUC serves a fixed policy without touching storage.
type stubPolicyUC struct {
	cfg *policy.Config
}

func (p *stubPolicyUC) Current() (*policy.Config, error) {
	if p.cfg == nil {
		return nil, usecase.ErrPolicyUnavailable
	}
	return p.cfg, nil
}

func (p *stubPolicyUC) Reload(_ context.Context) (*policy.Config, error) {
	return p.Current()
}

func (p *stubPolicyUC) Seed(_ context.Context, _ config.RestaurantConfig) error {
	return nil
}
