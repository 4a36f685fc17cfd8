package usecase

import (
	"context"
	"sync"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/conversation"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errs.New("conversation session not found")
	ErrBookingNotReady  = errs.New("conversation has not collected all required fields")
	ErrAlreadyCompleted = errs.New("conversation already completed a booking")
)

// Snapshot is a point-in-time view of one conversation session.
type Snapshot struct {
	ID            uuid.UUID
	State         conversation.State
	Collected     []conversation.Field
	Missing       []conversation.Field
	IsComplete    bool
	Percentage    int
	Context       *conversation.Context
	ReservationID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ConversationUseCase interface {
	Start(ctx context.Context) (Snapshot, error)
	Get(id uuid.UUID) (Snapshot, error)
	UpdateFields(id uuid.UUID, updates conversation.Updates) (conversation.UpdateResult, Snapshot, error)
	TransitionTo(id uuid.UUID, target conversation.State) (Snapshot, error)
	Advance(id uuid.UUID) (Snapshot, bool, error)
	Reset(id uuid.UUID) (Snapshot, error)
	Complete(ctx context.Context, id uuid.UUID) (*booking.Reservation, Snapshot, error)
}

// session pairs an engine with its own lock. The engine is single-owner, so
// every operation on it runs under mu; the registry lock only guards the map.
type session struct {
	mu            sync.Mutex
	engine        *conversation.Engine
	reservationID *uuid.UUID
	createdAt     time.Time
	updatedAt     time.Time
}

type conversationUseCase struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*session
	policyUC  PolicyUseCase
	bookingUC BookingUseCase
	clock     clock.Clock
}

func NewConversationUseCase(policyUC PolicyUseCase, bookingUC BookingUseCase, clk clock.Clock) ConversationUseCase {
	return &conversationUseCase{
		sessions:  make(map[uuid.UUID]*session),
		policyUC:  policyUC,
		bookingUC: bookingUC,
		clock:     clk,
	}
}

func (u *conversationUseCase) Start(_ context.Context) (Snapshot, error) {
	cfg, err := u.policyUC.Current()
	if err != nil {
		return Snapshot{}, err
	}

	id := uuid.New()
	now := u.clock.Now()
	s := &session{
		engine:    conversation.NewEngine(cfg, u.clock),
		createdAt: now,
		updatedAt: now,
	}

	u.mu.Lock()
	u.sessions[id] = s
	u.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return u.snapshot(id, s), nil
}

func (u *conversationUseCase) Get(id uuid.UUID) (Snapshot, error) {
	s, err := u.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return u.snapshot(id, s), nil
}

func (u *conversationUseCase) UpdateFields(id uuid.UUID, updates conversation.Updates) (conversation.UpdateResult, Snapshot, error) {
	s, err := u.lookup(id)
	if err != nil {
		return conversation.UpdateResult{}, Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.engine.UpdateContext(updates)
	s.engine.AutoAdvanceState()
	s.updatedAt = u.clock.Now()
	return result, u.snapshot(id, s), nil
}

func (u *conversationUseCase) TransitionTo(id uuid.UUID, target conversation.State) (Snapshot, error) {
	s, err := u.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.TransitionTo(target); err != nil {
		return u.snapshot(id, s), err
	}
	s.updatedAt = u.clock.Now()
	return u.snapshot(id, s), nil
}

func (u *conversationUseCase) Advance(id uuid.UUID) (Snapshot, bool, error) {
	s, err := u.lookup(id)
	if err != nil {
		return Snapshot{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, moved := s.engine.AutoAdvanceState()
	if moved {
		s.updatedAt = u.clock.Now()
	}
	return u.snapshot(id, s), moved, nil
}

func (u *conversationUseCase) Reset(id uuid.UUID) (Snapshot, error) {
	s, err := u.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Reset()
	s.reservationID = nil
	s.updatedAt = u.clock.Now()
	return u.snapshot(id, s), nil
}

// Complete turns the collected context into a reservation. The engine only
// moves to completed after the booking engine accepted the request, so a
// capacity or duplicate failure leaves the conversation in confirming and
// the caller free to adjust fields and retry.
func (u *conversationUseCase) Complete(ctx context.Context, id uuid.UUID) (*booking.Reservation, Snapshot, error) {
	s, err := u.lookup(id)
	if err != nil {
		return nil, Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.State() == conversation.StateCompleted {
		return nil, u.snapshot(id, s), ErrAlreadyCompleted
	}
	if ok, _ := s.engine.CanTransitionTo(conversation.StateCompleted); !ok {
		return nil, u.snapshot(id, s), ErrBookingNotReady
	}

	req, err := s.engine.Context().BookingRequest()
	if err != nil {
		return nil, u.snapshot(id, s), errs.Mark(err, ErrBookingNotReady)
	}

	res, err := u.bookingUC.CreateBooking(ctx, req)
	if err != nil {
		return nil, u.snapshot(id, s), err
	}

	if err := s.engine.TransitionTo(conversation.StateCompleted); err != nil {
		return res, u.snapshot(id, s), err
	}
	resID := res.ID()
	s.reservationID = &resID
	s.updatedAt = u.clock.Now()
	return res, u.snapshot(id, s), nil
}

func (u *conversationUseCase) lookup(id uuid.UUID) (*session, error) {
	u.mu.RLock()
	s, ok := u.sessions[id]
	u.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// snapshot must be called with s.mu held.
func (u *conversationUseCase) snapshot(id uuid.UUID, s *session) Snapshot {
	p := s.engine.Progress()
	return Snapshot{
		ID:            id,
		State:         p.State,
		Collected:     p.CollectedFields,
		Missing:       p.MissingFields,
		IsComplete:    p.IsComplete,
		Percentage:    p.Percentage,
		Context:       s.engine.Context(),
		ReservationID: s.reservationID,
		CreatedAt:     s.createdAt,
		UpdatedAt:     s.updatedAt,
	}
}
