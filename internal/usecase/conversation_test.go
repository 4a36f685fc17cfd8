//go:build unit

package usecase_test

import (
	"context"
	"testing"

	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/conversation"
	"tablebook/internal/domain/policy"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conversationFixture struct {
	uc      usecase.ConversationUseCase
	booking *bookingFixture
}

func newConversationFixture(t *testing.T) *conversationFixture {
	t.Helper()
	bf := newBookingFixture(t)
	uc := usecase.NewConversationUseCase(
		&stubPolicyUC{cfg: bf.cfg}, bf.uc, clock.NewMockClock(testNow),
	)
	return &conversationFixture{uc: uc, booking: bf}
}

func (f *conversationFixture) fill(t *testing.T, id uuid.UUID) {
	t.Helper()
	result, _, err := f.uc.UpdateFields(id, conversation.Updates{
		conversation.FieldDate:      testNow.AddDate(0, 0, 7),
		conversation.FieldTime:      mustParseTime(t, "19:00"),
		conversation.FieldPartySize: 4,
		conversation.FieldName:      "Alice Carter",
		conversation.FieldPhone:     "555-123-4567",
	})
	require.NoError(t, err)
	require.Empty(t, result.Errors)
}

func TestConversationLifecycle(t *testing.T) {
	f := newConversationFixture(t)

	snapshot, err := f.uc.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, conversation.StateGreeting, snapshot.State)
	assert.Len(t, snapshot.Missing, 5)

	got, err := f.uc.Get(snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, got.ID)

	_, err = f.uc.Get(uuid.New())
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestConversationUpdateAutoAdvances(t *testing.T) {
	f := newConversationFixture(t)
	snapshot, err := f.uc.Start(context.Background())
	require.NoError(t, err)

	_, err = f.uc.TransitionTo(snapshot.ID, conversation.StateCollectingDate)
	require.NoError(t, err)

	_, got, err := f.uc.UpdateFields(snapshot.ID, conversation.Updates{
		conversation.FieldDate: testNow.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	assert.Equal(t, conversation.StateCollectingTime, got.State, "advances past the collected field")

	f.fill(t, snapshot.ID)
	got, err = f.uc.Get(snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, conversation.StateConfirming, got.State)
	assert.True(t, got.IsComplete)
}

func TestConversationComplete(t *testing.T) {
	t.Run("creates the reservation", func(t *testing.T) {
		f := newConversationFixture(t)
		snapshot, err := f.uc.Start(context.Background())
		require.NoError(t, err)
		_, err = f.uc.TransitionTo(snapshot.ID, conversation.StateCollectingDate)
		require.NoError(t, err)
		f.fill(t, snapshot.ID)

		res, got, err := f.uc.Complete(context.Background(), snapshot.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, res.Status())
		assert.Equal(t, conversation.StateCompleted, got.State)
		require.NotNil(t, got.ReservationID)
		assert.Equal(t, res.ID(), *got.ReservationID)

		_, _, err = f.uc.Complete(context.Background(), snapshot.ID)
		assert.ErrorIs(t, err, usecase.ErrAlreadyCompleted)
	})

	t.Run("incomplete context cannot complete", func(t *testing.T) {
		f := newConversationFixture(t)
		snapshot, err := f.uc.Start(context.Background())
		require.NoError(t, err)

		_, _, err = f.uc.Complete(context.Background(), snapshot.ID)
		assert.ErrorIs(t, err, usecase.ErrBookingNotReady)
	})

	t.Run("booking failure keeps the conversation in confirming", func(t *testing.T) {
		f := newConversationFixture(t)
		date := policy.DateOf(testNow).AddDate(0, 0, 7)
		at := mustParseTime(t, "19:00")
		f.booking.slots.seed(date, at, 50, 50)

		snapshot, err := f.uc.Start(context.Background())
		require.NoError(t, err)
		_, err = f.uc.TransitionTo(snapshot.ID, conversation.StateCollectingDate)
		require.NoError(t, err)
		f.fill(t, snapshot.ID)

		_, got, err := f.uc.Complete(context.Background(), snapshot.ID)
		var capErr *usecase.CapacityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, conversation.StateConfirming, got.State, "free to adjust fields and retry")
		assert.Nil(t, got.ReservationID)
	})
}

func TestConversationReset(t *testing.T) {
	f := newConversationFixture(t)
	snapshot, err := f.uc.Start(context.Background())
	require.NoError(t, err)
	_, err = f.uc.TransitionTo(snapshot.ID, conversation.StateCollectingDate)
	require.NoError(t, err)
	f.fill(t, snapshot.ID)

	res, _, err := f.uc.Complete(context.Background(), snapshot.ID)
	require.NoError(t, err)
	require.NotNil(t, res)

	// A finished call starts a fresh booking on the same session.
	got, err := f.uc.Reset(snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, conversation.StateGreeting, got.State)
	assert.Nil(t, got.ReservationID)
	assert.Len(t, got.Missing, 5)
}
