//go:build unit

package slot_test

import (
	"testing"
	"time"

	"tablebook/internal/domain/policy"
	"tablebook/internal/domain/slot"
	"tablebook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)

func newSlot(t *testing.T, total int) *slot.TimeSlot {
	t.Helper()
	at, err := policy.NewTimeOfDay(19, 0)
	require.NoError(t, err)
	s, err := slot.NewTimeSlot(testDate, at, total)
	require.NoError(t, err)
	return s
}

func TestNewTimeSlot(t *testing.T) {
	s := newSlot(t, 50)

	assert.NotEqual(t, uuid.Nil, s.ID())
	assert.Equal(t, 50, s.TotalCapacity())
	assert.Equal(t, 0, s.BookedCapacity())
	assert.Equal(t, 50, s.Remaining())
	assert.Equal(t, time.Date(2026, 9, 4, 19, 0, 0, 0, time.UTC), s.StartsAt())

	at, _ := policy.NewTimeOfDay(19, 0)
	_, err := slot.NewTimeSlot(testDate, at, 0)
	assert.Error(t, err)
}

func TestReconstruct(t *testing.T) {
	at, _ := policy.NewTimeOfDay(19, 0)
	id := uuid.New()

	s, err := slot.Reconstruct(id, testDate, at, 50, 48)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Remaining())

	_, err = slot.Reconstruct(id, testDate, at, 50, 51)
	assert.Error(t, err, "booked cannot exceed total")

	_, err = slot.Reconstruct(id, testDate, at, 50, -1)
	assert.Error(t, err, "booked cannot be negative")
}

func TestBook(t *testing.T) {
	s := newSlot(t, 50)

	require.NoError(t, s.Book(48))
	assert.Equal(t, 2, s.Remaining())
	assert.True(t, s.IsAvailable(2))
	assert.False(t, s.IsAvailable(3))

	require.NoError(t, s.Book(2))
	assert.Equal(t, 0, s.Remaining())

	err := s.Book(1)
	assert.ErrorIs(t, err, slot.ErrInsufficientSeats)
	assert.Equal(t, 50, s.BookedCapacity(), "failed booking must not change state")
}

func TestRelease(t *testing.T) {
	s := newSlot(t, 50)
	require.NoError(t, s.Book(4))

	require.NoError(t, s.Release(2))
	assert.Equal(t, 2, s.BookedCapacity())

	err := s.Release(3)
	assert.ErrorIs(t, err, slot.ErrReleaseExceedsBook)
	assert.Equal(t, 2, s.BookedCapacity())
}

func TestGenerateForDate(t *testing.T) {
	cfg := builder.NewPolicyConfigBuilder().ClosedOn(time.Monday).MustBuild()

	t.Run("open day", func(t *testing.T) {
		// Friday, 11:00-22:00 at 30 minutes = 22 slots
		slots, err := slot.GenerateForDate(testDate, cfg)
		require.NoError(t, err)
		require.Len(t, slots, 22)

		assert.Equal(t, "11:00", slots[0].At().String())
		assert.Equal(t, "21:30", slots[len(slots)-1].At().String())
		for _, s := range slots {
			assert.Equal(t, cfg.DefaultSlotCapacity(), s.TotalCapacity())
			assert.Equal(t, 0, s.BookedCapacity())
		}
	})

	t.Run("closed day", func(t *testing.T) {
		monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		slots, err := slot.GenerateForDate(monday, cfg)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}
