//go:build unit

package booking_test

import (
	"testing"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow  = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	maxParty = 8
)

func TestNewReservation(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		req := builder.NewBookingRequestBuilder(testNow).With(func(b *builder.BookingRequestBuilder) {
			b.CustomerEmail = "alice@example.com"
			b.SpecialRequests = "window seat"
		}).Build()

		res, err := booking.NewReservation(req, maxParty, testNow)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, res.ID())
		assert.Equal(t, booking.StatusConfirmed, res.Status())
		assert.True(t, res.IsActive())
		assert.Equal(t, req.Date, res.Date())
		assert.Equal(t, 2, res.PartySize())
		assert.Equal(t, "Alice Carter", res.CustomerName().String())
		require.NotNil(t, res.CustomerEmail())
		assert.Equal(t, "alice@example.com", res.CustomerEmail().String())
		assert.Equal(t, "window seat", res.SpecialRequests().String())
		assert.Equal(t, testNow, res.CreatedAt())
	})

	t.Run("email is optional", func(t *testing.T) {
		req := builder.NewBookingRequestBuilder(testNow).Build()
		res, err := booking.NewReservation(req, maxParty, testNow)
		require.NoError(t, err)
		assert.Nil(t, res.CustomerEmail())
	})

	cases := []struct {
		name   string
		mutate func(*builder.BookingRequestBuilder)
		errIs  error
	}{
		{
			name:   "party size zero",
			mutate: func(b *builder.BookingRequestBuilder) { b.PartySize = 0 },
			errIs:  booking.ErrPartySizeTooSmall,
		},
		{
			name:   "party size above maximum",
			mutate: func(b *builder.BookingRequestBuilder) { b.PartySize = 9 },
			errIs:  booking.ErrPartySizeTooLarge,
		},
		{
			name:   "empty name",
			mutate: func(b *builder.BookingRequestBuilder) { b.CustomerName = "  " },
			errIs:  booking.ErrEmptyCustomerName,
		},
		{
			name:   "invalid phone",
			mutate: func(b *builder.BookingRequestBuilder) { b.CustomerPhone = "123" },
			errIs:  booking.ErrInvalidPhone,
		},
		{
			name:   "invalid email",
			mutate: func(b *builder.BookingRequestBuilder) { b.CustomerEmail = "not-an-email" },
			errIs:  booking.ErrInvalidEmail,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := builder.NewBookingRequestBuilder(testNow).With(tc.mutate).Build()
			_, err := booking.NewReservation(req, maxParty, testNow)
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestCancel(t *testing.T) {
	newReservation := func(t *testing.T) *booking.Reservation {
		t.Helper()
		req := builder.NewBookingRequestBuilder(testNow).Build()
		res, err := booking.NewReservation(req, maxParty, testNow)
		require.NoError(t, err)
		return res
	}

	t.Run("confirmed reservation can be cancelled", func(t *testing.T) {
		res := newReservation(t)
		require.NoError(t, res.Cancel())
		assert.Equal(t, booking.StatusCancelled, res.Status())
		assert.False(t, res.IsActive())
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		res := newReservation(t)
		require.NoError(t, res.Cancel())
		assert.ErrorIs(t, res.Cancel(), booking.ErrReservationCancelled)
	})
}

func TestStatus(t *testing.T) {
	for _, s := range []booking.Status{booking.StatusConfirmed, booking.StatusCancelled, booking.StatusCompleted} {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, booking.Status("pending").IsValid())
}
