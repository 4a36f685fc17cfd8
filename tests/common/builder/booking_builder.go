//go:build unit || e2e

package builder

import (
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/policy"
	"tablebook/internal/handler/dto/request"
)

// BookingRequestBuilder builds booking requests anchored one week after the
// given "today", so dates stay inside the default booking window.
type BookingRequestBuilder struct {
	Date            time.Time
	At              policy.TimeOfDay
	PartySize       int
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	SpecialRequests string
}

func NewBookingRequestBuilder(today time.Time) *BookingRequestBuilder {
	at, _ := policy.NewTimeOfDay(19, 0)
	return &BookingRequestBuilder{
		Date:          policy.DateOf(today).AddDate(0, 0, 7),
		At:            at,
		PartySize:     2,
		CustomerName:  "Alice Carter",
		CustomerPhone: "+1 (555) 123-4567",
	}
}

func (b *BookingRequestBuilder) With(mutate func(*BookingRequestBuilder)) *BookingRequestBuilder {
	mutate(b)
	return b
}

func (b *BookingRequestBuilder) Build() booking.Request {
	return booking.Request{
		Date:            b.Date,
		At:              b.At,
		PartySize:       b.PartySize,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CustomerEmail:   b.CustomerEmail,
		SpecialRequests: b.SpecialRequests,
	}
}

func (b *BookingRequestBuilder) BuildCreateRequestDTO() request.CreateBookingRequest {
	dto := request.CreateBookingRequest{
		Date:          b.Date.Format("2006-01-02"),
		Time:          b.At.String(),
		PartySize:     b.PartySize,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
	}
	if b.CustomerEmail != "" {
		email := b.CustomerEmail
		dto.CustomerEmail = &email
	}
	if b.SpecialRequests != "" {
		sr := b.SpecialRequests
		dto.SpecialRequests = &sr
	}
	return dto
}
