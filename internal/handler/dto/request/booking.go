package request

import (
	"fmt"
	"strings"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/policy"
)

type CreateBookingRequest struct {
	Date            string  `json:"date" binding:"required"`
	Time            string  `json:"time" binding:"required"`
	PartySize       int     `json:"party_size" binding:"required"`
	CustomerName    string  `json:"customer_name" binding:"required"`
	CustomerPhone   string  `json:"customer_phone" binding:"required"`
	CustomerEmail   *string `json:"customer_email,omitempty"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

func (r CreateBookingRequest) ToDomain() (booking.Request, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return booking.Request{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", r.Date)
	}
	at, err := policy.ParseTimeOfDay(r.Time)
	if err != nil {
		return booking.Request{}, fmt.Errorf("invalid time %q: want HH:MM", r.Time)
	}

	req := booking.Request{
		Date:          date,
		At:            at,
		PartySize:     r.PartySize,
		CustomerName:  strings.TrimSpace(r.CustomerName),
		CustomerPhone: strings.TrimSpace(r.CustomerPhone),
	}
	if r.CustomerEmail != nil {
		req.CustomerEmail = strings.TrimSpace(*r.CustomerEmail)
	}
	if r.SpecialRequests != nil {
		req.SpecialRequests = strings.TrimSpace(*r.SpecialRequests)
	}
	return req, nil
}

// GenerateSlotsRequest targets one date, or the whole booking window when the
// date is omitted.
type GenerateSlotsRequest struct {
	Date string `json:"date"`
}

func (r GenerateSlotsRequest) ParseDate() (time.Time, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", r.Date)
	}
	return date, nil
}
