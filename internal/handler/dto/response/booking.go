package response

import (
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/usecase"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	PartySize       int       `json:"partySize"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerEmail   *string   `json:"customerEmail,omitempty"`
	SpecialRequests *string   `json:"specialRequests,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type SlotResponse struct {
	Time      string `json:"time"`
	Remaining int    `json:"remaining"`
	Total     int    `json:"total"`
}

type AvailabilityResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

type GenerateSlotsResponse struct {
	Date    string `json:"date,omitempty"`
	Created int    `json:"created"`
}

func FromReservation(r *booking.Reservation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:            r.ID(),
		Date:          r.Date().Format(dateLayout),
		Time:          r.At().String(),
		PartySize:     r.PartySize(),
		CustomerName:  r.CustomerName().String(),
		CustomerPhone: r.CustomerPhone().String(),
		Status:        r.Status().String(),
		CreatedAt:     r.CreatedAt(),
	}
	if email := r.CustomerEmail(); email != nil {
		s := email.String()
		resp.CustomerEmail = &s
	}
	if sr := r.SpecialRequests(); !sr.IsEmpty() {
		s := sr.String()
		resp.SpecialRequests = &s
	}
	return resp
}

func FromSlotInfos(date time.Time, infos []usecase.SlotInfo) AvailabilityResponse {
	slots := make([]SlotResponse, len(infos))
	for i, info := range infos {
		slots[i] = SlotResponse{
			Time:      info.At.String(),
			Remaining: info.Remaining,
			Total:     info.Total,
		}
	}
	return AvailabilityResponse{
		Date:  date.Format(dateLayout),
		Slots: slots,
	}
}

func FromCapacityError(capErr *usecase.CapacityError) map[string]any {
	alternatives := make([]SlotResponse, len(capErr.Alternatives))
	for i, alt := range capErr.Alternatives {
		alternatives[i] = SlotResponse{
			Time:      alt.At.String(),
			Remaining: alt.Remaining,
			Total:     alt.Total,
		}
	}
	return map[string]any{
		"remaining":    capErr.Remaining,
		"alternatives": alternatives,
	}
}
