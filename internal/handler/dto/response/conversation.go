package response

import (
	"time"

	"tablebook/internal/domain/conversation"
	"tablebook/internal/usecase"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type ContextResponse struct {
	Date            *string `json:"date,omitempty"`
	Time            *string `json:"time,omitempty"`
	PartySize       *int    `json:"party_size,omitempty"`
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Email           *string `json:"email,omitempty"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

type SessionResponse struct {
	SessionID     uuid.UUID       `json:"sessionId"`
	State         string          `json:"state"`
	Context       ContextResponse `json:"context"`
	MissingFields []string        `json:"missingFields"`
	IsComplete    bool            `json:"isComplete"`
	Progress      int             `json:"progress"`
	ReservationID *uuid.UUID      `json:"reservationId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type UpdateContextResponse struct {
	Updated     []string          `json:"updated"`
	Corrections []string          `json:"corrections"`
	Errors      map[string]string `json:"errors"`
	Session     SessionResponse   `json:"session"`
}

func FromSnapshot(s usecase.Snapshot) SessionResponse {
	return SessionResponse{
		SessionID:     s.ID,
		State:         s.State.String(),
		Context:       fromContext(s.Context),
		MissingFields: fieldNames(s.Missing),
		IsComplete:    s.IsComplete,
		Progress:      s.Percentage,
		ReservationID: s.ReservationID,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func FromUpdateResult(result conversation.UpdateResult, s usecase.Snapshot, parseErrors map[string]string) UpdateContextResponse {
	errs := make(map[string]string, len(result.Errors)+len(parseErrors))
	for field, msg := range result.Errors {
		errs[field.String()] = msg
	}
	for field, msg := range parseErrors {
		errs[field] = msg
	}
	return UpdateContextResponse{
		Updated:     fieldNames(result.Updated),
		Corrections: fieldNames(result.Corrections),
		Errors:      errs,
		Session:     FromSnapshot(s),
	}
}

func fromContext(c *conversation.Context) ContextResponse {
	out := ContextResponse{
		PartySize:       c.PartySize(),
		Name:            c.Name(),
		Phone:           c.Phone(),
		Email:           c.Email(),
		SpecialRequests: c.SpecialRequests(),
	}
	if d := c.Date(); d != nil {
		s := d.Format(dateLayout)
		out.Date = &s
	}
	if t := c.Time(); t != nil {
		s := t.String()
		out.Time = &s
	}
	return out
}

func fieldNames(fields []conversation.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return names
}
