package request

import (
	"fmt"
	"time"

	"tablebook/internal/domain/conversation"
	"tablebook/internal/domain/policy"
)

const dateLayout = "2006-01-02"

// UpdateContextRequest carries the fields extracted from one user utterance.
// Every field is optional; absent fields are left untouched.
type UpdateContextRequest struct {
	Date            *string `json:"date,omitempty"`
	Time            *string `json:"time,omitempty"`
	PartySize       *int    `json:"party_size,omitempty"`
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Email           *string `json:"email,omitempty"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

// ToUpdates parses the wire representation into typed field updates. Fields
// that fail to parse are reported per field so the rest of the batch still
// applies, matching how the engine itself treats invalid values.
func (r UpdateContextRequest) ToUpdates() (conversation.Updates, map[string]string) {
	updates := make(conversation.Updates)
	parseErrors := make(map[string]string)

	if r.Date != nil {
		d, err := time.Parse(dateLayout, *r.Date)
		if err != nil {
			parseErrors[conversation.FieldDate.String()] = fmt.Sprintf("invalid date %q: want YYYY-MM-DD", *r.Date)
		} else {
			updates[conversation.FieldDate] = d
		}
	}
	if r.Time != nil {
		t, err := policy.ParseTimeOfDay(*r.Time)
		if err != nil {
			parseErrors[conversation.FieldTime.String()] = fmt.Sprintf("invalid time %q: want HH:MM", *r.Time)
		} else {
			updates[conversation.FieldTime] = t
		}
	}
	if r.PartySize != nil {
		updates[conversation.FieldPartySize] = *r.PartySize
	}
	if r.Name != nil {
		updates[conversation.FieldName] = *r.Name
	}
	if r.Phone != nil {
		updates[conversation.FieldPhone] = *r.Phone
	}
	if r.Email != nil {
		updates[conversation.FieldEmail] = *r.Email
	}
	if r.SpecialRequests != nil {
		updates[conversation.FieldSpecialRequests] = *r.SpecialRequests
	}

	return updates, parseErrors
}

type TransitionRequest struct {
	State string `json:"state" binding:"required"`
}
