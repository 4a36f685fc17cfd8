package slot

import (
	"time"

	"tablebook/internal/domain/policy"
)

// GenerateForDate builds one empty slot per interval within the date's
// operating hours, exclusive of closing time. A closed weekday yields nil.
func GenerateForDate(date time.Time, cfg *policy.Config) ([]*TimeSlot, error) {
	hours, open := cfg.HoursFor(date.Weekday())
	if !open {
		return nil, nil
	}

	var slots []*TimeSlot
	for at := hours.Open; at.Before(hours.Close); at = at.Add(cfg.SlotDuration()) {
		s, err := NewTimeSlot(date, at, cfg.DefaultSlotCapacity())
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}
