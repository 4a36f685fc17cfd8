package policy

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNoOperatingHours    = errors.New("at least one weekday must have operating hours")
	ErrInvalidHours        = errors.New("opening time must be before closing time")
	ErrInvalidSlotDuration = errors.New("slot duration must be positive")
	ErrInvalidMaxParty     = errors.New("max party size must be at least 1")
	ErrInvalidHorizon      = errors.New("booking horizon must be at least 1 day")
	ErrInvalidCapacity     = errors.New("default slot capacity must be at least 1")
)

type DayHours struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// Contains reports whether t falls inside the window; the closing time
// itself is not bookable.
func (h DayHours) Contains(t TimeOfDay) bool {
	return !t.Before(h.Open) && t.Before(h.Close)
}

// ParseDayHours parses a "HH:MM-HH:MM" operating window.
func ParseDayHours(s string) (DayHours, error) {
	open, close, ok := strings.Cut(s, "-")
	if !ok {
		return DayHours{}, fmt.Errorf("invalid operating hours %q: want HH:MM-HH:MM", s)
	}
	o, err := ParseTimeOfDay(strings.TrimSpace(open))
	if err != nil {
		return DayHours{}, err
	}
	c, err := ParseTimeOfDay(strings.TrimSpace(close))
	if err != nil {
		return DayHours{}, err
	}
	if !o.Before(c) {
		return DayHours{}, ErrInvalidHours
	}
	return DayHours{Open: o, Close: c}, nil
}

// Config is the restaurant-wide booking policy. It is an immutable value:
// both engines receive it at construction and a reload builds a new one.
type Config struct {
	restaurantName      string
	hours               map[time.Weekday]DayHours
	slotDuration        time.Duration
	maxPartySize        int
	horizonDays         int
	defaultSlotCapacity int
}

func NewConfig(
	restaurantName string,
	hours map[time.Weekday]DayHours,
	slotDuration time.Duration,
	maxPartySize int,
	horizonDays int,
	defaultSlotCapacity int,
) (*Config, error) {
	if len(hours) == 0 {
		return nil, ErrNoOperatingHours
	}
	for _, h := range hours {
		if !h.Open.Before(h.Close) {
			return nil, ErrInvalidHours
		}
	}
	if slotDuration <= 0 {
		return nil, ErrInvalidSlotDuration
	}
	if maxPartySize < 1 {
		return nil, ErrInvalidMaxParty
	}
	if horizonDays < 1 {
		return nil, ErrInvalidHorizon
	}
	if defaultSlotCapacity < 1 {
		return nil, ErrInvalidCapacity
	}

	owned := make(map[time.Weekday]DayHours, len(hours))
	for d, h := range hours {
		owned[d] = h
	}

	return &Config{
		restaurantName:      restaurantName,
		hours:               owned,
		slotDuration:        slotDuration,
		maxPartySize:        maxPartySize,
		horizonDays:         horizonDays,
		defaultSlotCapacity: defaultSlotCapacity,
	}, nil
}

// HoursFor returns the operating window for a weekday; ok is false when the
// restaurant is closed that day.
func (c *Config) HoursFor(day time.Weekday) (DayHours, bool) {
	h, ok := c.hours[day]
	return h, ok
}

// WithinHours reports whether t is bookable on the given date's weekday.
func (c *Config) WithinHours(date time.Time, t TimeOfDay) bool {
	h, ok := c.HoursFor(date.Weekday())
	return ok && h.Contains(t)
}

// LastBookableDate is the horizon boundary, inclusive.
func (c *Config) LastBookableDate(today time.Time) time.Time {
	return today.AddDate(0, 0, c.horizonDays)
}

func (c *Config) RestaurantName() string        { return c.restaurantName }
func (c *Config) SlotDuration() time.Duration   { return c.slotDuration }
func (c *Config) MaxPartySize() int             { return c.maxPartySize }
func (c *Config) HorizonDays() int              { return c.horizonDays }
func (c *Config) DefaultSlotCapacity() int      { return c.defaultSlotCapacity }

// Weekdays returns the configured days in Sunday-first order.
func (c *Config) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, len(c.hours))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if _, ok := c.hours[d]; ok {
			days = append(days, d)
		}
	}
	return days
}
