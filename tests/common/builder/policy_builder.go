//go:build unit || e2e

package builder

import (
	"time"

	"tablebook/internal/domain/policy"
)

type PolicyConfigBuilder struct {
	RestaurantName      string
	Hours               map[time.Weekday]policy.DayHours
	SlotDuration        time.Duration
	MaxPartySize        int
	HorizonDays         int
	DefaultSlotCapacity int
}

// NewPolicyConfigBuilder defaults to a restaurant open every day 11:00-22:00
// with 30-minute slots.
func NewPolicyConfigBuilder() *PolicyConfigBuilder {
	open, _ := policy.NewTimeOfDay(11, 0)
	close, _ := policy.NewTimeOfDay(22, 0)
	hours := make(map[time.Weekday]policy.DayHours)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[d] = policy.DayHours{Open: open, Close: close}
	}
	return &PolicyConfigBuilder{
		RestaurantName:      "Test Restaurant",
		Hours:               hours,
		SlotDuration:        30 * time.Minute,
		MaxPartySize:        8,
		HorizonDays:         30,
		DefaultSlotCapacity: 50,
	}
}

func (b *PolicyConfigBuilder) With(mutate func(*PolicyConfigBuilder)) *PolicyConfigBuilder {
	mutate(b)
	return b
}

func (b *PolicyConfigBuilder) ClosedOn(days ...time.Weekday) *PolicyConfigBuilder {
	for _, d := range days {
		delete(b.Hours, d)
	}
	return b
}

func (b *PolicyConfigBuilder) Build() (*policy.Config, error) {
	return policy.NewConfig(
		b.RestaurantName,
		b.Hours,
		b.SlotDuration,
		b.MaxPartySize,
		b.HorizonDays,
		b.DefaultSlotCapacity,
	)
}

func (b *PolicyConfigBuilder) MustBuild() *policy.Config {
	cfg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cfg
}
