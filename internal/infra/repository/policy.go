package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tablebook/internal/domain/policy"
	"tablebook/internal/infra"

	"github.com/jackc/pgx/v5"
)

type PolicyRepository struct{}

func NewPolicyRepository() *PolicyRepository {
	return &PolicyRepository{}
}

type dayHoursJSON struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

const policyRowID = 1

func (r *PolicyRepository) Get(ctx context.Context, db infra.DBTX) (*policy.Config, error) {
	const query = `
		SELECT restaurant_name, operating_hours, slot_duration_min,
		       max_party_size, booking_horizon_days, default_slot_capacity
		FROM restaurant_policy
		WHERE id = $1`

	var (
		name         string
		hoursRaw     []byte
		durationMin  int
		maxParty     int
		horizonDays  int
		defaultCap   int
	)
	err := db.QueryRow(ctx, query, policyRowID).Scan(
		&name, &hoursRaw, &durationMin, &maxParty, &horizonDays, &defaultCap,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "restaurant policy not found", err)
		}
		return nil, infra.WrapPgErr("failed to load restaurant policy", err)
	}

	var hoursJSON map[string]dayHoursJSON
	if err := json.Unmarshal(hoursRaw, &hoursJSON); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "malformed operating hours", err)
	}

	hours := make(map[time.Weekday]policy.DayHours, len(hoursJSON))
	for dayName, h := range hoursJSON {
		day, err := policy.ParseWeekday(dayName)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "malformed operating hours", err)
		}
		open, err := policy.ParseTimeOfDay(h.Open)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "malformed operating hours", err)
		}
		closeAt, err := policy.ParseTimeOfDay(h.Close)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "malformed operating hours", err)
		}
		hours[day] = policy.DayHours{Open: open, Close: closeAt}
	}

	cfg, err := policy.NewConfig(
		name, hours,
		time.Duration(durationMin)*time.Minute,
		maxParty, horizonDays, defaultCap,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "invalid persisted policy", err)
	}
	return cfg, nil
}

// CreateIfAbsent seeds the singleton policy row; an existing row wins.
func (r *PolicyRepository) CreateIfAbsent(ctx context.Context, db infra.DBTX, cfg *policy.Config) error {
	hoursJSON := make(map[string]dayHoursJSON)
	for _, day := range cfg.Weekdays() {
		h, _ := cfg.HoursFor(day)
		hoursJSON[policy.WeekdayName(day)] = dayHoursJSON{
			Open:  h.Open.String(),
			Close: h.Close.String(),
		}
	}
	hoursRaw, err := json.Marshal(hoursJSON)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode operating hours", err)
	}

	const query = `
		INSERT INTO restaurant_policy
			(id, restaurant_name, operating_hours, slot_duration_min,
			 max_party_size, booking_horizon_days, default_slot_capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	_, err = db.Exec(ctx, query,
		policyRowID,
		cfg.RestaurantName(),
		hoursRaw,
		int(cfg.SlotDuration().Minutes()),
		cfg.MaxPartySize(),
		cfg.HorizonDays(),
		cfg.DefaultSlotCapacity(),
	)
	if err != nil {
		return infra.WrapPgErr("failed to seed restaurant policy", err)
	}
	return nil
}
