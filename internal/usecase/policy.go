package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"tablebook/internal/domain/policy"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/errs"
)

var ErrPolicyUnavailable = errs.New("restaurant policy is not configured")

type PolicyRepository interface {
	Get(ctx context.Context, db infra.DBTX) (*policy.Config, error)
	CreateIfAbsent(ctx context.Context, db infra.DBTX, cfg *policy.Config) error
}

// PolicyUseCase serves the restaurant policy to the rest of the application.
// The policy is read once and cached; Reload picks up administrative changes.
type PolicyUseCase interface {
	Current() (*policy.Config, error)
	Reload(ctx context.Context) (*policy.Config, error)
	Seed(ctx context.Context, rc config.RestaurantConfig) error
}

type policyUseCase struct {
	uow     UnitOfWork
	repo    PolicyRepository
	current atomic.Pointer[policy.Config]
}

func NewPolicyUseCase(uow UnitOfWork, repo PolicyRepository) PolicyUseCase {
	return &policyUseCase{uow: uow, repo: repo}
}

func (u *policyUseCase) Current() (*policy.Config, error) {
	if cfg := u.current.Load(); cfg != nil {
		return cfg, nil
	}
	return nil, ErrPolicyUnavailable
}

func (u *policyUseCase) Reload(ctx context.Context) (*policy.Config, error) {
	cfg, err := u.repo.Get(ctx, u.uow.DB())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrPolicyUnavailable)
		}
		return nil, errs.Wrap(err, "failed to load restaurant policy")
	}
	u.current.Store(cfg)
	return cfg, nil
}

// Seed writes the policy from environment configuration when no row exists
// yet, then loads whatever the database holds.
func (u *policyUseCase) Seed(ctx context.Context, rc config.RestaurantConfig) error {
	hours := make(map[time.Weekday]policy.DayHours, len(rc.OperatingHours))
	for name, span := range rc.OperatingHours {
		day, err := policy.ParseWeekday(name)
		if err != nil {
			return errs.Wrap(err, "invalid operating hours day")
		}
		dh, err := policy.ParseDayHours(span)
		if err != nil {
			return errs.Wrap(err, "invalid operating hours span")
		}
		hours[day] = dh
	}

	cfg, err := policy.NewConfig(
		rc.Name,
		hours,
		time.Duration(rc.SlotDurationMin)*time.Minute,
		rc.MaxPartySize,
		rc.BookingHorizonDays,
		rc.DefaultSlotCapacity,
	)
	if err != nil {
		return errs.Wrap(err, "invalid restaurant policy configuration")
	}

	if err := u.repo.CreateIfAbsent(ctx, u.uow.DB(), cfg); err != nil {
		return errs.Wrap(err, "failed to seed restaurant policy")
	}

	_, err = u.Reload(ctx)
	return err
}
