package components

import (
	"tablebook/internal/infra/repository"
	"tablebook/internal/infra/uow"
	"tablebook/internal/usecase"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		uow.NewPostgresUoW,
		fx.Annotate(
			repository.NewPolicyRepository,
			fx.As(new(usecase.PolicyRepository)),
		),
		fx.Annotate(
			repository.NewSlotRepository,
			fx.As(new(usecase.SlotRepository)),
		),
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(usecase.ReservationRepository)),
		),
		fx.Annotate(
			repository.NewNotificationRepository,
			fx.As(new(usecase.NotificationRepository)),
		),
	),
)
