package components

import (
	"tablebook/internal/pkg/clock"
	"tablebook/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		usecase.NewPolicyUseCase,
		usecase.NewBookingUseCase,
		usecase.NewConversationUseCase,
	),
)
