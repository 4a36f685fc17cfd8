package bootstrap

import (
	"time"

	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	tokenDuration, err := time.ParseDuration(cfg.Auth.JWTDuration)
	if err != nil {
		panic("invalid ADMIN_JWT_DURATION: " + err.Error())
	}

	return jwt.NewService(cfg.Auth.JWTSecret, tokenDuration)
}
