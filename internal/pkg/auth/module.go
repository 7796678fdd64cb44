package auth

import (
	"go.uber.org/fx"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
)

func newPasswordHasher(cfg *config.Config) PasswordHasher {
	return NewBcryptHasher(cfg.BcryptCost)
}

func newTokenStrategy(cfg *config.Config) Strategy {
	return NewJWTStrategy(cfg.JWTSecret, Options{TTL: cfg.TokenTTL})
}
