package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/config"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.UserRepository { return s.Users() },
		func(s *Storage) repository.ItemRepository { return s.Items() },
		func(s *Storage) repository.WithdrawalRepository { return s.Withdrawals() },
		func(s *Storage) repository.PurchaseRepository { return s.Purchases() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
