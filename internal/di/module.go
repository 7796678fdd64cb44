package di

import (
	"go.uber.org/fx"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/app"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/config"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/logger"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/pkg/auth"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/handlers"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/router"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/storage/postgres"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/usecase"
)

// Module assembles the full application graph.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(func(f *app.InventoryFacade) handlers.InventoryFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
