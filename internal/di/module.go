package di

import (
	"go.uber.org/fx"

	"github.com/mkulima/shambamart/internal/adapter/gateway"
	"github.com/mkulima/shambamart/internal/app"
	"github.com/mkulima/shambamart/internal/config"
	"github.com/mkulima/shambamart/internal/logger"
	"github.com/mkulima/shambamart/internal/pkg/auth"
	"github.com/mkulima/shambamart/internal/server/http/handlers"
	"github.com/mkulima/shambamart/internal/server/http/router"
	"github.com/mkulima/shambamart/internal/storage/postgres"
	"github.com/mkulima/shambamart/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		gateway.Module,
		usecase.Module,
		fx.Provide(func(client gateway.Client) app.GatewayProvider { return client }),
		fx.Provide(func(facade *app.MarketFacade) handlers.MarketFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
