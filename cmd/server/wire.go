//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"context"

	"github.com/bionicotaku/lingo-services-greeting/internal/controllers"
	"github.com/bionicotaku/lingo-services-greeting/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-greeting/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-greeting/internal/repositories"
	"github.com/bionicotaku/lingo-services-greeting/internal/server"
	"github.com/bionicotaku/lingo-services-greeting/internal/services"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(context.Context, *configloader.Bundle, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		database.ProviderSet,
		repositories.ProviderSet,
		wire.Bind(new(services.GreetingRepo), new(*repositories.GreetingRepository)),
		services.ProviderSet,
		handlerTimeouts,
		controllers.ProviderSet,
		server.ProviderSet,
		newApp,
	))
}
