//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"mesa/config"
	"mesa/infras/jwt"
	"mesa/infras/kafka"
	"mesa/infras/otel"
	"mesa/infras/postgres"
	"mesa/infras/redis"
	reservationEvent "mesa/internal/domains/reservation/event"
	reservationRepository "mesa/internal/domains/reservation/repository"
	reservationService "mesa/internal/domains/reservation/service"
	tableRepository "mesa/internal/domains/table/repository"
	tableService "mesa/internal/domains/table/service"
	healthHandler "mesa/internal/handlers/health"
	reservationHandler "mesa/internal/handlers/reservation"
	tableHandler "mesa/internal/handlers/table"
	"mesa/shared/cache"
	"mesa/transport/http"
	"mesa/transport/http/middleware"
	"mesa/transport/http/router"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAdminMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var tableDomain = wire.NewSet(
	tableRepository.New,
	tableService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationEvent.New,
	reservationService.New,
)

var domains = wire.NewSet(
	tableDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	reservationHandler.New,
	tableHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
