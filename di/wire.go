//go:build wireinject
// +build wireinject

package di

import (
	"hotelbooking/config"
	"hotelbooking/infras/jwt"
	"hotelbooking/infras/kafka"
	"hotelbooking/infras/otel"
	"hotelbooking/infras/postgres"
	"hotelbooking/infras/redis"
	"hotelbooking/shared/cache"
	"hotelbooking/transport/http"
	"hotelbooking/transport/http/middleware"
	"hotelbooking/transport/http/router"

	bookingRepository "hotelbooking/internal/domains/booking/repository"
	bookingService "hotelbooking/internal/domains/booking/service"
	roomRepository "hotelbooking/internal/domains/room/repository"
	roomService "hotelbooking/internal/domains/room/service"
	bookingHandler "hotelbooking/internal/handlers/booking"
	roomHandler "hotelbooking/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	roomDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	bookingHandler.New,
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
