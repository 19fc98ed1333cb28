package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/mkoberg/restaurant-reservation/internal/config"
	"github.com/mkoberg/restaurant-reservation/internal/database"
	"github.com/mkoberg/restaurant-reservation/internal/handler"
	appmw "github.com/mkoberg/restaurant-reservation/internal/middleware"
	"github.com/mkoberg/restaurant-reservation/internal/queue"
	"github.com/mkoberg/restaurant-reservation/internal/repository"
	"github.com/mkoberg/restaurant-reservation/internal/router"
	"github.com/mkoberg/restaurant-reservation/internal/seed"
	"github.com/mkoberg/restaurant-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		logrus.WithError(err).Fatal("database migration failed")
	}

	tableRepo := repository.NewTableRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	booking := service.NewBookingService(reservationRepo, tableRepo)
	stats := service.NewStatsService(reservationRepo, tableRepo)

	if cfg.SeedOnEmpty {
		if err := seed.Tables(context.Background(), booking, tableRepo.Count); err != nil {
			logrus.WithError(err).Fatal("table seeding failed")
		}
	}

	publisher := queue.NewPublisher()
	go queue.StartBookedConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	// Redis backs the rate limiter and the response cache. Both degrade
	// to no-ops when the client is unavailable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable; rate limiting and response caching disabled")
	}
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(appmw.NewRedisCache(config.LoadCacheConfig(), rdb))

	tableHandler := handler.NewTableHandler(booking)
	reservationHandler := handler.NewReservationHandler(booking, publisher)
	statsHandler := handler.NewStatsHandler(stats)

	router.RegisterRoutes(e)
	router.RegisterAPI(e, tableHandler, reservationHandler, statsHandler)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("server listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
