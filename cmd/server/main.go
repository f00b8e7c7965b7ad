package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/hortaviva/community-garden/internal/config"
	"github.com/hortaviva/community-garden/internal/database"
	"github.com/hortaviva/community-garden/internal/handler"
	"github.com/hortaviva/community-garden/internal/middleware"
	"github.com/hortaviva/community-garden/internal/queue"
	"github.com/hortaviva/community-garden/internal/repository"
	"github.com/hortaviva/community-garden/internal/router"
	queue_publisher "github.com/hortaviva/community-garden/internal/service"
	"github.com/hortaviva/community-garden/internal/service/schedule"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal("mongodb connect failed", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	grounds := repository.NewGroundRepo(db)
	bedSchedules := repository.NewBedScheduleRepo(db)
	seeds := repository.NewSeedRepo(db)
	tools := repository.NewToolRepo(db)
	peoples := repository.NewPeopleRepo(db)
	voluntaries := repository.NewVoluntaryRepo(db)
	seedUsages := repository.NewSeedUsageRepo(db)
	toolUsages := repository.NewToolUsageRepo(db)
	donates := repository.NewGroundDonateRepo(db)
	requests := repository.NewVoluntaryRequestRepo(db)

	// The schedule engine drives the bed lifecycle; transitions are
	// announced on the broker best effort.
	engine := schedule.NewEngine(bedSchedules, grounds, seeds, logger,
		queue_publisher.PublishScheduleEvent)

	// The consumer records lifecycle events to logs/schedule.log and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartScheduleConsumer(); err != nil {
			logger.Warn("schedule consumer stopped", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	// Redis is optional; without it, caching and rate limiting are off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, response cache and rate limiter disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:              handler.NewAuthHandler(cfg, users, tokens),
		Users:             handler.NewUserHandler(users, cfg.BcryptCost),
		Grounds:           handler.NewGroundHandler(grounds),
		BedSchedules:      handler.NewBedScheduleHandler(engine),
		Seeds:             handler.NewSeedHandler(seeds),
		Tools:             handler.NewToolHandler(tools),
		Peoples:           handler.NewPeopleHandler(peoples),
		Voluntaries:       handler.NewVoluntaryHandler(voluntaries, peoples, grounds),
		SeedUsages:        handler.NewSeedUsageHandler(seedUsages, voluntaries, seeds),
		ToolUsages:        handler.NewToolUsageHandler(toolUsages, voluntaries, tools),
		GroundDonates:     handler.NewGroundDonateHandler(donates),
		VoluntaryRequests: handler.NewVoluntaryRequestHandler(requests),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
