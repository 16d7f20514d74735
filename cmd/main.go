package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parking-marketplace-backend/config"
	"parking-marketplace-backend/db"
	"parking-marketplace-backend/middleware"
	"parking-marketplace-backend/search"
	"parking-marketplace-backend/token"
	"parking-marketplace-backend/utils"

	// Repositories
	availability_repositories "parking-marketplace-backend/availability/repositories"
	booking_repositories "parking-marketplace-backend/bookings/repositories"
	promo_repositories "parking-marketplace-backend/promos/repositories"
	space_repositories "parking-marketplace-backend/spaces/repositories"
	user_repositories "parking-marketplace-backend/users/repositories"

	// Services
	availability_services "parking-marketplace-backend/availability/services"
	booking_services "parking-marketplace-backend/bookings/services"
	promo_services "parking-marketplace-backend/promos/services"
	space_services "parking-marketplace-backend/spaces/services"
	user_services "parking-marketplace-backend/users/services"

	// Routes
	availability_routes "parking-marketplace-backend/availability/routes"
	booking_routes "parking-marketplace-backend/bookings/routes"
	promo_routes "parking-marketplace-backend/promos/routes"
	space_routes "parking-marketplace-backend/spaces/routes"
	user_routes "parking-marketplace-backend/users/routes"

	"parking-marketplace-backend/bookings/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()
	defer config.Logger.Sync()

	// Load environment variables
	config.LoadEnv()

	if err := utils.InitializeDateLocation(config.GetEnvDefault("DB_TIMEZONE", "UTC")); err != nil {
		config.Logger.Fatal("Failed to initialize date location", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database and configs
	database := config.ConfigureDatabase()
	if err := config.SeedInitialAdmin(database); err != nil {
		config.Logger.Error("Failed to seed initial admin", zap.Error(err))
	}

	redisSettings := config.LoadRedisSettings()
	redisClient := config.InitRedisServer(ctx, redisSettings)
	defer redisClient.Close()

	tokenMaker, err := token.NewPasetoMaker(config.GetEnv("TOKEN_SYMMETRIC_KEY"))
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	appCtx := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
		Logger:      config.Logger,
	}

	// Background refund settlement
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisSettings.Addr,
		Password: redisSettings.Password,
		DB:       redisSettings.DB,
	}
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	// Search index
	indexPath := config.GetEnvDefault("BLEVE_INDEX_PATH", "./bleve_data")
	indexingService := search.NewIndexingService(config.Logger, indexPath)
	defer indexingService.Close()
	spaceIndex := search.NewSpaceIndex(indexingService)

	// Repositories
	txManager := db.NewTxManager(database)
	userRepo := user_repositories.NewUserRepository(database)
	spaceRepo := space_repositories.NewSpaceRepository(database)
	availabilityRepo := availability_repositories.NewAvailabilityRepository(database)
	promoRepo := promo_repositories.NewPromoRepository(database)
	bookingRepo := booking_repositories.NewBookingRepository(database)

	// Services
	userService := user_services.NewUserService(userRepo, userRepo, config.Logger)
	spaceService := space_services.NewSpaceService(spaceRepo, spaceIndex, space_services.NewRedisNearbyCache(redisClient), config.Logger)
	availabilityService := availability_services.NewAvailabilityService(availabilityRepo, spaceRepo, txManager, config.Logger)
	promoService := promo_services.NewPromoService(promoRepo, config.Logger)
	reservationService := booking_services.NewReservationService(booking_services.Dependencies{
		Reservations: bookingRepo,
		Payments:     bookingRepo,
		Spaces:       spaceRepo,
		Vehicles:     userRepo,
		Promos:       promoRepo,
		Tx:           txManager,
		Locker:       booking_services.NewRedisSpaceLocker(redisClient, booking_services.SpaceLockTTL),
		Refunds:      booking_services.NewAsynqRefundEnqueuer(asynqClient),
	}, config.Logger)

	if count, err := spaceService.Reindex(ctx); err != nil {
		config.Logger.Error("Failed to rebuild space index", zap.Error(err))
	} else {
		config.Logger.Info("Space index rebuilt", zap.Int("spaces", count))
	}

	asynqServer := asynq.NewServer(asynqRedisOpt, asynq.Config{
		Concurrency: config.GetEnvInt("REFUND_WORKER_CONCURRENCY", 5),
	})
	if err := asynqServer.Start(workers.NewServeMux(workers.NewRefundWorker(reservationService, config.Logger))); err != nil {
		config.Logger.Fatal("Failed to start refund worker", zap.Error(err))
	}
	defer asynqServer.Shutdown()

	// Rate limiting for booking and auth writes
	limiter := middleware.NewRateLimiter(
		config.GetEnvFloat("RATE_LIMIT_RPS", 5),
		config.GetEnvInt("RATE_LIMIT_BURST", 10),
	)

	// Scheduled jobs
	exportDir := config.GetEnvDefault("EXPORT_DIR", "./exports")
	scheduler := cron.New()
	if err := booking_services.ScheduleNoShowSweep(scheduler, config.GetEnvDefault("NO_SHOW_SWEEP_SPEC", "*/5 * * * *"), reservationService, config.Logger); err != nil {
		config.Logger.Fatal("Invalid no-show sweep schedule", zap.Error(err))
	}
	if err := utils.ScheduleExportCleanup(scheduler, exportDir, 24*time.Hour, config.Logger); err != nil {
		config.Logger.Fatal("Failed to schedule export cleanup", zap.Error(err))
	}
	if _, err := scheduler.AddFunc("@every 10m", limiter.Cleanup); err != nil {
		config.Logger.Fatal("Failed to schedule rate limiter cleanup", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler(config.Logger),
	})
	app.Use(requestid.New())
	app.Use(recover.New())

	// Apply CORS middleware from middleware package
	middleware.InitCors(app)

	// Routes
	api := app.Group("/api/v1")
	rateLimited := limiter.Handler(config.Logger)
	user_routes.UserRouterInit(api, appCtx, userService, rateLimited)
	space_routes.SpaceRouterInit(api, appCtx, spaceService)
	availability_routes.AvailabilityRouterInit(api, appCtx, availabilityService)
	promo_routes.PromoRouterInit(api, appCtx, promoService)
	booking_routes.BookingRouterInit(api, appCtx, reservationService, rateLimited, exportDir)

	go func() {
		<-ctx.Done()
		config.Logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			config.Logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	// Start the application
	port := config.GetEnvDefault("PORT", "8080")
	config.Logger.Info("Server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		config.Logger.Error("Server failed", zap.String("port", port), zap.Error(err))
	}
}
