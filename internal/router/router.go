package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/anonto42/neighborly/backend/internal/handlers"
	"github.com/anonto42/neighborly/backend/internal/middleware"
	"github.com/anonto42/neighborly/backend/internal/models"
	"github.com/anonto42/neighborly/backend/internal/repositories"
	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Options carries what SetupRoutes needs besides the database handles
type Options struct {
	JWTSecret     string
	TokenDuration time.Duration
	AllowDevLogin bool
	Discovery     services.DiscoveryConfig
	// Verifier is nil when Firebase is not configured
	Verifier middleware.TokenVerifier
	// MongoDatabase names the database holding booking history
	MongoDatabase string
	Logger        *slog.Logger
}

// Migrate creates or updates the relational schema
func Migrate(pgdb *gorm.DB) error {
	return pgdb.AutoMigrate(
		&models.Profile{},
		&models.Skill{},
		&models.UserSkill{},
		&models.Request{},
		&models.Booking{},
		&models.Review{},
		&models.Notification{},
	)
}

// SetupRoutes configures all application routes and injects dependencies.
// mgClient may be nil, in which case booking history is not recorded.
func SetupRoutes(ctx context.Context, e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := Migrate(pgdb); err != nil {
		return err
	}
	logger.Info("PostgreSQL auto-migrations completed for all models")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(pgdb))

	// --- Initialize Repositories ---
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	skillRepo := repositories.NewPostgresSkillRepository(pgdb)
	requestRepo := repositories.NewPostgresRequestRepository(pgdb)
	bookingRepo := repositories.NewPostgresBookingRepository(pgdb)
	reviewRepo := repositories.NewPostgresReviewRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	var eventRepo repositories.BookingEventRepository
	if mgClient != nil {
		mongoEvents := repositories.NewMongoBookingEventRepository(mgClient.Database(opts.MongoDatabase))
		if err := mongoEvents.EnsureIndexes(ctx); err != nil {
			logger.Warn("failed to create booking_events index", slog.Any("err", err))
		}
		eventRepo = mongoEvents
	}

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo, logger)
	profileService := services.NewProfileService(profileRepo, logger)
	skillService := services.NewSkillService(skillRepo)
	requestService := services.NewRequestService(requestRepo, bookingRepo, profileRepo, logger)
	bookingService := services.NewBookingService(requestRepo, bookingRepo, profileRepo, reviewRepo, eventRepo, notificationService, logger)
	reviewService := services.NewReviewService(bookingRepo, reviewRepo, logger)
	discoveryService := services.NewDiscoveryService(requestRepo, skillRepo, profileRepo, opts.Discovery)

	if err := skillService.SeedDefaults(ctx); err != nil {
		return err
	}
	logger.Info("skill catalogue seeded")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(profileService, opts.Verifier, opts.JWTSecret, opts.TokenDuration, opts.AllowDevLogin)
	authHandler.RegisterAuthRoutes(authGroup)
	logger.Info("auth routes configured",
		slog.Bool("firebase", opts.Verifier != nil),
		slog.Bool("dev_login", opts.AllowDevLogin))

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(opts.JWTSecret))

	handlers.NewProfileHandler(profileService, skillService).RegisterProfileRoutes(api)
	handlers.NewSkillHandler(skillService).RegisterSkillRoutes(api)
	handlers.NewRequestHandler(requestService, bookingService).RegisterRequestRoutes(api)
	handlers.NewBookingHandler(bookingService).RegisterBookingRoutes(api)
	handlers.NewReviewHandler(reviewService).RegisterReviewRoutes(api)
	handlers.NewDiscoveryHandler(discoveryService).RegisterDiscoveryRoutes(api)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)

	logger.Info("all routes configured")
	return nil
}
