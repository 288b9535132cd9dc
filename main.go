package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"youth-health-system/handlers"
	"youth-health-system/middleware"
	"youth-health-system/models"
	"youth-health-system/services"
	"youth-health-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 100 * 1024 * 1024, // 100MB — resources can be large PDFs
	})

	// 🔐 GLOBAL: Only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.School{},
		&models.Contest{},
		&models.ContestQuestion{},
		&models.ContestOption{},
		&models.ContestTranslation{},
		&models.ContestSubmission{},
		&models.Screening{},
		&models.ScreeningQuestion{},
		&models.ScreeningOption{},
		&models.ScreeningTranslation{},
		&models.ScreeningSubmission{},
		&models.Category{},
		&models.Blog{},
		&models.BlogTranslation{},
		&models.News{},
		&models.NewsTranslation{},
		&models.Event{},
		&models.Webinar{},
		&models.Resource{},
		&models.Counter{},
		&models.EventRegistration{},
		&models.AnonymousScreeningSubmission{},
		&models.AnonymousScreeningAnswer{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	translationService := services.NewTranslationService(services.NewGoogleTranslationProvider())

	leaderboardService := services.NewLeaderboardService(
		services.NewGormSubmissionStore(db),
		services.NewGormUserDirectory(db),
	)
	if raw := os.Getenv("LEADERBOARD_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			log.Fatalf("invalid LEADERBOARD_CACHE_TTL %q (use a Go duration like 30m)", raw)
		}
		leaderboardService.WithCacheTTL(ttl)
	}
	if err := leaderboardService.Start(ctx); err != nil {
		log.Fatal("failed to start leaderboard service:", err)
	}
	defer leaderboardService.Stop()

	publishSched, err := services.StartPublishScheduler(db)
	if err != nil {
		log.Fatal("failed to start publish scheduler:", err)
	}
	defer func() {
		if err := publishSched.Shutdown(); err != nil {
			log.Printf("Publish scheduler shutdown error: %v", err)
		}
	}()

	contestService := services.NewContestService(db, translationService)
	screeningService := services.NewScreeningService(db, translationService)
	contestSubs := services.NewContestSubmissionService(db, leaderboardService)
	screeningSubs := services.NewScreeningSubmissionService(db, leaderboardService)
	userService := services.NewUserService(db)
	schoolService := services.NewSchoolService(db)
	blogService := services.NewBlogService(db, translationService)
	newsService := services.NewNewsService(db, translationService)
	eventService := services.NewEventService(db)
	webinarService := services.NewWebinarService(db)
	categoryService := services.NewCategoryService(db)
	resourceService := services.NewResourceService(db)
	registrationService := services.NewRegistrationService(db)
	anonymousService := services.NewAnonymousScreeningService(db)

	handlers.SetupLeaderboardRoutes(app, handlers.NewLeaderboardHandler(leaderboardService))
	handlers.SetupCompetitionRoutes(app, contestService, screeningService, contestSubs, screeningSubs)
	handlers.SetupContentRoutes(app, blogService, newsService, eventService, webinarService, categoryService, resourceService)
	handlers.SetupUserRoutes(app, userService, schoolService)
	handlers.SetupRegistrationRoutes(app, registrationService, anonymousService)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Leaderboard refresh loop running")
	log.Println("✅ Publish scheduler running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
