package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/secondbrain-ai/deal-intel/pkg/validator"

	_ "github.com/secondbrain-ai/deal-intel/docs"
	"github.com/secondbrain-ai/deal-intel/internal/adapter/handler"
	"github.com/secondbrain-ai/deal-intel/internal/adapter/repository"
	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/cache"
	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/database"
	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/notify"
	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/storage"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/auth"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/calendar"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/intel"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/meeting"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/pipeline"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/stt"
	pkgai "github.com/secondbrain-ai/deal-intel/pkg/ai"
	"github.com/secondbrain-ai/deal-intel/pkg/config"
	"github.com/secondbrain-ai/deal-intel/pkg/jwt"
)

// @title           Deal Intel API
// @version         1.0
// @description     Broker-facing API for recorded sales conversation intelligence

// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping GORM AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize MinIO storage
	log.Println("🗄️  Connecting to object storage...")
	storageClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	eventRepo := repository.NewCalendarEventRepository(db)

	// Initialize STT vendor chain
	log.Println("🎙️  Initializing transcription vendors...")
	asmClient := pkgai.NewAssemblyAIClient(&cfg.STT)
	dgClient := pkgai.NewDeepgramClient(&cfg.STT)
	transcriber := stt.NewChain(
		logger,
		cfg.STT.MaxRetries,
		cfg.Pipeline.TranscriptMaxChars,
		stt.NewAssemblyAITranscriber(asmClient),
		stt.NewDeepgramTranscriber(dgClient),
	)
	sample := stt.NewSampleTranscriber()

	// Initialize LLM components
	log.Println("🤖 Initializing intelligence components...")
	groqClient := pkgai.NewGroqClient(&cfg.Groq)
	resolver := intel.NewGroqSpeakerResolver(groqClient, logger)
	extractor := intel.NewGroqExtractor(groqClient, cfg.Pipeline.TranscriptMaxChars, logger)

	// Initialize follow-up scheduler
	scheduler := calendar.NewScheduler(eventRepo, logger)

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize OTP store and notification senders
	otpStore := cache.NewOTPStore(redisClient)
	emailSender := notify.NewSMTPEmailSender(&cfg.SMTP, logger)
	smsSender := notify.NewHTTPSMSSender(&cfg.SMS, logger)

	// Initialize services
	log.Println("✨ Initializing services...")
	authService := auth.NewService(userRepo, otpStore, emailSender, smsSender, jwtManager, logger)
	pipelineService := pipeline.NewService(
		meetingRepo,
		userRepo,
		transcriber,
		sample,
		resolver,
		extractor,
		scheduler,
		cfg.Pipeline.UnverifiedMeetingLimit,
		cfg.Pipeline.TaskTimeout,
		logger,
	)
	meetingService := meeting.NewService(meetingRepo, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(authService, userRepo, jwtManager, logger)
	meetingHandler := handler.NewMeeting(pipelineService, meetingService, storageClient, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, jwtManager, authHandler, meetingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	// Let in-flight processing tasks persist their terminal status
	log.Println("⏳ Waiting for background processing to finish...")
	pipelineService.Wait()

	log.Println("✅ Server stopped gracefully")
}
