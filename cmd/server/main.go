package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/foxxcyber/healthy-food/internal/analysis"
	"github.com/foxxcyber/healthy-food/internal/booking"
	"github.com/foxxcyber/healthy-food/internal/catalog"
	"github.com/foxxcyber/healthy-food/internal/config"
	"github.com/foxxcyber/healthy-food/internal/database"
	"github.com/foxxcyber/healthy-food/internal/handlers"
	"github.com/foxxcyber/healthy-food/internal/logger"
	"github.com/foxxcyber/healthy-food/internal/metrics"
	"github.com/foxxcyber/healthy-food/internal/middleware"
	"github.com/foxxcyber/healthy-food/internal/services"
	"github.com/foxxcyber/healthy-food/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.Init(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Accounts and appointments live in Postgres when configured
	var (
		db       *database.DB
		accounts database.AccountStore
		appts    booking.AppointmentStore
	)
	if cfg.DatabaseURL != "" {
		db, err = database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		accounts, appts = db, db
	} else {
		log.Warn("DATABASE_URL not set, accounts and appointments are kept in memory")
		mem := database.NewMemoryStore()
		accounts, appts = mem, mem
	}

	cat, err := loadCatalog(ctx, cfg, db, log)
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}
	log.Info("Catalog loaded", zap.Int("products", cat.Len()))

	// Sessions
	var store session.Store
	if cfg.RedisURL != "" {
		client, err := session.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		store = session.NewRedisStore(client, "", cfg.SessionTTL)
	} else {
		store = session.NewMemoryStore(cfg.SessionTTL)
	}
	sessions := session.NewManager(store)

	// Label analysis
	var analyzer analysis.Analyzer
	switch cfg.Analyzer {
	case "tesseract":
		ocr, err := analysis.NewTesseractAnalyzer()
		if err != nil {
			log.Fatal("Failed to initialize OCR analyzer", zap.Error(err))
		}
		defer ocr.Close()
		analyzer = ocr
	default:
		analyzer = analysis.NewMockAnalyzer(
			analysis.WithDelays(cfg.AnalysisUploadDelay, cfg.AnalysisCameraDelay),
			analysis.WithFailureRate(cfg.AnalysisFailureRate),
		)
	}

	jobOpts := []analysis.JobsOption{analysis.WithLogger(log)}
	var images handlers.ImageLinker
	if cfg.S3Enabled() {
		storage, err := services.NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
		if err != nil {
			log.Fatal("Failed to initialize storage service", zap.Error(err))
		}
		if err := storage.EnsureBucket(ctx); err != nil {
			log.Warn("Failed to ensure label bucket exists", zap.Error(err))
		}
		jobOpts = append(jobOpts, analysis.WithArchiver(storage))
		images = storage
		log.Info("Label archive enabled", zap.String("bucket", cfg.S3Bucket))
	}
	jobs := analysis.NewJobs(analyzer, cat, jobOpts...)

	// Booking
	schedOpts := []booking.SchedulerOption{
		booking.WithDelay(cfg.BookingDelay),
		booking.WithFailureRate(cfg.BookingFailureRate),
		booking.WithLogger(log),
	}
	email := services.NewEmailService(services.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		FromAddr: cfg.SMTPFromAddr,
		FromName: cfg.SMTPFromName,
		Enabled:  cfg.SMTPEnabled,
	})
	if email.IsConfigured() {
		schedOpts = append(schedOpts, booking.WithNotifier(email))
	}
	scheduler := booking.NewScheduler(booking.NewDirectory(nil, nil), appts, schedOpts...)

	var geocoder handlers.Geocoder
	if maps := services.NewGoogleMapsService(cfg.GoogleMapsAPIKey); maps.Enabled() {
		geocoder = maps
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    analysis.MaxImageSize + 1024*1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + session.HeaderName,
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders: session.HeaderName + ", " + middleware.RequestIDHeader,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	h := handlers.New(cfg, handlers.Deps{
		Accounts:  accounts,
		Catalog:   cat,
		Sessions:  sessions,
		Jobs:      jobs,
		Scheduler: scheduler,
		Geocoder:  geocoder,
		Images:    images,
	})
	h.Routes(app)

	go func() {
		log.Info("Server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	jobs.Close()
}

// loadCatalog reads the catalog from Postgres when it has been seeded there,
// otherwise from CATALOG_FILE or the bundled seed
func loadCatalog(ctx context.Context, cfg *config.Config, db *database.DB, log *zap.Logger) (*catalog.Catalog, error) {
	if db != nil {
		products, err := db.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		suppliers, err := db.ListSuppliers(ctx)
		if err != nil {
			return nil, err
		}
		if len(products) > 0 {
			log.Info("Using catalog from database")
			return catalog.New(products, suppliers), nil
		}
		log.Info("Database catalog is empty, falling back to seed file")
	}

	seed, err := catalog.LoadSeedFile(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	return seed.Catalog(), nil
}
