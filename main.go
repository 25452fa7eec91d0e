package main

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/quantamusic/quanta-api/internal/api"
	"github.com/quantamusic/quanta-api/internal/composer"
	"github.com/quantamusic/quanta-api/internal/config"
	"github.com/quantamusic/quanta-api/internal/database"
	"github.com/quantamusic/quanta-api/internal/quantum"
	"github.com/quantamusic/quanta-api/internal/services"
	"github.com/quantamusic/quanta-api/internal/transport"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "quanta-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			Debug:            cfg.Environment != environmentProduction,
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("Sentry not configured (SENTRY_DSN not set)")
	}

	// Pattern store is optional; without it the service runs stateless
	var db *gorm.DB
	if cfg.PersistenceEnabled() {
		var err error
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			sentry.CaptureException(err)
			log.Fatal("Failed to connect to database:", err)
		}
		if err := database.Migrate(db); err != nil {
			sentry.CaptureException(err)
			log.Fatal("Failed to run migrations:", err)
		}
		log.Println("Pattern store connected")
	} else {
		log.Println("DATABASE_URL not set, running stateless")
	}

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wire the generation pipeline: simulated quantum backend, rejection
	// sampler, OSC transport to Ableton
	sampler := quantum.NewSampler(quantum.NewSimulator())
	ableton := transport.NewAbletonClient(cfg.AbletonHost, cfg.AbletonPort)

	musical := composer.DefaultConfig()
	musical.Tempo = cfg.Tempo

	generator := services.NewGenerator(sampler, ableton, db, musical)

	router := api.SetupRouter(db, cfg, generator, ableton.Addr(), releaseVersion)

	log.Printf("quanta-api listening on :%s (Ableton OSC target %s)", cfg.Port, ableton.Addr())
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Server failed:", err)
	}
}
