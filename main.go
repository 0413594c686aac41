package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery-backend/config"
	"delivery-backend/database"
	"delivery-backend/delivery"
	"delivery-backend/firebase"
	"delivery-backend/maps"
	"delivery-backend/middleware"
	"delivery-backend/notify"
	"delivery-backend/routes"
	"delivery-backend/tracing"
	"delivery-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const serviceName = "delivery-backend"

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatal("Environment validation failed: ", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	tracer, err := tracing.Init(cfg.JaegerEndpoint, serviceName)
	if err != nil {
		log.Fatal("Failed to initialize tracing:", err)
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Create default admin user if not exists
	if err := database.CreateDefaultAdmin(db); err != nil {
		log.Printf("Warning: Could not create default admin: %v", err)
	}

	storageClient, err := firebase.NewBucket(context.Background(), cfg.FirebaseCredentials, cfg.StorageBucket)
	if err != nil {
		log.Fatal("Failed to initialize Firebase:", err)
	}

	// Geocoding and routing share one client so MAPS_TIMEOUT bounds both.
	httpClient := &http.Client{Timeout: cfg.MapsTimeout}
	calculator := delivery.NewCalculator(
		maps.NewGeocoder(cfg.GeocodingBaseURL, cfg.GoogleMapsAPIKey, httpClient),
		maps.NewRouter(cfg.RoutesBaseURL, cfg.GoogleMapsAPIKey, httpClient),
	)
	quoter := delivery.NewQuoter(db, calculator)

	// Order notifications
	hub := notify.NewHub()
	directory := notify.DBDirectory{DB: db}
	publishers := notify.Multi{hub}

	var amqpPublisher *notify.AMQPPublisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err = notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("Warning: RabbitMQ publisher disabled: %v", err)
		} else {
			publishers = append(publishers, amqpPublisher)
		}
	}
	if cfg.TelegramBotToken != "" {
		telegram, err := notify.NewTelegramPublisher(cfg.TelegramBotToken, directory)
		if err != nil {
			log.Printf("Warning: Telegram publisher disabled: %v", err)
		} else {
			publishers = append(publishers, telegram)
		}
	}
	if utils.EmailConfigured() {
		publishers = append(publishers, notify.NewEmailPublisher(directory))
	}

	// Setup Gin router
	r := gin.Default()
	utils.UseJSONFieldNames()

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "traceparent"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Tracing(serviceName))

	// Setup routes
	limiter := routes.SetupRoutes(r, routes.Deps{
		DB:                db,
		Storage:           storageClient,
		Quoter:            quoter,
		Hub:               hub,
		Publisher:         publishers,
		AllowedOrigins:    cfg.CORSOrigins,
		RecalcWorkers:     cfg.RecalcWorkers,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	limiter.Close()

	if amqpPublisher != nil {
		if err := amqpPublisher.Close(); err != nil {
			log.Printf("Error closing RabbitMQ connection: %v", err)
		}
	}
	if err := tracer.Shutdown(ctx); err != nil {
		log.Printf("Error flushing traces: %v", err)
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed")
		}
	}

	log.Println("Server exited gracefully")
}
