package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/terraviva/backend/internal/config"
	"github.com/terraviva/backend/internal/database"
	"github.com/terraviva/backend/internal/database/migrations"
	"github.com/terraviva/backend/internal/jobs"
	"github.com/terraviva/backend/internal/queue"
	"github.com/terraviva/backend/internal/routes"
	"github.com/terraviva/backend/internal/services/academy"
	"github.com/terraviva/backend/internal/services/catalog"
	"github.com/terraviva/backend/internal/services/commerce"
	"github.com/terraviva/backend/internal/services/locator"
	"github.com/terraviva/backend/internal/services/subscriptions"
	"github.com/terraviva/backend/internal/subscription"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis unavailable, catalog caching disabled: %v", err)
		redisClient = nil
	}

	commerceClient := commerce.NewClient(cfg.Commerce)
	catalogService := catalog.NewService(db, redisClient)
	subscriptionService := subscriptions.NewService(db)
	academyService := academy.NewService(db)
	locatorService := locator.NewService(db)
	engine := subscription.NewEngine(catalogService)

	jobQueue := queue.NewQueue(db)
	billingJob := jobs.RegisterJobs(jobQueue, db, subscriptionService, commerceClient)
	go jobQueue.ProcessJobs()

	scheduler := queue.NewScheduler()
	scheduler.DailyAt("06:00", "billing-cycle-check", billingJob.ScheduleCheck)
	scheduler.Start()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(router, db, cfg, jobQueue, routes.Services{
		Catalog:       catalogService,
		Subscriptions: subscriptionService,
		Academy:       academyService,
		Locator:       locatorService,
		Commerce:      commerceClient,
		Engine:        engine,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	scheduler.Stop()
	jobQueue.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
