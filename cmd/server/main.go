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

	"qr-table-service/config"
	"qr-table-service/internal/api"
	"qr-table-service/internal/auth"
	"qr-table-service/internal/broker"
	"qr-table-service/internal/projection"
	"qr-table-service/internal/redisclient"
	"qr-table-service/internal/service"
	"qr-table-service/internal/store"
	"qr-table-service/internal/util"
	"qr-table-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting qr-table-service")

	tp, err := util.InitTracer("qr-table-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authService := service.NewAuthService(db, tokens)
	userService := service.NewUserService(db)
	catalogService := service.NewCatalogService(db)
	restaurantSvc := service.NewRestaurantService(db)
	orderService := service.NewOrderService(db, redisClient, eventPublisher)
	lifecycle := service.NewLifecycleService(db, redisClient, eventPublisher)
	occupancy := service.NewOccupancyService(db)
	tableCalls := service.NewTableCallService(db, redisClient, eventPublisher)

	projector := projection.NewProjector(db, db, redisClient)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	analyticsConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
	analyticsWorker := worker.NewAnalyticsWorker(analyticsConsumer, db, redisClient)
	go func() {
		if err := analyticsWorker.Start(workerCtx); err != nil {
			log.Printf("Analytics worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(
		authService,
		userService,
		catalogService,
		orderService,
		lifecycle,
		occupancy,
		tableCalls,
		projector,
		redisClient,
		tokens,
		restaurantSvc,
	)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	analyticsWorker.Stop()

	log.Println("Server exited")
}
