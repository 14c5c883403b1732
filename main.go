package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/maptiva/tienda-online-mvp-sub000/internal/cartstore"
	"github.com/maptiva/tienda-online-mvp-sub000/internal/handoff"
	h "github.com/maptiva/tienda-online-mvp-sub000/internal/http"
	"github.com/maptiva/tienda-online-mvp-sub000/internal/inventory"
	"github.com/maptiva/tienda-online-mvp-sub000/internal/publisher"
	"github.com/maptiva/tienda-online-mvp-sub000/internal/recorder"
	"github.com/maptiva/tienda-online-mvp-sub000/internal/service"
	"github.com/maptiva/tienda-online-mvp-sub000/internal/storeprofile"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("storefront service starting...")

	httpPort := getEnv("HTTP_PORT", "8080")
	requestTimeout := 30 * time.Second
	shutdownTimeout := 10 * time.Second

	// Mongo holds carts and store profiles
	mongoURI := getEnv("MONGODB_URI", "mongodb://localhost:27017")
	mongoDB := getEnv("MONGODB_DATABASE", "storefront")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("mongo disconnect error: %v", err)
		}
	}()

	db := mongoClient.Database(mongoDB)
	cartRepo := cartstore.NewMongoRepository(db)
	storeRepo := storeprofile.NewMongoRepository(db)

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := cartRepo.CreateIndexes(idxCtx); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}
	if err := storeRepo.CreateIndexes(idxCtx); err != nil {
		log.Fatalf("Failed to create store indexes: %v", err)
	}
	idxCancel()

	// Redis fronts the cart reads
	redisClient := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})
	defer redisClient.Close()

	cartService := cartstore.NewCartService(cartRepo, cartstore.NewRedisCache(redisClient))

	// Postgres holds the order records plus the outbox
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}
	creds := &recorder.Credentials{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              dbPort,
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "storefront"),
		MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./internal/recorder/migrations"),
	}

	repo, err := recorder.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Outbox poller relays recorded orders to Kafka
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	defer pollerCancel()
	poller := publisher.NewOutboxPoller(repo, strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")...)
	defer poller.Close()
	go poller.Run(pollerCtx)

	// With no inventory service configured, stock is tracked in memory
	var reservations service.StockReservationClient
	if inventoryURL := getEnv("INVENTORY_SERVICE_URL", ""); inventoryURL != "" {
		reservations = inventory.NewClient(inventoryURL, 5*time.Second)
		log.Printf("Using inventory service at %s", inventoryURL)
	} else {
		reservations = inventory.NewMemoryStore()
		log.Println("INVENTORY_SERVICE_URL not set, using in-memory inventory")
	}

	orchestrator := service.NewCheckoutOrchestrator(
		reservations,
		repo,
		handoff.NewWhatsApp(),
		cartService,
	)

	checkoutHandler := h.NewCheckoutHandler(orchestrator, cartService, storeRepo, requestTimeout)
	cartHandler := h.NewCartHandler(cartService, requestTimeout)
	router := h.NewRouter(checkoutHandler, cartHandler, requestTimeout)

	srv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront service listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
