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

	"kindred_server/config"
	"kindred_server/database"
	"kindred_server/events"
	"kindred_server/routes"
	"kindred_server/services"
	"kindred_server/socket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore := initStore(ctx, cfg)
	defer closeStore()

	// Initialize services
	verifier := services.NewTokenVerifier(cfg.JWTSecret, cfg.JWTAudience)

	socketServer := socket.NewSocketServer(verifier)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("❌ [socket] serve error: %v", err)
		}
	}()
	defer socketServer.Close()

	notifiers := []services.MatchNotifier{&socket.MatchBroadcaster{Server: socketServer}}
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("❌ redis: %v", err)
		}
		defer rdb.Close()
		notifiers = append(notifiers, events.NewRedisPublisher(rdb))
		log.Println("✅ Redis match events enabled.")
	}

	deps := routes.Dependencies{
		Auth:         verifier,
		MatchMaker:   services.NewMatchMakerService(store, cfg.PlaceholderScore, notifiers...),
		MatchService: &services.MatchService{Store: store},
		Profiles:     &services.UserProfileService{Store: store},
		Realtime:     socketServer,
	}

	if cfg.PhotosEnabled() {
		photos, err := services.NewPhotoService(ctx, cfg.AWSRegion, cfg.S3BucketName)
		if err != nil {
			log.Fatalf("❌ s3: %v", err)
		}
		deps.Photos = photos
	} else {
		log.Println("⚠️ S3_BUCKET_NAME not set, photo routes disabled.")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      routes.NewRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s (store=%s)...\n", cfg.Port, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Stopped.")
}

// initStore opens the configured storage backend. The returned func releases it.
func initStore(ctx context.Context, cfg *config.Config) (services.Store, func()) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		log.Println("Initializing Postgres pool...")
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ postgres: %v", err)
		}
		store := services.NewPostgresStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			log.Fatalf("❌ postgres migrate: %v", err)
		}
		log.Println("✅ Postgres store ready.")
		return store, pool.Close

	case config.BackendMemory:
		log.Println("⚠️ Using in-memory store, data is lost on restart.")
		return services.NewMemoryStore(), func() {}

	default:
		log.Println("Initializing DynamoDB client...")
		client, err := services.InitializeDynamoDBClient(ctx, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("❌ dynamodb: %v", err)
		}
		dynamoService := &services.DynamoService{Client: client}
		log.Println("✅ DynamoDB client initialized.")
		return services.NewDynamoStore(dynamoService, cfg.ProfilesTable, cfg.MatchesTable), func() {}
	}
}
