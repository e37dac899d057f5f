package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"github.com/pageza/opskrifter/config"
	"github.com/pageza/opskrifter/internal/api"
	"github.com/pageza/opskrifter/internal/database"
	"github.com/pageza/opskrifter/internal/middleware"
	"github.com/pageza/opskrifter/internal/server"
	"github.com/pageza/opskrifter/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, migrationsDir()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	deps := api.Deps{
		RecipeService: service.NewRecipeService(db),
		Ping: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	}

	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Printf("WARNING: Redis unavailable, recipe creation is not rate limited: %v", err)
		} else {
			defer redisClient.Close()
			deps.Limiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RateLimitCreatePerHour)
		}
	}

	if cfg.ObjectStorageEnabled() {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		deps.ImageService = service.NewImageService(s3cfg.Client, s3cfg.BucketName, s3cfg.PublicURL)
	} else {
		log.Printf("S3_BUCKET_NAME not set, image uploads are disabled")
	}

	router := api.NewRouter(cfg.CORSOrigins)
	api.RegisterRoutes(router, deps)

	srv := server.New("api", net.JoinHostPort(cfg.ServerHost, cfg.ServerPort), router)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	closeDB(db)
	log.Println("Server stopped")
}

func migrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}
