package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/opskrifter/config"
	"github.com/pageza/opskrifter/internal/client"
	"github.com/pageza/opskrifter/internal/database"
	"github.com/pageza/opskrifter/internal/drafts"
	"github.com/pageza/opskrifter/internal/external"
	"github.com/pageza/opskrifter/internal/ingredients"
	"github.com/pageza/opskrifter/internal/server"
	"github.com/pageza/opskrifter/internal/service"
	"github.com/pageza/opskrifter/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	opts := web.Options{
		API:                client.New(cfg.APIBaseURL, cfg.APITimeout),
		Drafts:             drafts.NewMemoryStore(),
		IngredientsRefresh: cfg.IngredientsRefresh,
		SecureCookies:      cfg.Environment == config.Production,
	}

	if cfg.ExternalAPIURL != "" {
		opts.Search = external.NewClient(external.Config{
			BaseURL:    cfg.ExternalAPIURL,
			ProxyURL:   cfg.ExternalProxyURL,
			RatePerSec: cfg.ExternalRatePerSec,
		})
	}

	if cfg.IngredientsSource != "" {
		opts.Ingredients = ingredients.NewCatalog(&ingredients.Loader{Source: cfg.IngredientsSource})
	}

	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Printf("WARNING: Redis unavailable, form drafts are kept in memory: %v", err)
		} else {
			defer redisClient.Close()
			opts.Drafts = drafts.NewRedisStore(redisClient)
		}
	}

	if cfg.AdminAuthEnabled() {
		opts.Auth = service.NewAdminAuthService(cfg.AdminPasswordHash, cfg.JWTSecret)
	}

	site, err := web.New(opts)
	if err != nil {
		log.Fatalf("Failed to build web front: %v", err)
	}
	if err := site.StartJobs(ctx); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer site.StopJobs()

	srv := server.New("web", net.JoinHostPort(cfg.ServerHost, cfg.WebPort), site.Router())
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
