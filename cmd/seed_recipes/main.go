package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pageza/opskrifter/config"
	"github.com/pageza/opskrifter/internal/client"
	"github.com/pageza/opskrifter/internal/external"
)

const (
	batchSize  = 5               // recipes posted per batch
	batchPause = 2 * time.Second // pause between batches
)

var defaultTerms = []string{
	"tomat", "kartofler", "kylling", "laks", "æbler",
	"hakket oksekød", "pasta", "gulerødder", "løg", "rabarber",
}

func main() {
	terms := flag.String("terms", strings.Join(defaultTerms, ","), "Comma separated search terms")
	perTerm := flag.Int("per-term", 3, "Recipes imported per search term")
	dryRun := flag.Bool("dry-run", false, "Search and convert without posting")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	search := external.NewClient(external.Config{
		BaseURL:    cfg.ExternalAPIURL,
		RatePerSec: cfg.ExternalRatePerSec,
	})
	api := client.New(cfg.APIBaseURL, cfg.APITimeout)

	ids := collectIDs(ctx, search, strings.Split(*terms, ","), *perTerm)
	log.Printf("Found %d recipes to import", len(ids))

	imported := 0
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		log.Printf("Importing batch %d-%d", i+1, end)

		for _, id := range ids[i:end] {
			if ctx.Err() != nil {
				log.Printf("Interrupted after %d recipes", imported)
				return
			}

			detail, err := search.Recipe(ctx, id)
			if err != nil {
				log.Printf("Failed to fetch recipe %s: %v", id, err)
				continue
			}
			recipe := detail.ToRecipe()
			if err := recipe.ValidateComplete(); err != nil {
				log.Printf("Skipping %q: %v", recipe.Title, err)
				continue
			}
			if *dryRun {
				log.Printf("Would import %q (%d ingredients)", recipe.Title, len(recipe.Ingredients))
				continue
			}

			if _, err := api.Create(ctx, recipe); err != nil {
				log.Printf("Failed to save %q: %s", recipe.Title, client.UserMessage(err))
				continue
			}
			imported++
			log.Printf("Imported %q", recipe.Title)
		}

		if end < len(ids) {
			select {
			case <-ctx.Done():
			case <-time.After(batchPause):
			}
		}
	}

	log.Printf("Seeding complete: %d recipes imported", imported)
}

// collectIDs searches every term and keeps the first perTerm unseen hits
func collectIDs(ctx context.Context, search external.Searcher, terms []string, perTerm int) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		hits, err := search.Search(ctx, term)
		if err != nil {
			log.Printf("Search for %q failed: %v", term, err)
			continue
		}
		taken := 0
		for _, h := range hits {
			if taken == perTerm {
				break
			}
			if seen[h.ID] {
				continue
			}
			seen[h.ID] = true
			ids = append(ids, h.ID)
			taken++
		}
	}
	return ids
}
