// Package main loads a sample movie catalog into the configured store.
//
// Movies go through the movie service, so they are validated, get ids and
// timestamps, and are indexed for search like any created over the API.
//
// Usage:
//
//	go run ./cmd/seed import [config flags]
//	go run ./cmd/seed destroy [config flags]
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/filmarkiv/filmarkiv-server/internal/config"
	"github.com/filmarkiv/filmarkiv-server/internal/di"
	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/logger"
	"github.com/filmarkiv/filmarkiv-server/internal/service"
)

//go:embed movies.json
var sampleMovies []byte

func main() {
	if len(os.Args) < 2 || (os.Args[1] != "import" && os.Args[1] != "destroy") {
		fmt.Fprintln(os.Stderr, "usage: seed import|destroy [config flags]")
		os.Exit(2)
	}

	cfg, err := config.Load(os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	injector := di.NewContainerWithConfig(cfg)
	log := do.MustInvoke[*logger.Logger](injector)

	movies, err := do.Invoke[*service.MovieService](injector)
	if err != nil {
		log.Fatal("Failed to open catalog", "error", err)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "import":
		err = importMovies(ctx, movies, sampleMovies)
	case "destroy":
		err = destroyMovies(ctx, movies)
	}

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		log.Error("Shutdown error", "error", shutdownErr)
	}
	if err != nil {
		log.Fatal("Seeding failed", "error", err)
	}
}

// importMovies creates every movie in data, a JSON array of movie documents.
func importMovies(ctx context.Context, movies *service.MovieService, data []byte) error {
	var docs []*domain.MovieInput
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("decode sample catalog: %w", err)
	}

	for _, doc := range docs {
		m, err := movies.Create(ctx, doc)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %s (%d) as %s\n", m.Title, m.Year, m.ID)
	}

	fmt.Printf("Data imported: %d movies\n", len(docs))
	return nil
}

// destroyMovies removes every movie in the catalog.
func destroyMovies(ctx context.Context, movies *service.MovieService) error {
	all, err := movies.List(ctx, domain.MovieFilter{})
	if err != nil {
		return err
	}

	for _, m := range all {
		if err := movies.Delete(ctx, m.ID); err != nil {
			return err
		}
	}

	fmt.Printf("Data destroyed: %d movies\n", len(all))
	return nil
}
