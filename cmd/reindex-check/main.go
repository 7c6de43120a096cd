// Command reindex-check reports search index coverage per entity type.
//
// Usage:
//
//	reindex-check
//
// Requires DATABASE_DSN environment variable to be set. Vectors are generated
// columns, so coverage below 100% for a non-empty table indicates rows whose
// text fields are all NULL, not a stale index.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	searchrepo "github.com/taskhive/taskhive-backend/internal/adapter/postgres/search"
	"github.com/taskhive/taskhive-backend/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	repo := searchrepo.New(pool, searchrepo.Options{})

	stats, err := repo.IndexStats(ctx, nil)
	if err != nil {
		log.Fatalf("index stats: %v", err)
	}

	for _, entityType := range []domain.EntityType{
		domain.EntityTypeWorkspace, domain.EntityTypeSection, domain.EntityTypeTask,
	} {
		counts := stats[entityType]
		total, indexed := counts[0], counts[1]
		coverage := 100.0
		if total > 0 {
			coverage = float64(indexed) / float64(total) * 100
		}
		fmt.Printf("%-10s total=%-6d indexed=%-6d coverage=%.1f%%\n", entityType, total, indexed, coverage)
	}
}
