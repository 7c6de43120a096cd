// Command expire-events soft-deletes activity events older than the
// retention window. Rows stay on disk; they just drop out of every read path.
//
// Usage:
//
//	expire-events [-retention-days 365]
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	retentionDays := flag.Int("retention-days", 365, "events older than this many days are soft-deleted")
	flag.Parse()

	if *retentionDays <= 0 {
		log.Fatal("retention-days must be positive")
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	cutoff := time.Now().UTC().AddDate(0, 0, -*retentionDays)

	tag, err := pool.Exec(ctx,
		"UPDATE activity_events SET is_deleted = TRUE WHERE created_at < $1 AND NOT is_deleted",
		cutoff,
	)
	if err != nil {
		log.Fatalf("expire events: %v", err)
	}

	fmt.Printf("Soft-deleted %d events older than %s.\n", tag.RowsAffected(), cutoff.Format("2006-01-02"))
}
