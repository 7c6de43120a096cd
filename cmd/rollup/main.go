// Command rollup rebuilds activity summary rows for a recent window.
//
// Usage:
//
//	rollup [-period day|hour|week|month] [-days 7]
//
// Requires DATABASE_DSN environment variable to be set. Intended to run on a
// schedule; the rebuild is idempotent.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive-backend/internal/adapter/postgres"
	eventrepo "github.com/taskhive/taskhive-backend/internal/adapter/postgres/event"
	"github.com/taskhive/taskhive-backend/internal/config"
	"github.com/taskhive/taskhive-backend/internal/domain"
	"github.com/taskhive/taskhive-backend/internal/service/activity"
)

func main() {
	period := flag.String("period", "day", "summary granularity: hour, day, week, or month")
	days := flag.Int("days", 7, "how many days back to rebuild")
	flag.Parse()

	periodType := domain.PeriodType(*period)
	if !periodType.IsValid() {
		log.Fatalf("invalid period %q", *period)
	}
	if *days <= 0 {
		log.Fatal("days must be positive")
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

	txm := postgres.NewTxManager(pool)
	svc := activity.NewService(slog.Default(), eventrepo.New(pool, txm), config.ActivityConfig{
		FeedDefaultLimit: 20,
		FeedMaxLimit:     100,
		MetricsMaxEvents: 10000,
		MetricsMaxDays:   365,
	})

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -*days)

	n, err := svc.RebuildSummaries(ctx, periodType, from, to)
	if err != nil {
		log.Fatalf("rebuild summaries: %v", err)
	}

	fmt.Printf("Rebuilt %d %s summary rows over the last %d days.\n", n, periodType, *days)
}
