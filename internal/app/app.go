package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive-backend/internal/adapter/postgres"
	eventrepo "github.com/taskhive/taskhive-backend/internal/adapter/postgres/event"
	searchrepo "github.com/taskhive/taskhive-backend/internal/adapter/postgres/search"
	sectionrepo "github.com/taskhive/taskhive-backend/internal/adapter/postgres/section"
	taskrepo "github.com/taskhive/taskhive-backend/internal/adapter/postgres/task"
	workspacerepo "github.com/taskhive/taskhive-backend/internal/adapter/postgres/workspace"
	"github.com/taskhive/taskhive-backend/internal/config"
	"github.com/taskhive/taskhive-backend/internal/service/activity"
	"github.com/taskhive/taskhive-backend/internal/service/search"
)

// Services bundles the wired service layer for embedding into a transport.
type Services struct {
	Search   *search.Service
	Activity *activity.Service

	Workspaces *workspacerepo.Repo
	Sections   *sectionrepo.Repo
	Tasks      *taskrepo.Repo
}

// Run is the application entry point. It loads configuration, initializes
// the logger and database pool, and wires the service layer. The transport
// surface (HTTP or otherwise) plugs in on top of the returned services.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	_ = Build(logger, pool, cfg)

	logger.Info("application wired, waiting for shutdown")
	<-ctx.Done()

	logger.Info("shutting down")
	return nil
}

// Build wires repositories and services onto an existing pool.
func Build(logger *slog.Logger, pool *pgxpool.Pool, cfg *config.Config) *Services {
	txm := postgres.NewTxManager(pool)

	events := eventrepo.New(pool, txm)
	searchRepo := searchrepo.New(pool, searchrepo.Options{
		SnippetMinWords: cfg.Search.SnippetMinWords,
		SnippetMaxWords: cfg.Search.SnippetMaxWords,
	})

	activitySvc := activity.NewService(logger, events, cfg.Activity)
	searchSvc := search.NewService(logger, searchRepo, activitySvc, cfg.Search)

	return &Services{
		Search:     searchSvc,
		Activity:   activitySvc,
		Workspaces: workspacerepo.New(pool),
		Sections:   sectionrepo.New(pool),
		Tasks:      taskrepo.New(pool),
	}
}
