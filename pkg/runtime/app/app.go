package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/de-tools/shopping-atlas/pkg/services/config"
	"github.com/de-tools/shopping-atlas/pkg/services/dashboard"
	"github.com/de-tools/shopping-atlas/pkg/store/dataset"
	"github.com/de-tools/shopping-atlas/pkg/store/duckdb"
	"github.com/de-tools/shopping-atlas/pkg/store/duckdb/purchases"
	"github.com/rs/zerolog"
)

// App holds the dataset loaded for the lifetime of the process and the
// renderer serving it.
type App struct {
	Dataset  domain.Dataset
	Renderer *dashboard.Renderer
	db       *sql.DB
}

// New loads the configured dataset and wires the configured engine.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	settings, err := Settings(cfg.Dashboard)
	if err != nil {
		return nil, err
	}

	location, err := config.ResolveDatasetPath(ctx, cfg.Dataset)
	if err != nil {
		return nil, err
	}
	src, err := dataset.NewSource(ctx, location, dataset.SourceOptions{Region: cfg.Dataset.Region})
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	app := &App{Dataset: ds}

	var engine dashboard.Engine
	switch cfg.Dashboard.Engine {
	case config.EngineDuckDB:
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DuckDB.Path, Threads: cfg.DuckDB.Threads})
		if err != nil {
			return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		app.db = db

		store, err := purchases.NewStore(db, settings)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create purchases store: %w", err)
		}
		if err := store.Load(ctx, ds); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to load purchases into DuckDB: %w", err)
		}
		engine = store
	default:
		engine = dashboard.NewMemoryEngine(ds, settings)
	}

	logger.Info().
		Str("engine", cfg.Dashboard.Engine).
		Int("histogram_bins", settings.HistogramBins).
		Str("gender_match", string(settings.GenderMatch)).
		Msg("dashboard ready")

	app.Renderer = dashboard.NewRenderer(ds, engine)
	return app, nil
}

// Settings converts the dashboard section of the config.
func Settings(cfg config.DashboardConfig) (dashboard.Settings, error) {
	match, err := dashboard.ParseGenderMatch(cfg.GenderMatch)
	if err != nil {
		return dashboard.Settings{}, err
	}
	settings := dashboard.DefaultSettings()
	settings.GenderMatch = match
	if cfg.HistogramBins > 0 {
		settings.HistogramBins = cfg.HistogramBins
	}
	return settings, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
