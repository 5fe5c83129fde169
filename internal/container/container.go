// Package container wires the dashboard services from configuration.
package container

import (
	"context"
	"fmt"

	"pspicdash/adapters/excel"
	"pspicdash/adapters/gsheets"
	"pspicdash/adapters/sqlstore"
	"pspicdash/internal"
	"pspicdash/internal/catalog"
	"pspicdash/internal/config"
	"pspicdash/internal/dashboard"
	"pspicdash/internal/dataset"
	"pspicdash/internal/migration"
	"pspicdash/internal/navigation"
	"pspicdash/ports"

	"github.com/jmoiron/sqlx"
)

var logger = internal.DefaultLogger.Component("Container")

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure; DB is nil when preferences are kept in memory
	DB *sqlx.DB

	Preferences ports.PreferenceRepository
	Sheets      ports.SheetSource
	Loader      *dataset.Loader
	Catalog     *catalog.Catalog

	Dashboards *dashboard.Service
	Navigation *navigation.Service
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{Config: cfg}, nil
}

// Open builds a fully initialized container. When the preference database
// cannot be reached the container falls back to in-memory preferences.
func Open(ctx context.Context, cfg *config.Config) (*Container, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlstore.Open(ctx, cfg.Database.Driver(), cfg.Database.URL)
	if err == nil {
		err = migration.NewRunner().Run(ctx, db)
		if err != nil {
			db.Close()
		}
	}
	if err != nil {
		logger.Warn("preference database unavailable, keeping preferences in memory: %v", err)
		c.InitInMemory()
	} else if err := c.InitWithDatabase(db); err != nil {
		return nil, err
	}

	if err := c.InitDashboards(); err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	return c, nil
}

// InitWithDatabase stores preferences in db, which must already be migrated
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	c.DB = db
	c.Preferences = sqlstore.NewPreferenceRepository(db)
	c.Navigation = navigation.NewService(c.Preferences)
	logger.Info("preferences stored in %s", c.Config.Database.Driver())
	return nil
}

// InitInMemory keeps preferences for the life of the process only
func (c *Container) InitInMemory() {
	c.Preferences = sqlstore.NewMemoryRepository()
	c.Navigation = navigation.NewService(c.Preferences)
}

// InitDashboards loads the catalog and builds the sheet source and services
func (c *Container) InitDashboards() error {
	cat, err := catalog.Load(c.Config.Catalog.File)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	c.Catalog = cat

	if dir := c.Config.Sheets.LocalDir; dir != "" {
		logger.Info("reading sheets from %s", dir)
		c.Sheets = excel.NewFileSource(dir)
	} else {
		c.Sheets = gsheets.NewClient(c.Config.Sheets.BaseURL, c.Config.Sheets.Timeout)
	}

	c.Loader = dataset.NewLoader(c.Sheets, c.Config.Sheets.CacheTTL)
	c.Dashboards = dashboard.NewService(cat, c.Loader)
	if c.Navigation == nil {
		c.InitInMemory()
	}
	return nil
}

// Shutdown releases the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
