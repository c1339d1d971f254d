package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harsshhit/vendors/internal/config"
	"github.com/harsshhit/vendors/internal/database"
	"github.com/harsshhit/vendors/internal/logger"
	"github.com/harsshhit/vendors/internal/modules/user"
	"github.com/harsshhit/vendors/internal/modules/vendor"
)

// app is the wiring shared by every command.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	gateway *database.Gateway
	vendors vendor.Repository
	users   user.Repository
}

// newApp loads configuration and opens the store. A missing connection string
// is fatal: nothing is served without it.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "vendors-api")
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	gw, err := database.New(database.Config{URI: cfg.StoreURI, Database: cfg.MongoDatabase})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, gateway: gw}
	switch gw.Driver() {
	case database.DriverMongo:
		a.vendors = vendor.NewMongoRepository(gw)
		a.users = user.NewMongoRepository(gw)
	case database.DriverPostgres:
		a.vendors = vendor.NewPostgresRepository(gw)
		a.users = user.NewPostgresRepository(gw)
	default:
		log.Warn("using in-memory store; data is lost on exit")
		a.vendors = vendor.NewMemoryRepository()
		a.users = user.NewMemoryRepository()
	}
	return a, nil
}

// open verifies connectivity and ensures the schema exists.
func (a *app) open(ctx context.Context) error {
	if err := a.gateway.Ping(ctx); err != nil {
		return err
	}
	a.log.Info("connected to store", zap.String("driver", string(a.gateway.Driver())))

	if err := a.vendors.Migrate(ctx); err != nil {
		return err
	}
	return a.users.Migrate(ctx)
}

func (a *app) close(ctx context.Context) {
	if err := a.gateway.Close(ctx); err != nil {
		a.log.Warn("close store", zap.Error(err))
	}
	_ = a.log.Sync()
}
