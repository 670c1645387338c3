package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/config"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/database"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/fanout"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/graph"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/relationship"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/service"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/similarity"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/vector"
)

// app wires the full store stack for a single command invocation. Commands
// open it in their RunE, use the services, and close it on the way out.
type app struct {
	cfg    *config.Config
	db     *database.DB
	client graph.Client
	store  vector.VectorStore

	users     *service.UserService
	recipes   *service.RecipeService
	reviews   *service.ReviewService
	discovery *service.DiscoveryService
	admin     *service.AdminService
	sync      *fanout.Synchronizer
}

// openApp builds the store stack from configuration. Passive mode skips the
// graph connection entirely; the adapters no-op without it.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := cfg.Logging.NewLogger()
	passive := cfg.Core.ResolvePassive()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := database.OpenWithConfig(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxConnections / 2,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, err
	}

	var client graph.Client
	if !passive {
		client, err = graph.NewNeo4jClient(graph.ClientConfig{
			URI:                     cfg.Graph.URI,
			Username:                cfg.Graph.Username,
			Password:                cfg.Graph.Password,
			Database:                cfg.Graph.Database,
			MaxConnectionPoolSize:   cfg.Graph.PoolSize,
			ConnectionTimeout:       cfg.Core.Timeout,
			MaxTransactionRetryTime: cfg.Core.Timeout,
		})
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := client.Connect(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	store, err := vector.NewVectorStore(cfg.Vector)
	if err != nil {
		closeClient(ctx, client)
		db.Close()
		return nil, err
	}
	embedder, err := vector.NewEmbedder(cfg.Embedder, cfg.Vector.Dimensions)
	if err != nil {
		store.Close()
		closeClient(ctx, client)
		db.Close()
		return nil, err
	}

	userDAO := database.NewUserDAO(db)
	recipeDAO := database.NewRecipeDAO(db)
	reviewDAO := database.NewReviewDAO(db)

	rel := relationship.NewStore(client, passive, logger)
	sim := similarity.NewStore(store, embedder, passive, logger)
	sync := fanout.NewSynchronizer(rel, sim, cfg.Core.Timeout, logger)

	return &app{
		cfg:       cfg,
		db:        db,
		client:    client,
		store:     store,
		users:     service.NewUserService(userDAO, sync, logger),
		recipes:   service.NewRecipeService(recipeDAO, userDAO, sim, sync, logger),
		reviews:   service.NewReviewService(reviewDAO, sync, logger),
		discovery: service.NewDiscoveryService(db, recipeDAO, rel, sim, logger),
		admin:     service.NewAdminService(db, userDAO, recipeDAO, reviewDAO, rel, sim, logger),
		sync:      sync,
	}, nil
}

// close drains in-flight projection work and releases every connection.
func (a *app) close(ctx context.Context) {
	a.sync.Wait()
	a.store.Close()
	closeClient(ctx, a.client)
	a.db.Close()
}

func closeClient(ctx context.Context, client graph.Client) {
	if client != nil {
		client.Close(ctx)
	}
}
