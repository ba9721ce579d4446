// Package server wires the postboard backend together: storage, token
// services, the authentication gate, and the HTTP and gRPC front ends. It
// also owns graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/redisx"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/config"
	"github.com/dmitrijs2005/postboard/internal/server/httpapi"
	"github.com/dmitrijs2005/postboard/internal/server/metrics"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/postboard/internal/server/services"
	goredis "github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/postboard/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	redis      *goredis.Client
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	denylist, err := app.newDenylist(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	m := metrics.New()
	hasher := auth.NewBcryptHasher(c.BcryptCost)

	us, err := services.NewUserService(db, rm, hasher, tokens, denylist, c.StoreTimeout, logger, m)
	if err != nil {
		app.Close()
		return nil, err
	}
	ps := services.NewPostService(db, rm, logger)
	cs := services.NewCommentService(db, rm, logger)
	gate := auth.NewGate(tokens, denylist, rm.Users(db), c.StoreTimeout, logger, m)

	h := httpapi.NewHandler(us, ps, cs, gate, logger, m)
	app.httpServer = httpapi.NewServer(c.EndpointAddrHTTP, h.Router(), logger)

	if c.EndpointAddrGRPC != "" {
		app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, gate)
	}

	return app, nil
}

// newDenylist picks the revocation backend: Redis when an address is
// configured, otherwise process memory.
func (app *App) newDenylist(ctx context.Context) (auth.Denylist, error) {
	if app.config.RedisAddr == "" {
		app.logger.Info(ctx, "Using in-memory token denylist")
		return auth.NewMemoryDenylist(), nil
	}

	client, err := redisx.New(ctx, app.config.RedisAddr, app.config.RedisPassword)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.redis = client
	app.logger.Info(ctx, "Using redis token denylist", "address", app.config.RedisAddr)
	return auth.NewRedisDenylist(client), nil
}

// Run serves HTTP and gRPC until ctx is cancelled, SIGINT or SIGTERM arrives,
// or either server fails. Resources are released before it returns.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "Server stopped with error", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	start("http", app.httpServer.Run)
	if app.grpcServer != nil {
		start("grpc", app.grpcServer.Run)
	}

	wg.Wait()

	if err := app.Close(); err != nil {
		errs = append(errs, err)
	}

	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(errs...)
}

// Close releases the database pool and the Redis client.
func (app *App) Close() error {
	var errs []error
	if app.db != nil {
		errs = append(errs, app.db.Close())
		app.db = nil
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
		app.redis = nil
	}
	return errors.Join(errs...)
}
