package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/alanyang/insta-mosaic/internal/adapter/instagram"
	"github.com/alanyang/insta-mosaic/internal/adapter/memory"
	"github.com/alanyang/insta-mosaic/internal/adapter/photo"
	pgdb "github.com/alanyang/insta-mosaic/internal/adapter/postgres"
	pgeventbus "github.com/alanyang/insta-mosaic/internal/adapter/postgres/eventbus"
	pgpost "github.com/alanyang/insta-mosaic/internal/adapter/postgres/post"
	redisblocklist "github.com/alanyang/insta-mosaic/internal/adapter/redis/blocklist"
	"github.com/alanyang/insta-mosaic/internal/config"
	"github.com/alanyang/insta-mosaic/internal/port/blocklist"

	"github.com/alanyang/insta-mosaic/internal/service/feeder"
	"github.com/alanyang/insta-mosaic/internal/service/snapshot"
	workersvc "github.com/alanyang/insta-mosaic/internal/service/worker"

	"github.com/alanyang/insta-mosaic/internal/transport"
	mcptransport "github.com/alanyang/insta-mosaic/internal/transport/mcp"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	EventBus  *pgeventbus.EventBus
	Server    *http.Server
	Workers   *workersvc.Manager
	MCPServer *mcptransport.Server
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	// ── Database ─────────────────────────────────────────────────────────────
	pool, err := pgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pgdb.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	// ── Adapters ─────────────────────────────────────────────────────────────
	postRepo := pgpost.New(pool)
	eventBus := pgeventbus.New(pool)

	var (
		blocked     blocklist.Set
		redisClient *redis.Client
	)
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			pool.Close()
			redisClient.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		blocked = redisblocklist.New(redisClient)
	} else {
		slog.Warn("redis.addr not set, blocked users are kept in memory")
		blocked = memory.NewBlockList()
	}

	httpClient := &http.Client{Timeout: cfg.Feed.Timeout}
	feedSource := instagram.NewClient(
		instagram.WithBaseURL(cfg.Feed.BaseURL),
		instagram.WithHTTPClient(httpClient),
	)
	photos := photo.NewFetcher(httpClient)

	// ── Services ─────────────────────────────────────────────────────────────
	pipeline := feeder.New(feedSource, photos, blocked, feeder.Config{
		RequestInterval: cfg.Feed.RequestInterval,
		CoolingInterval: cfg.Feed.CoolingInterval,
		MaxPages:        cfg.Feed.MaxPages,
	})

	mgr := workersvc.NewManager(pipeline, postRepo, blocked, eventBus, workersvc.Config{
		ReferenceSize: cfg.Mosaic.ReferenceSize,
		PieceSize:     cfg.Mosaic.PieceSize,
		BackfillLimit: cfg.Mosaic.BackfillLimit,
	})
	snaps := snapshot.NewService(mgr, memory.NewSnapshotCache(cfg.Snapshot.CacheTTL))

	mcpServer := mcptransport.New(mgr, snaps)

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(ctx, mgr, snaps, mcpServer.Handler(), eventBus)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	slog.Info("application wired", "port", cfg.Port, "feed", cfg.Feed.BaseURL, "redis", cfg.Redis.Addr != "")

	// ── Failed-Worker Reaper ──────────────────────────────────────────────────
	startReaper(ctx, mgr, eventBus, cfg.Mosaic.FailedRetention)

	return &App{
		Pool:      pool,
		Redis:     redisClient,
		EventBus:  eventBus,
		Server:    server,
		Workers:   mgr,
		MCPServer: mcpServer,
	}, nil
}

// Close stops every worker and releases the connections. The HTTP server
// must already be shut down.
func (a *App) Close() {
	a.Workers.Shutdown()
	a.EventBus.Close()
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	a.Pool.Close()
}
