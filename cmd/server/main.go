package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/oggyb/crush-reveal/internal/app"
	"github.com/oggyb/crush-reveal/internal/cache"
	"github.com/oggyb/crush-reveal/internal/config"
	"github.com/oggyb/crush-reveal/internal/db"
	"github.com/oggyb/crush-reveal/internal/logger"
	"github.com/oggyb/crush-reveal/internal/metrics"
	"github.com/oggyb/crush-reveal/internal/server"
	"github.com/oggyb/crush-reveal/internal/service/account"
	"github.com/oggyb/crush-reveal/internal/service/feedback"
	"github.com/oggyb/crush-reveal/internal/service/match"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug(fmt.Sprintf(format, args...))
	})); err != nil {
		log.Warn("failed to set GOMAXPROCS", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	defer sqlDB.Close()

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	appCtx, err := app.New(cfg, database, redisCache, log, metrics.New(registry))
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	if cfg.IsDevelopment() {
		if err := db.SeedTestData(database, cfg.Auth.BcryptCost, log); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	accountReg := account.NewRegistrar(appCtx)
	matchReg := match.NewRegistrar(appCtx)
	feedbackReg := feedback.NewRegistrar(appCtx)

	grpcServer := server.NewGRPCServer(cfg, log, appCtx.Metrics, accountReg, matchReg, feedbackReg)
	httpServer := server.NewHTTPServer(cfg, log, appCtx.Metrics,
		[]server.RouteRegistrar{accountReg, matchReg, feedbackReg},
		server.WithMetricsHandler(registry),
		server.WithHealthCheck("db", sqlDB.PingContext),
		server.WithHealthCheck("redis", redisCache.Ping),
	)

	s := appCtx.Matcher.Window()
	log.Info("reveal schedule loaded",
		"open", s.IsOpen,
		"opens_at", s.OpensAt,
		"closes_at", s.ClosesAt,
		"next_reveal_at", s.NextRevealAt,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.ListenAndServe(gctx) })
	g.Go(func() error { return httpServer.ListenAndServe(gctx) })

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
