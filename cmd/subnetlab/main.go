// Copyright (c) 2025 Berik Ashimov

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"subnetlab/internal/config"
	"subnetlab/internal/problem"
	"subnetlab/internal/scenario"
	"subnetlab/internal/store"
)

const pruneInterval = time.Hour

func main() {
	if err := run(); err != nil {
		log.Fatal("subnetlab stopped", "error", err)
	}
}

func run() error {
	dotenv, err := config.LoadDotenv()
	if err != nil {
		return err
	}
	cfg, err := config.ParseEnv()
	if err != nil {
		return err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           cfg.Level(),
		Prefix:          "subnetlab",
	})
	if !dotenv {
		logger.Warn("No .env file found. Falling back to system environment variables.")
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	catalog := scenario.NewCatalog()
	if err := catalog.Load(cfg.ScenarioFile); err != nil {
		return err
	}
	for _, s := range catalog.Scenarios() {
		for _, f := range scenario.Audit(s) {
			logger.Warn("scenario issue disagrees with arithmetic", "scenario", s.Title, "device", f.Device, "computed", f.Computed)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = problem.NewSeed(); err != nil {
			return err
		}
	}
	logger.Info("starting", "addr", cfg.ListenAddr, "db", cfg.DBPath, "scenarios", catalog.Source(), "seed", seed)

	srv := newServer(st, catalog, problem.NewLockedSource(problem.NewSource(seed)), logger, cfg.SessionTTL)
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	if cfg.ScenarioFile != "" {
		g.Go(func() error {
			return scenario.Watch(gctx, cfg.ScenarioFile, catalog, logger)
		})
	}
	g.Go(func() error {
		return pruneSessions(gctx, st, cfg.SessionTTL, logger)
	})
	return g.Wait()
}

// pruneSessions drops idle sessions every pruneInterval until ctx is done.
func pruneSessions(ctx context.Context, st *store.Store, ttl time.Duration, logger *log.Logger) error {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := st.Prune(ctx, ttl)
			if err != nil {
				logger.Warn("session prune failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug("pruned idle sessions", "count", n)
			}
		}
	}
}
