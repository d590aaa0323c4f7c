// Command notary-agent runs the stamping and verification agent: chat routing,
// agent RPC over websocket and the meta endpoints on one HTTP server
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"notary/internal/adapters/classifier"
	"notary/internal/adapters/ledger"
	"notary/internal/core/version"
	"notary/internal/platform/config"
	"notary/internal/platform/logger"
	phttp "notary/internal/platform/net/http"

	"notary/internal/services/api"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Get().Error().Err(err).Msg("agent stopped")
		os.Exit(1)
	}
	logger.Get().Info().Msg("agent stopped")
}

func run() error {
	lopt := logger.FromEnv("NOTARY_")
	if lopt.Service == "" {
		lopt.Service = version.Service
	}
	lopt.Fields = map[string]string{"version": version.Info().Version}
	logger.Init(lopt)

	// everything lives under NOTARY_*
	cfg := config.New().Prefix("NOTARY_")
	cfg.Require("LEDGER_API_KEY")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	copts, err := classifier.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	cls, err := classifier.New(ctx, copts)
	if err != nil {
		return err
	}

	// one ledger client shared by both workflows
	lc := ledger.NewClient(ledger.OptionsFromConfig(cfg))

	// http server (reads NOTARY_API_PORT)
	srv := phttp.NewServer(cfg)

	app := api.Mount(srv.Router(), api.Options{
		Config:         cfg,
		Ledger:         lc,
		Classifier:     cls,
		EnableSwagger:  cfg.MayBool("API_SWAGGER", true),
		EnableProfiler: cfg.MayBool("API_PROFILER", false),
	})
	defer app.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return app.Run(gctx) })
	g.Go(func() error {
		app.Start(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
