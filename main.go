package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tutortoise/example-decoder/decoder"
	"github.com/Tutortoise/example-decoder/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var cfgFile = flag.String("c", "", "config file (TOML); defaults are used when empty")

const shutdownTimeout = 10 * time.Second

func main() {
	flag.Parse()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := LoadConfig(*cfgFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(os.Stdout, cfg.LogConfig)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	slog.SetDefault(logger)

	state, err := newAppState(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up decoder: %v", err)
	}
	defer state.Pool.Close()

	srv := &http.Server{
		Handler:      newRouter(state),
		Addr:         cfg.HTTP.Addr,
		WriteTimeout: durationOr(cfg.HTTP.WriteTimeout, defaultTimeout),
		ReadTimeout:  durationOr(cfg.HTTP.ReadTimeout, defaultTimeout),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("[main] starting server", "addr", srv.Addr, "config-file", *cfgFile)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("[main] server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func newAppState(cfg Config, logger *slog.Logger) (*AppState, error) {
	d, err := decoder.New(cfg.Decoder.decoderConfig())
	if err != nil {
		return nil, err
	}
	maxBytes, err := cfg.HTTP.maxRecordBytes()
	if err != nil {
		return nil, err
	}

	state := &AppState{
		Pool:           NewDecoderPool(d, cfg.Pool.Size, durationOr(cfg.Pool.AcquireTimeout, defaultAcquireTimeout)),
		Schema:         models.NewSchemaFields(d.Schema().Fields()),
		Logger:         logger,
		MaxRecordBytes: maxBytes,
	}
	if cfg.Limiter.RatePerSecond > 0 {
		burst := cfg.Limiter.Burst
		if burst <= 0 {
			burst = 1
		}
		state.Limiter = rate.NewLimiter(rate.Limit(cfg.Limiter.RatePerSecond), burst)
	}

	logger.Info("[main] decoder ready",
		"include_mask", cfg.Decoder.IncludeMask,
		"regenerate_source_id", cfg.Decoder.RegenerateSourceID,
		"activate_pseudo_score", cfg.Decoder.ActivatePseudoScore,
		"pool_size", state.Pool.size,
	)
	return state, nil
}
