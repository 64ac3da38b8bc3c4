package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/lojhan/custom-collections/internal/command"
	"github.com/lojhan/custom-collections/internal/logging"
	"github.com/lojhan/custom-collections/internal/server"
	"github.com/lojhan/custom-collections/internal/store"
)

func main() {
	port := flag.String("port", server.DefaultPort, "Port to listen on")
	multicore := flag.Bool("multicore", true, "Run one event loop per CPU")
	initialCapacity := flag.Int("initial-capacity", store.DefaultInitialCapacity, "Initial bucket count of the keyspace table")
	loadFactor := flag.Float64("load-factor", store.DefaultLoadFactor, "Keyspace load factor that triggers a resize")
	debug := flag.Bool("debug", false, "Enable debug logging")
	logFile := flag.String("logfile", "", "Also write JSON logs to this file")
	logMaxSize := flag.Int("log-max-size", 100, "Megabytes before the log file is rotated")
	logMaxBackups := flag.Int("log-max-backups", 3, "Rotated log files to keep")
	logMaxAge := flag.Int("log-max-age", 28, "Days to keep rotated log files")
	flag.Parse()

	logger := logging.New(logging.Config{
		Debug:      *debug,
		File:       *logFile,
		MaxSizeMB:  *logMaxSize,
		MaxBackups: *logMaxBackups,
		MaxAgeDays: *logMaxAge,
	})
	defer logger.Sync()

	dataStore := store.NewStore(
		store.WithInitialCapacity[string](*initialCapacity),
		store.WithLoadFactor[string](*loadFactor),
	)

	srv := server.NewServer(
		server.WithLogger(logger.Named("server")),
		server.WithMulticore(*multicore),
	)
	command.Register(srv, dataStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting collections server", zap.String("port", *port))
		return srv.Start(*port)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, server.ErrNotRunning) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}

	stats := dataStore.Stats()
	logger.Info("server exited",
		zap.Int("keys", stats.Keys),
		zap.Int64("hits", stats.Hits),
		zap.Int64("misses", stats.Misses),
	)
}
