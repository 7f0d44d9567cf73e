// Command boundedcached runs the cache server: it loads configuration
// from flags and environment, starts the engine and listener, and
// shuts down cleanly on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/boundedcache/boundedcache/internal/cache"
	"github.com/boundedcache/boundedcache/internal/config"
	"github.com/boundedcache/boundedcache/internal/logging"
	"github.com/boundedcache/boundedcache/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	var logOpts logging.Options
	flags := pflag.NewFlagSet("boundedcached", pflag.ExitOnError)
	flags.StringVar(&cfg.Address, "address", cfg.Address, "address to listen on (host:port)")
	flags.Uint64Var(&cfg.Capacity, "capacity", cfg.Capacity, "maximum resident bytes before eviction")
	flags.DurationVar(&cfg.StatsInterval, "stats-interval", cfg.StatsInterval, "how often to log a stats snapshot (0 disables)")
	logOpts.BindFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	log := logging.New(logOpts)

	engine := cache.New(cache.WithCapacity(cfg.Capacity))
	srv, err := server.New(cfg.Address, engine,
		server.WithLogger(log),
		server.WithStatsInterval(cfg.StatsInterval),
	)
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("listening", "address", srv.Addr().String(), "capacity", cfg.Capacity, "statsInterval", cfg.StatsInterval.String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		_ = srv.Close()
		return <-errCh
	case err := <-errCh:
		return err
	}
}
