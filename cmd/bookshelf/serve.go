package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"pollex.nl/bookshelf/graph"
	"pollex.nl/bookshelf/internal/config"
	"pollex.nl/bookshelf/internal/logging"
	"pollex.nl/bookshelf/internal/server"
	"pollex.nl/bookshelf/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the GraphQL server",
		Long:  `Starts the HTTP server exposing the catalogue on /graphql. Flags can also be set through BOOKSHELF_* environment variables.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.New(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			level, _ := logging.ParseLevel(cfg.LogLevel)
			logger := logging.New(os.Stderr, level, cfg.LogFormat)
			slog.SetDefault(logger)

			return runServer(cmd.Context(), cfg, logger)
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runServer(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	handler, closeStore, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("closing store", "error", err)
		}
	}()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	return server.Serve(ctx, ln, handler, cfg.ShutdownTimeout, logger)
}

// buildHandler wires store, schema and transport for cfg. The returned func
// releases the store.
func buildHandler(ctx context.Context, cfg config.Config, logger *slog.Logger) (http.Handler, func() error, error) {
	seed, err := store.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, nil, err
	}

	s, err := store.Open(ctx, store.Options{
		Backend:   cfg.Store,
		SQLiteDSN: cfg.SQLiteDSN,
		Seed:      seed,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("store ready",
		"backend", cfg.Store,
		"authors", len(seed.Authors),
		"books", len(seed.Books),
	)

	schema, err := graph.NewSchema(s, graphql.Logger(graph.PanicLogger{Logger: logger}))
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h := server.NewHandler(schema,
		server.WithLogger(logger),
		server.WithMetrics(server.NewMetrics(reg)),
		server.WithGraphiQL(cfg.GraphiQL),
	)

	return server.NewRouter(h, logger, reg), s.Close, nil
}
