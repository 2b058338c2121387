package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/analyzer"
	"github.com/fieldlens/fieldlens/config"
	"github.com/fieldlens/fieldlens/graph"
	"github.com/fieldlens/fieldlens/loader"
	"github.com/fieldlens/fieldlens/logging"
	"github.com/fieldlens/fieldlens/render"
	"github.com/fieldlens/fieldlens/store/memstore"
	"github.com/fieldlens/fieldlens/store/neostore"
	"github.com/fieldlens/fieldlens/store/pgstore"
)

var (
	flagConfig   string
	flagBackend  string
	flagGraph    string
	flagFormat   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "fieldlens",
	Short: "Analyze the dependency-impact graph of a legacy transformation system",
	Long: `fieldlens answers four questions over a graph of atomic data
transformations: what a change to a field or unit affects, what a field
or unit depends on, how two units are connected, and which fields make
the whole system fragile.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "",
		"Graph backend: memory, neo4j or postgres")
	rootCmd.PersistentFlags().StringVar(&flagGraph, "graph", "",
		"Graph artifact URL for the memory backend")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text",
		"Output format: text, json, csv or markdown")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"Log level: debug, info, warn or error")
}

// runtime bundles everything a subcommand invocation needs. Every
// invocation gets a fresh store and a fresh run ID.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    graph.Store
	analyzer *analyzer.Analyzer
	format   render.Format
	runID    string
	closers  []func(context.Context) error
}

// newRuntime builds the per-invocation runtime and returns the command
// context with the run logger attached, so everything downstream logs
// through logging.FromContext.
func newRuntime(ctx context.Context) (*runtime, context.Context, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, ctx, err
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagGraph != "" {
		cfg.GraphURL = flagGraph
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	format, err := render.ParseFormat(flagFormat)
	if err != nil {
		return nil, ctx, err
	}

	r := &runtime{
		cfg:    cfg,
		format: format,
		runID:  uuid.New().String(),
	}
	r.logger = logging.New(cfg.LogLevel).With("run", r.runID)
	ctx = logging.WithLogger(ctx, r.logger)

	switch cfg.Backend {
	case config.BackendMemory:
		if cfg.GraphURL == "" {
			return nil, ctx, fmt.Errorf("memory backend needs a graph artifact, set --graph or FIELDLENS_GRAPH_URL")
		}
		s := memstore.New()
		if err := loader.Load(ctx, cfg.GraphURL, s); err != nil {
			return nil, ctx, err
		}
		r.store = s
	case config.BackendNeo4j:
		s, err := neostore.New(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
		if err != nil {
			return nil, ctx, err
		}
		r.store = s
		r.closers = append(r.closers, s.Close)
	case config.BackendPostgres:
		s, err := pgstore.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, ctx, err
		}
		r.store = s
		r.closers = append(r.closers, func(context.Context) error { return s.Close() })
	}

	r.analyzer = analyzer.New(r.store)
	r.logger.Debug("runtime ready", "backend", cfg.Backend, "format", format)
	return r, ctx, nil
}

func (r *runtime) close(ctx context.Context) {
	for _, closer := range r.closers {
		if err := closer(ctx); err != nil {
			r.logger.Warn("close failed", "error", err)
		}
	}
}

func (r *runtime) print(cmd *cobra.Command, out string) error {
	_, err := fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
