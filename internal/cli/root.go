// Package cli provides the command-line interface for postmind.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/smahlberg/postmind/internal/config"
	"github.com/smahlberg/postmind/internal/db"
	"github.com/smahlberg/postmind/internal/generator"
	"github.com/smahlberg/postmind/internal/llm"
	"github.com/smahlberg/postmind/internal/memory"
	"github.com/smahlberg/postmind/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, logger and db client
	cfg       config.Config
	logger    *slog.Logger
	logCloser func() error
	dbClient  *db.Client

	// Lazy-initialized LLM components
	embedder *llm.Embedder
	model    *llm.Model

	collector = metrics.NewCollector()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "postmind",
	Short: "Memory-aware LinkedIn post generator",
	Long: `Postmind generates LinkedIn posts with a per-user semantic memory:
every generated post is embedded and stored, and later requests retrieve
similar past posts to match the author's style, avoid repeating covered
ground, or continue an ordered post series.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, logCloser = config.SetupLogger(cfg.LogFile, level)

		ctx := context.Background()
		var err error
		dbClient, err = db.NewClient(ctx, db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		if err := dbClient.InitSchema(ctx, cfg.EmbedDimension); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
		if logCloser != nil {
			_ = logCloser()
		}
	},
}

// getService builds the generation service with lazy LLM initialization.
func getService() (*generator.Service, error) {
	if embedder == nil {
		var err error
		embedder, err = llm.NewEmbedder(cfg)
		if err != nil {
			return nil, fmt.Errorf("init embedder: %w", err)
		}
		model, err = llm.NewModel(cfg)
		if err != nil {
			return nil, fmt.Errorf("init model: %w", err)
		}
	}

	engine := memory.NewEngine(memory.EngineConfig{
		Store:               dbClient,
		Embedder:            embedder,
		FactExtractor:       generator.NewFactExtractor(model, logger),
		SimilarityThreshold: cfg.SimilarityThreshold,
		RetrievalLimit:      cfg.MaxSimilarPosts,
		Logger:              logger,
		Metrics:             collector,
	})

	return generator.NewService(generator.ServiceConfig{
		Engine:               engine,
		LLM:                  model,
		Validator:            generator.NewValidator(cfg.MinPostLength, cfg.MaxPostLength),
		Logger:               logger,
		Metrics:              collector,
		SimilarTemperature:   cfg.SimilarTemperature,
		DifferentTemperature: cfg.DifferentTemperature,
	}), nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(seriesCmd)
}
