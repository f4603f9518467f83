// Package cli implements the claimsight command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimsight/claimsight-cli/internal/adapters/driven/config/file"
	"github.com/claimsight/claimsight-cli/internal/adapters/driven/enrichment/ollama"
	"github.com/claimsight/claimsight-cli/internal/adapters/driven/enrichment/perplexity"
	"github.com/claimsight/claimsight-cli/internal/adapters/driven/storage/memory"
	"github.com/claimsight/claimsight-cli/internal/adapters/driven/storage/sqlite"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driving"
	"github.com/claimsight/claimsight-cli/internal/core/services"
	"github.com/claimsight/claimsight-cli/internal/extractor"
	"github.com/claimsight/claimsight-cli/internal/logger"
	"github.com/claimsight/claimsight-cli/internal/policy"
	"github.com/claimsight/claimsight-cli/internal/ranker"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Populated by initServices, or directly
// by tests.
var (
	documentService driving.DocumentService
	analysisService driving.AnalysisService
	configStore     driven.ConfigStore
	enricher        driven.EnrichmentService
	sqliteStore     *sqlite.Store
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "claimsight",
	Short: "Analyse insurance claims against policy documents",
	Long: `Claimsight ingests insurance policy documents, interprets claim
queries in plain language and decides coverage against the policy's own
clauses, citing the sections it consulted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ExitError prints err and exits non-zero. Split out so main stays trivial.
func ExitError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

// initServices wires adapters and services from configuration. A no-op
// when services are already set (tests inject their own).
func initServices() error {
	if documentService != nil && analysisService != nil {
		return nil
	}

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	configStore = cfg

	docStore, claimStore, analysisStore, err := buildStores(cfg)
	if err != nil {
		return err
	}

	enricher = buildEnricher(cfg)

	engineOpts := []policy.Option{}
	if enricher != nil {
		engineOpts = append(engineOpts, policy.WithEnricher(enricher))
		logger.Debug("Enrichment enabled via %s", cfg.GetString(driven.ConfigEnrichmentProvider))
	}

	documentService = services.NewDocumentService(docStore, extractor.New())

	analysis := services.NewAnalysisService(
		docStore,
		claimStore,
		analysisStore,
		ranker.New(),
		policy.New(engineOpts...),
	)
	if n := cfg.GetInt(driven.ConfigBatchConcurrency); n > 0 {
		analysis.SetBatchConcurrency(n)
	}
	analysisService = analysis

	return nil
}

// buildStores selects the storage backend from configuration.
// Defaults to sqlite so analyses survive between runs.
func buildStores(cfg driven.ConfigStore) (driven.DocumentStore, driven.ClaimStore, driven.AnalysisStore, error) {
	backend := cfg.GetString(driven.ConfigStorageBackend)
	switch backend {
	case "memory":
		return memory.NewDocumentStore(), memory.NewClaimStore(), memory.NewAnalysisStore(), nil
	case "", "sqlite":
		store, err := sqlite.NewStore("")
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		sqliteStore = store
		return store.DocumentStore(), store.ClaimStore(), store.AnalysisStore(), nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// buildEnricher selects the enrichment provider from configuration.
// Returns nil when enrichment is disabled.
func buildEnricher(cfg driven.ConfigStore) driven.EnrichmentService {
	switch cfg.GetString(driven.ConfigEnrichmentProvider) {
	case "perplexity":
		return perplexity.New(perplexity.Config{
			APIKey:  cfg.GetString(driven.ConfigEnrichmentAPIKey),
			BaseURL: cfg.GetString(driven.ConfigEnrichmentBaseURL),
			Model:   cfg.GetString(driven.ConfigEnrichmentModel),
		})
	case "ollama":
		return ollama.New(ollama.Config{
			BaseURL: cfg.GetString(driven.ConfigEnrichmentBaseURL),
			Model:   cfg.GetString(driven.ConfigEnrichmentModel),
		})
	default:
		return nil
	}
}

// closeServices releases adapter resources.
func closeServices() {
	if enricher != nil {
		if err := enricher.Close(); err != nil {
			logger.Warn("Failed to close enrichment service: %v", err)
		}
	}
	if sqliteStore != nil {
		if err := sqliteStore.Close(); err != nil {
			logger.Warn("Failed to close store: %v", err)
		}
	}
}
