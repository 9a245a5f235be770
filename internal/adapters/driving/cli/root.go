// Package cli implements the kestrel command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driving"
	"github.com/kestrel-labs/kestrel-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// verbose enables debug logging on stderr.
var verbose bool

// Services the commands depend on. Wired by SetServices before Execute.
var (
	ingestionService driving.IngestionService
	retrievalService driving.RetrievalService
	reviewService    driving.ReviewService

	// ingestionForRules builds an ingestion service reading rules from an
	// alternate file. Used by seed --rules.
	ingestionForRules func(rulesPath string) driving.IngestionService
)

// Services aggregates everything the CLI needs from the application core.
type Services struct {
	Ingestion driving.IngestionService
	Retrieval driving.RetrievalService
	Review    driving.ReviewService

	// IngestionForRules, when set, lets seed --rules load from a custom
	// rules file instead of the configured source.
	IngestionForRules func(rulesPath string) driving.IngestionService
}

// SetServices wires the application services into the commands.
func SetServices(s Services) {
	ingestionService = s.Ingestion
	retrievalService = s.Retrieval
	reviewService = s.Review
	ingestionForRules = s.IngestionForRules
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "kestrel",
	Short: "Retrieval-augmented pull request review",
	Long: `Kestrel reviews GitHub pull requests using a local knowledge base of
curated review rules and per-project guideline documents. Retrieved
context is injected into LLM review prompts so findings reflect your
team's own standards.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
