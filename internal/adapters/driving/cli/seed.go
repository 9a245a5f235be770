package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var seedRulesPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the rules collection",
	Long: `Embeds and stores the curated review rules in the knowledge base.
Safe to run repeatedly: rules are upserted by id, never duplicated.

Pass --rules to load from a TOML rules file instead of the built-in set.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedRulesPath, "rules", "", "path to a TOML rules file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	svc := ingestionService
	if seedRulesPath != "" && ingestionForRules != nil {
		svc = ingestionForRules(seedRulesPath)
	}
	if svc == nil {
		return errors.New("ingestion service not configured")
	}

	n, err := svc.SeedRules(cmd.Context())
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	cmd.Printf("Seeded %d rules\n", n)
	return nil
}
