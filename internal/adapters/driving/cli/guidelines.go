package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/kestrel-cli/internal/adapters/driving/watch"
)

var (
	guidelineProject string
	watchProject     string
)

var guidelinesCmd = &cobra.Command{
	Use:   "guidelines",
	Short: "Manage project guideline documents",
	Long:  `Commands for ingesting and watching per-project guideline documents.`,
}

var guidelinesIngestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a guideline document",
	Long: `Chunks, embeds and stores one guideline document in the project's
knowledge base. Re-ingesting the same file replaces its previous chunks.

Example:
  kestrel guidelines ingest docs/style.md --project acme/widgets`,
	Args: cobra.ExactArgs(1),
	RunE: runGuidelinesIngest,
}

var guidelinesWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest guideline files as they change",
	Long: `Ingests every guideline file in the directory, then keeps watching
and re-ingests files as they are created or modified. Runs until
interrupted.

Example:
  kestrel guidelines watch docs/guidelines --project acme/widgets`,
	Args: cobra.ExactArgs(1),
	RunE: runGuidelinesWatch,
}

func init() {
	guidelinesIngestCmd.Flags().StringVarP(&guidelineProject, "project", "p", "", "owner/repo project the guideline belongs to (required)")
	guidelinesIngestCmd.MarkFlagRequired("project") //nolint:errcheck
	guidelinesWatchCmd.Flags().StringVarP(&watchProject, "project", "p", "", "owner/repo project the guidelines belong to (required)")
	guidelinesWatchCmd.MarkFlagRequired("project") //nolint:errcheck

	guidelinesCmd.AddCommand(guidelinesIngestCmd)
	guidelinesCmd.AddCommand(guidelinesWatchCmd)
	rootCmd.AddCommand(guidelinesCmd)
}

func runGuidelinesIngest(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	filename := filepath.Base(path)
	n, err := ingestionService.IngestGuideline(cmd.Context(), string(data), filename, guidelineProject)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s: %d chunks stored for %s\n", filename, n, guidelineProject)
	return nil
}

func runGuidelinesWatch(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	w := watch.New(ingestionService, args[0], watchProject, 0)
	cmd.Printf("Watching %s for %s (Ctrl-C to stop)\n", args[0], watchProject)

	err := w.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
