package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/services"
)

var (
	contextLanguage      string
	contextProject       string
	contextMaxRules      int
	contextMaxGuidelines int
)

var contextCmd = &cobra.Command{
	Use:   "context [file]",
	Short: "Show the review context for a code file",
	Long: `Retrieves the rules and project guidelines most relevant to the given
code file and prints them as they would appear in a review prompt.

The language is detected from the file extension unless --language is
given.

Example:
  kestrel context src/auth.py --project acme/widgets`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func init() {
	contextCmd.Flags().StringVarP(&contextLanguage, "language", "l", "", "override language detection")
	contextCmd.Flags().StringVarP(&contextProject, "project", "p", "", "owner/repo project whose guidelines to include")
	contextCmd.Flags().IntVar(&contextMaxRules, "max-rules", 0, "maximum rules to retrieve (default 5)")
	contextCmd.Flags().IntVar(&contextMaxGuidelines, "max-guidelines", 0, "maximum guidelines to retrieve (default 3)")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	language := contextLanguage
	if language == "" {
		language = services.LanguageForFile(path)
	}

	rc, err := retrievalService.GetRelevantContext(cmd.Context(), domain.RetrievalOptions{
		CodeSnippet:   string(data),
		Language:      language,
		Project:       contextProject,
		MaxRules:      contextMaxRules,
		MaxGuidelines: contextMaxGuidelines,
	})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	formatted := services.FormatContextForPrompt(rc)
	if formatted == "" {
		cmd.Println("No relevant context found.")
		return nil
	}

	cmd.Print(formatted)
	return nil
}
