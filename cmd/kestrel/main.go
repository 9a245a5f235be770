// Command kestrel is a retrieval-augmented pull request reviewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestrel-labs/kestrel-cli/internal/adapters/driven/ai"
	configfile "github.com/kestrel-labs/kestrel-cli/internal/adapters/driven/config/file"
	rulesfile "github.com/kestrel-labs/kestrel-cli/internal/adapters/driven/rules/file"
	"github.com/kestrel-labs/kestrel-cli/internal/adapters/driven/storage/sqlite"
	"github.com/kestrel-labs/kestrel-cli/internal/adapters/driving/cli"
	ghconn "github.com/kestrel-labs/kestrel-cli/internal/connectors/github"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driving"
	"github.com/kestrel-labs/kestrel-cli/internal/core/services"
	"github.com/kestrel-labs/kestrel-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	index, err := sqlite.NewIndex(config.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	defer index.Close() //nolint:errcheck

	embeddingSettings := config.EmbeddingSettings()
	embedder, err := ai.CreateEmbeddingService(&embeddingSettings)
	if err != nil {
		return fmt.Errorf("creating embedding service: %w", err)
	}

	llmSettings := config.LLMSettings()
	llm, err := ai.CreateLLMService(&llmSettings)
	if err != nil {
		return fmt.Errorf("creating LLM service: %w", err)
	}
	if llm == nil {
		logger.Debug("No LLM configured, reviews run static checks only")
	}

	ruleSource := rulesfile.NewSource(config.GetString("rules.path"))

	ghClient, err := ghconn.NewClient(ctx, config.GitHubSettings())
	if err != nil {
		return fmt.Errorf("creating GitHub client: %w", err)
	}
	fetcher := ghconn.NewConnector(ghClient)

	wired := cli.Services{}
	var retrieval driving.RetrievalService
	if embedder != nil {
		retrieval = services.NewRetrieverService(index, embedder)
		wired.Ingestion = services.NewIngestionService(index, embedder, ruleSource, 0)
		wired.Retrieval = retrieval
		wired.IngestionForRules = func(rulesPath string) driving.IngestionService {
			return services.NewIngestionService(index, embedder, rulesfile.NewSource(rulesPath), 0)
		}
	} else {
		logger.Debug("No embedding provider configured, knowledge base commands are unavailable")
	}
	wired.Review = services.NewReviewer(fetcher, retrieval, llm)

	cli.SetVersion(version)
	cli.SetServices(wired)

	return cli.ExecuteContext(ctx)
}
