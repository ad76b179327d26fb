package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/datagent/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/datagent/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/datagent/internal/adapters/storage/memory"
	"github.com/PabloGalante/datagent/internal/config"
	"github.com/PabloGalante/datagent/internal/domain"
	"github.com/PabloGalante/datagent/internal/observability"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "datagent",
		Short:        "Data Intelligence Agent: chat with your enterprise data",
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCommand(),
		newChatCommand(),
		newAskCommand(),
	)
	return root
}

// loadConfig reads the configuration and sets up logging for a command
// that owns stdout (quiet) or not.
func loadConfig(quiet bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if quiet {
		observability.Discard()
	} else {
		observability.Configure(os.Stdout, cfg.LogLevel)
	}
	return cfg, nil
}

func buildResponder(ctx context.Context, cfg *config.Config) domain.Responder {
	log := observability.Logger()

	switch cfg.LLMBackend {
	case "mock":
		log.Info("using mock LLM responder")
		return llm.WithLogging("mock", llm.NewMockLLM())
	default:
		log.Info("using Gemini responder", "backend", cfg.LLMBackend, "model", cfg.ModelName)
		r := llm.NewGeminiResponder(ctx, llm.GeminiConfig{
			APIKey:   cfg.APIKey,
			Model:    cfg.ModelName,
			Backend:  cfg.LLMBackend,
			Project:  cfg.GCPProjectID,
			Location: cfg.GCPLocation,
		})
		return llm.WithLogging("gemini", r)
	}
}

// buildStore returns the transcript store and a cleanup func.
func buildStore(ctx context.Context, cfg *config.Config) (domain.TranscriptStore, func(), error) {
	log := observability.Logger()

	switch cfg.StorageBackend {
	case "firestore":
		log.Info("using Firestore storage", "project", cfg.GCPProjectID)
		fs, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing Firestore store: %w", err)
		}
		return fs, func() { _ = fs.Close() }, nil
	default:
		log.Info("using in-memory storage")
		return memstore.NewTranscriptStore(), func() {}, nil
	}
}
