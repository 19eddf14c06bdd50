// Package cli provides the cobra command tree for the sitechat CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/sitechat-cli/internal/adapters/driven/config/file"
	"github.com/quarry-labs/sitechat-cli/internal/adapters/driven/generator/openai"
	"github.com/quarry-labs/sitechat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driven"
	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driving"
	"github.com/quarry-labs/sitechat-cli/internal/core/services"
	"github.com/quarry-labs/sitechat-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	dataDir   string
	configDir string
)

// Services wired by Execute. Tests swap these for fakes.
var (
	pageStore        driven.PageStore
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	chatService      driving.ChatService
)

var rootCmd = &cobra.Command{
	Use:   "sitechat",
	Short: "Chat with the content of your website",
	Long: `sitechat indexes scraped website pages into retrieval chunks and
answers questions about them, grounded in the indexed content.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// Tests install their own services before executing commands.
		if ingestService != nil {
			return nil
		}
		return wireServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.sitechat/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.sitechat)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// wireServices builds the production service graph: SQLite storage,
// TOML config, and the OpenAI generator when an API key is present.
func wireServices() error {
	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	pageStore = store.PageStore()
	chunkStore := store.ChunkStore()

	chunker := services.NewChunker(chunkerOptions(cfg)...)
	ingestService = services.NewIngestService(pageStore, chunkStore, chunker)
	retrievalService = services.NewRetrievalService(chunkStore, retrievalWeights(cfg))

	assembler := services.NewContextAssembler(cfg.GetInt("chat.context_budget"))
	generator, err := buildGenerator(cfg)
	if err != nil {
		return err
	}
	chatService = services.NewChatService(retrievalService, assembler, generator)

	return nil
}

// retrievalWeights overlays configured weights on the defaults.
func retrievalWeights(cfg driven.ConfigStore) domain.RetrievalWeights {
	weights := domain.DefaultRetrievalWeights()
	if v := cfg.GetFloat("retrieval.title_weight"); v > 0 {
		weights.TitleWeight = v
	}
	if v := cfg.GetFloat("retrieval.heading_weight"); v > 0 {
		weights.HeadingWeight = v
	}
	if v := cfg.GetFloat("retrieval.content_weight"); v > 0 {
		weights.ContentWeight = v
	}
	if v := cfg.GetFloat("retrieval.priority_boost"); v > 0 {
		weights.PriorityBoost = v
	}
	return weights
}

// chunkerOptions maps configured chunker settings to options.
func chunkerOptions(cfg driven.ConfigStore) []services.ChunkerOption {
	var opts []services.ChunkerOption
	if v := cfg.GetInt("chunker.chunk_size"); v > 0 {
		opts = append(opts, services.WithChunkSize(v))
	}
	if v := cfg.GetInt("chunker.chunk_overlap"); v > 0 {
		opts = append(opts, services.WithChunkOverlap(v))
	}
	if v := cfg.GetInt("chunker.min_chunk_length"); v > 0 {
		opts = append(opts, services.WithMinChunkLength(v))
	}
	if v := cfg.GetInt("chunker.max_chunk_length"); v > 0 {
		opts = append(opts, services.WithMaxChunkLength(v))
	}
	return opts
}

// buildGenerator returns nil when no API key is configured. The chat
// service still answers the no-grounding case without a generator.
func buildGenerator(cfg driven.ConfigStore) (driven.AnswerGenerator, error) {
	apiKey := cfg.GetString("openai.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		logger.Debug("No OpenAI API key configured, answer generation disabled")
		return nil, nil
	}

	gen, err := openai.NewGenerator(openai.Config{
		APIKey:  apiKey,
		BaseURL: cfg.GetString("openai.base_url"),
		Model:   cfg.GetString("openai.model"),
	})
	if err != nil {
		return nil, fmt.Errorf("configuring answer generator: %w", err)
	}
	return gen, nil
}
