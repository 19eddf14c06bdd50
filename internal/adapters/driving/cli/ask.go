package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driving"
	"github.com/quarry-labs/sitechat-cli/internal/logger"
)

var (
	askLimit  int
	askBudget int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed pages",
	Long: `Answers a question grounded in the indexed page content.
When nothing relevant is indexed, says so instead of guessing.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 0, "maximum context chunks (default 5)")
	askCmd.Flags().IntVar(&askBudget, "budget", 0, "context character budget (default 2000)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if chatService == nil {
		return errors.New("chat service not configured")
	}

	answer, err := chatService.Ask(context.Background(), question, driving.AskOptions{
		Limit:         askLimit,
		ContextBudget: askBudget,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	logger.Debug("Answered in %s", answer.Elapsed)

	cmd.Println(answer.Text)
	if len(answer.SourceURLs) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, url := range answer.SourceURLs {
			cmd.Printf("  %s\n", url)
		}
	}
	return nil
}
