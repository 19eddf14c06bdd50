package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestURL string

var ingestCmd = &cobra.Command{
	Use:   "ingest [page-id]",
	Short: "Rechunk a stored page",
	Long: `Rechunks a stored page and replaces its retrieval chunks.
The page is named by ID, or by URL via --url.
The replacement is atomic: on failure the previous chunks remain.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestURL, "url", "", "select the page by URL instead of ID")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var pageID string
	switch {
	case len(args) == 1:
		pageID = args[0]
	case ingestURL != "":
		if pageStore == nil {
			return errors.New("page store not configured")
		}
		page, err := pageStore.GetPageByURL(context.Background(), ingestURL)
		if err != nil {
			return fmt.Errorf("failed to resolve url: %w", err)
		}
		pageID = page.ID
	default:
		return errors.New("a page ID or --url is required")
	}
	count, err := ingestService.ChunkAndStore(context.Background(), pageID)
	if err != nil {
		return fmt.Errorf("failed to ingest page: %w", err)
	}

	cmd.Printf("Page %s indexed (%d chunks)\n", pageID, count)
	return nil
}
