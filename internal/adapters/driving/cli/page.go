package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage scraped pages",
	Long:  `Add, list, or delete scraped page records.`,
}

var pageAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a scraped page and index it",
	Long: `Stores a scraped page record and chunks it for retrieval.
Re-adding a URL replaces the page's content and chunks while keeping its ID.`,
	RunE: runPageAdd,
}

var pageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered pages",
	Args:  cobra.NoArgs,
	RunE:  runPageList,
}

var pageDeleteCmd = &cobra.Command{
	Use:   "delete [page-id]",
	Short: "Delete a page and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageDelete,
}

// Flags for page add.
var (
	pageURL      string
	pageTitle    string
	pageHeadings []string
	pageBody     string
	pageBodyFile string
	pageMeta     []string
	pageStatus   string
)

func init() {
	pageAddCmd.Flags().StringVar(&pageURL, "url", "", "page URL (required)")
	pageAddCmd.Flags().StringVar(&pageTitle, "title", "", "page title")
	pageAddCmd.Flags().StringArrayVar(&pageHeadings, "heading", nil, "page heading (repeatable)")
	pageAddCmd.Flags().StringVar(&pageBody, "body", "", "page body text")
	pageAddCmd.Flags().StringVar(&pageBodyFile, "body-file", "", "read page body from file")
	pageAddCmd.Flags().StringArrayVar(&pageMeta, "meta", nil, "page metadata as key=value (repeatable)")
	pageAddCmd.Flags().StringVar(&pageStatus, "status", "success", "scrape status (pending, success, failed)")
	_ = pageAddCmd.MarkFlagRequired("url")

	pageCmd.AddCommand(pageAddCmd)
	pageCmd.AddCommand(pageListCmd)
	pageCmd.AddCommand(pageDeleteCmd)
	rootCmd.AddCommand(pageCmd)
}

func runPageAdd(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	body := pageBody
	if pageBodyFile != "" {
		data, err := os.ReadFile(pageBodyFile)
		if err != nil {
			return fmt.Errorf("reading body file: %w", err)
		}
		body = string(data)
	}

	metadata, err := parseMetadata(pageMeta)
	if err != nil {
		return err
	}

	page := &domain.Page{
		URL:      pageURL,
		Title:    pageTitle,
		Headings: pageHeadings,
		Body:     body,
		Metadata: metadata,
		Status:   domain.PageStatus(pageStatus),
	}

	id, count, err := ingestService.IngestPage(context.Background(), page)
	if err != nil {
		return fmt.Errorf("failed to add page: %w", err)
	}

	cmd.Printf("Page %s stored (%d chunks)\n", id, count)
	return nil
}

func runPageList(cmd *cobra.Command, _ []string) error {
	if pageStore == nil {
		return errors.New("page store not configured")
	}

	pages, err := pageStore.ListPages(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	if len(pages) == 0 {
		cmd.Println("No pages registered.")
		return nil
	}

	cmd.Println("Pages:")
	cmd.Println()
	for i := range pages {
		cmd.Printf("  %s\n", pages[i].ID)
		cmd.Printf("    URL:     %s\n", pages[i].URL)
		if pages[i].Title != "" {
			cmd.Printf("    Title:   %s\n", pages[i].Title)
		}
		cmd.Printf("    Status:  %s\n", pages[i].Status)
		cmd.Printf("    Updated: %s\n", pages[i].UpdatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d pages\n", len(pages))
	return nil
}

func runPageDelete(cmd *cobra.Command, args []string) error {
	if pageStore == nil {
		return errors.New("page store not configured")
	}

	pageID := args[0]
	if err := pageStore.DeletePage(context.Background(), pageID); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}

	cmd.Printf("Page %s deleted\n", pageID)
	return nil
}

// parseMetadata converts key=value pairs into a metadata map.
func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	metadata := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q, expected key=value", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}
