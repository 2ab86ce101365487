package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

var (
	crawlJSON    bool
	crawlTimeout time.Duration
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [url]",
	Short: "Crawl a website and list the indexed pages",
	Long: `Loads the page at url, fetches the same-origin pages it links to and
builds the search index, then prints what was indexed.

Useful for checking which pages the assistant will answer from.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().BoolVar(&crawlJSON, "json", false, "output pages and stats as JSON")
	crawlCmd.Flags().DurationVarP(&crawlTimeout, "timeout", "t", 60*time.Second, "how long to wait for the crawl")
	rootCmd.AddCommand(crawlCmd)
}

type crawlOutput struct {
	State     string            `json:"state"`
	Stats     domain.CrawlStats `json:"stats"`
	Documents []crawlPage       `json:"documents"`
}

type crawlPage struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Length int    `json:"length"`
}

func runCrawl(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNotConfigured
	}

	ctx := cmd.Context()
	id, assistant, err := openSession(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer sessionService.Close(id) //nolint:errcheck // session is discarded either way

	start := time.Now()
	assistant.Activate()
	if err := assistant.WaitReady(ctx, crawlTimeout); err != nil {
		return fmt.Errorf("crawl did not finish: %w", err)
	}

	docs := assistant.Documents()
	out := crawlOutput{
		State:     assistant.State().String(),
		Stats:     assistant.Stats(),
		Documents: make([]crawlPage, len(docs)),
	}
	for i, d := range docs {
		out.Documents[i] = crawlPage{Title: d.Title, URL: d.URL, Length: len(d.Content)}
	}

	if crawlJSON {
		return outputJSON(cmd, out)
	}

	cmd.Printf("Crawled %s in %s\n", args[0], time.Since(start).Round(time.Millisecond))
	cmd.Printf("  Discovered: %d  Fetched: %d  Failed: %d  Dropped: %d\n",
		out.Stats.Discovered, out.Stats.Fetched, out.Stats.Failed, out.Stats.Dropped)
	cmd.Println()

	if len(out.Documents) == 0 {
		cmd.Println("No pages indexed.")
		return nil
	}

	cmd.Printf("Indexed %d pages:\n", len(out.Documents))
	for i, p := range out.Documents {
		cmd.Printf("  [%d] %s (%d chars)\n", i+1, p.Title, p.Length)
		cmd.Printf("      %s\n", p.URL)
	}
	return nil
}
