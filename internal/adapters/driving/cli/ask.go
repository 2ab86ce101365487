package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

var (
	askJSON bool
	askWait time.Duration
)

var askCmd = &cobra.Command{
	Use:   "ask [url] [question]",
	Short: "Ask a question about a website",
	Long: `Loads the page at url, crawls the pages it links to and answers the
question with the best matching sentences. A path to a local HTML file
works in place of a url.

Questions such as "talk to a mentor" are answered with a WhatsApp link to
the number found on the page instead.

Examples:
  sercha-assist ask https://example.com "what are the class timings"
  sercha-assist ask https://example.com pricing --json
  sercha-assist ask ./site/index.html "talk to a coach"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the reply as JSON")
	askCmd.Flags().DurationVarP(&askWait, "wait", "w", 60*time.Second, "how long to wait for the crawl")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNotConfigured
	}

	ctx := cmd.Context()
	seed := args[0]
	query := strings.Join(args[1:], " ")

	id, assistant, err := openSession(ctx, seed)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", seed, err)
	}
	defer sessionService.Close(id) //nolint:errcheck // session is discarded either way

	assistant.Activate()
	if err := assistant.WaitReady(ctx, askWait); err != nil && !errors.Is(err, domain.ErrIndexNotReady) {
		return fmt.Errorf("crawl failed: %w", err)
	}

	reply, err := assistant.Ask(ctx, query)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputJSON(cmd, reply)
	}
	printReply(cmd, reply)
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printReply(cmd *cobra.Command, reply *domain.Reply) {
	for _, n := range reply.Notices {
		cmd.Println(n)
	}

	switch reply.Kind {
	case domain.ReplyIgnored:
		return
	case domain.ReplyAnswer:
		for i, part := range reply.Answer.Parts {
			title := part.Document.Title
			if title == "" {
				title = "From page"
			}
			cmd.Printf("  [%d] %s\n", i+1, title)
			cmd.Printf("      %s\n", part.Document.URL)
			for _, s := range part.Snippets {
				cmd.Printf("      %s\n", s.Text)
			}
			cmd.Println()
		}
	case domain.ReplyEscalation:
		cmd.Println(reply.Message)
		cmd.Printf("  %s\n", reply.DeepLink)
	default:
		cmd.Println(reply.Message)
	}
}
