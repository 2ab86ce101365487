package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	connectJSON    bool
	connectMessage string
)

var connectCmd = &cobra.Command{
	Use:   "connect [url]",
	Short: "Print the WhatsApp link for a page's mentor",
	Long: `Loads the page at url and resolves the mentor's phone number from the
data-mentor-phone attribute on <body>, falling back to the page text.
No crawl is performed.`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().BoolVar(&connectJSON, "json", false, "output the reply as JSON")
	connectCmd.Flags().StringVarP(&connectMessage, "message", "m", "", "message to prefill (default from settings)")
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNotConfigured
	}

	id, assistant, err := openSession(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer sessionService.Close(id) //nolint:errcheck // session is discarded either way

	reply := assistant.Escalate(connectMessage)
	if connectJSON {
		return outputJSON(cmd, reply)
	}
	printReply(cmd, reply)
	return nil
}
