package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-assist/internal/adapters/driving/httpapi"
)

var (
	serveAddr    string
	serveSite    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat widget backend",
	Long: `Start the HTTP API the in-page chat widget talks to.

Each widget opens a session for the page it is embedded in. With --site,
sessions are restricted to that site's origin and the site is the default
page when none is given. Pages must be absolute http(s) URLs. Idle and least
recently used sessions are closed (see the sessions.* settings).

Examples:
  sercha-assist serve --site https://example.com
  sercha-assist serve --addr :9000 --origin https://widget.example.com`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "address to listen on")
	serveCmd.Flags().StringVar(&serveSite, "site", "", "website the widget is embedded in")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "extra browser origins allowed to call the API")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNotConfigured
	}

	server, err := httpapi.NewServer(httpapi.Config{
		Sessions:       sessionService,
		Site:           serveSite,
		AllowedOrigins: serveOrigins,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Widget backend listening on %s\n", serveAddr)
	return server.Run(cmd.Context(), serveAddr)
}
