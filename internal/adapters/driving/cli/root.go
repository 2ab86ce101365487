// Package cli provides the cobra command tree for sercha-assist.
//
// Commands reach the core through package-level driving ports. The binary
// wires them with a Bootstrap function that runs once flags are parsed, so
// --config-dir can influence which store backs the settings.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-assist/internal/connectors/web"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-assist/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by commands.
var (
	sessionService  driving.SessionService
	settingsService driving.SettingsService
)

// Global flags.
var (
	verbose   bool
	logJSON   bool
	configDir string
	noConfig  bool
)

// BootstrapOptions are the global flags that affect service wiring.
type BootstrapOptions struct {
	// ConfigDir overrides the config directory.
	ConfigDir string

	// NoConfig ignores the config file and uses defaults only.
	NoConfig bool
}

// Bootstrap builds the services commands run against.
type Bootstrap func(opts BootstrapOptions) (driving.SessionService, driving.SettingsService, error)

var bootstrap Bootstrap

var errNotConfigured = errors.New("services not configured")

var rootCmd = &cobra.Command{
	Use:   "sercha-assist",
	Short: "Answer visitor questions from a website's own pages",
	Long: `sercha-assist crawls the pages linked from a website, indexes them in
memory and answers visitor questions with sentences taken from those pages.

Questions asking for a human are routed to the mentor's WhatsApp number,
found on the page itself.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print crawl and query progress")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write log lines as JSON")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.sercha-assist)")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "ignore the config file and use defaults")
}

func persistentPreRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetJSON(logJSON)

	if bootstrap == nil || sessionService != nil {
		return nil
	}

	sessions, settings, err := bootstrap(BootstrapOptions{ConfigDir: configDir, NoConfig: noConfig})
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	sessionService = sessions
	settingsService = settings
	return nil
}

// SetBootstrap registers the function that wires services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly, bypassing Bootstrap.
func SetServices(sessions driving.SessionService, settings driving.SettingsService) {
	sessionService = sessions
	settingsService = settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands use to
// stop servers and abandon crawls.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// openSession opens a session on target. URLs are fetched; anything else is
// read as a local HTML file.
func openSession(ctx context.Context, target string) (string, driving.Assistant, error) {
	if web.IsHTTPURL(target) {
		return sessionService.Open(ctx, target)
	}
	page, err := web.LoadFile(target)
	if err != nil {
		return "", nil, err
	}
	return sessionService.OpenPage(page)
}
