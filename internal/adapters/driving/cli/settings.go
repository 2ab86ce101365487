package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

var errSettingsNotConfigured = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure crawl, index, answer and contact settings.

Settings are stored in config.toml under the config directory. Keys are
dot-separated, for example crawl.link_limit or index.engine.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Validate and save one setting.

Examples:
  sercha-assist settings set crawl.link_limit 40
  sercha-assist settings set index.engine sqlite
  sercha-assist settings set contact.message "Hi, I have a question"`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsEnginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List available search engines",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, e := range domain.AllSearchEngines() {
			cmd.Printf("  %-8s %s\n", e, e.Description())
		}
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEnginesCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, key := range settingsService.Keys() {
		value, err := settingsService.Value(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}

		group, name, _ := strings.Cut(key, ".")
		if group != section {
			section = group
			cmd.Println()
			cmd.Printf("[%s]\n", section)
		}
		cmd.Printf("  %s = %s\n", name, value)
	}

	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	value, err := settingsService.Value(args[0])
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	value, err := settingsService.Value(args[0])
	if err != nil {
		return err
	}
	cmd.Printf("%s set to %s\n", args[0], value)
	return nil
}
