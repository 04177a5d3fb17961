// Package main provides the fortnox-bot CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fortnox-bot",
	Short: "Slack bot for Fortnox inventory queries",
	Long: `fortnox-bot answers Slack slash commands with inventory data from the
Fortnox API and manages the Fortnox OAuth tokens it needs.

Entry points:
  serve      run the Socket Mode Slack bot
  authorize  one-time interactive OAuth flow for a service account
  refresh    one-shot access token refresh, meant for cron
  check      validate the configured credentials

Credentials live in a flat key=value .env file (FORTNOX_BOT_ENV_PATH,
defaulting to ./.env), shared between the bot and the scheduled refresh.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
}
