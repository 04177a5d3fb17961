package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nordsell/fortnox-slack-bot/internal/bot"
	"github.com/nordsell/fortnox-slack-bot/internal/credentials"
	"github.com/nordsell/fortnox-slack-bot/internal/fortnox"
	"github.com/nordsell/fortnox-slack-bot/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Slack bot",
	Long: `Connect to Slack via Socket Mode and answer the inventory slash
commands until interrupted.

The bot reads the Fortnox access token from the credential store on
every request, so a scheduled "fortnox-bot refresh" keeps it current
without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewFileStore()
	if err != nil {
		return err
	}
	logger.Get().Info().Str("store", store.Name()).Msg("Starting Fortnox Slack bot")

	creds, err := store.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Startup connection check; the bot still starts on failure so an
	// out-of-band refresh can fix the token without a restart.
	client := fortnox.NewClient(store)
	if err := client.CheckConnection(ctx); err != nil {
		logger.Get().Warn().Err(err).Msg("Startup Fortnox connection check failed")
	} else {
		logger.Get().Info().Msg("Startup Fortnox connection check successful")
	}

	b, err := bot.New(creds, client)
	if err != nil {
		return err
	}

	return b.Run(ctx)
}
