package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nordsell/fortnox-slack-bot/internal/credentials"
	"github.com/nordsell/fortnox-slack-bot/internal/fortnox"
	"github.com/nordsell/fortnox-slack-bot/internal/logger"
	"github.com/nordsell/fortnox-slack-bot/internal/oauth"
)

var refreshVerify bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the Fortnox access token once and exit",
	Long: `Exchange the stored refresh token for a fresh access/refresh pair
and write both back to the credential store.

Meant to be run from a scheduler; Fortnox access tokens expire after an
hour, so every ~50 minutes is a sensible cadence:

  */50 * * * * fortnox-bot refresh

A rejected refresh token cannot be recovered automatically; re-run
"fortnox-bot authorize" in that case.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshVerify, "verify", true, "verify the new token against the articles endpoint")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewFileStore()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	manager := oauth.NewManager(store)
	tokens, err := manager.Refresh(ctx)
	if err != nil {
		if errors.Is(err, oauth.ErrReauthorizationRequired) {
			return fmt.Errorf("%w\nRun \"fortnox-bot authorize\" to mint a new token pair", err)
		}
		return err
	}

	logger.Get().Info().
		Int("expires_in", tokens.ExpiresIn).
		Str("store", store.Name()).
		Msg("Access token refreshed")

	if refreshVerify {
		client := fortnox.NewClient(store)
		if err := client.CheckConnection(ctx); err != nil {
			logger.Get().Warn().Err(err).Msg("Token refreshed but verification against the articles endpoint failed")
			return err
		}
		logger.Get().Info().Msg("New token verified against the articles endpoint")
	}

	return nil
}
