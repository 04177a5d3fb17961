package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nordsell/fortnox-slack-bot/internal/credentials"
	"github.com/nordsell/fortnox-slack-bot/internal/oauth"
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Run the one-time interactive OAuth flow",
	Long: `Mint a Fortnox access/refresh token pair for a service account.

Starts a local callback listener, prints an authorization URL for a
system administrator to approve in a browser, exchanges the returned
code and writes both tokens to the credential store.

Only system administrators can authorize service accounts. Afterwards,
schedule "fortnox-bot refresh" (e.g. every 50 minutes) to keep the
access token current.`,
	Args: cobra.NoArgs,
	RunE: runAuthorize,
}

func init() {
	rootCmd.AddCommand(authorizeCmd)
}

func runAuthorize(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewFileStore()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	manager := oauth.NewManager(store)
	tokens, err := manager.Authorize(ctx, func(authURL string) {
		fmt.Println("Open the following URL in a browser and approve the integration")
		fmt.Println("as a SYSTEM ADMINISTRATOR:")
		fmt.Println()
		fmt.Printf("  %s\n", authURL)
		fmt.Println()
		fmt.Println("Waiting for the authorization callback...")
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Authorization complete. Tokens saved to %s.\n", store.Name())
	fmt.Printf("The access token expires in %d seconds; set up a scheduled\n", tokens.ExpiresIn)
	fmt.Println("\"fortnox-bot refresh\" to keep it current.")
	return nil
}
