package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nordsell/fortnox-slack-bot/internal/credentials"
	"github.com/nordsell/fortnox-slack-bot/internal/fortnox"
)

var checkPing bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured credentials",
	Long: `Check the credential store for missing keys, wrong token prefixes,
and copy-paste artifacts like stray quotes or whitespace.

With --ping, also make a minimal authenticated call to the Fortnox
articles endpoint to confirm the access token works.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkPing, "ping", false, "verify the access token against the Fortnox API")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewFileStore()
	if err != nil {
		return err
	}

	creds, err := store.Load()
	if err != nil {
		return err
	}

	fmt.Printf("Checking credentials from %s\n\n", store.Name())

	issues := credentials.Validate(creds)
	errorCount := 0
	for _, issue := range issues {
		marker := "⚠️ "
		if issue.Severity == credentials.SeverityError {
			marker = "❌"
			errorCount++
		}
		fmt.Printf("%s %s: %s\n", marker, issue.Key, issue.Message)
	}
	if len(issues) == 0 {
		fmt.Println("✅ All credentials look clean")
	}

	if checkPing {
		fmt.Println()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := fortnox.NewClient(store)
		if err := client.CheckConnection(ctx); err != nil {
			return fmt.Errorf("Fortnox connection check failed: %w", err)
		}
		fmt.Println("✅ Fortnox connection check successful")
	}

	if errorCount > 0 {
		return fmt.Errorf("%d credential error(s) found", errorCount)
	}
	return nil
}
