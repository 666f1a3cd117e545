package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	matchCmd = &cobra.Command{
		Use:   "match [subscription-id]",
		Short: "Run pairing for one subscription, or all active ones",
		Long:  `Execute a matching run from the command line, without going through the HTTP API. Pass a subscription id, or --all to run every active subscription.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMatch,
	}
	matchAll     bool
	matchTimeout time.Duration
)

func init() {
	matchCmd.Flags().BoolVar(&matchAll, "all", false, "Run every active subscription")
	matchCmd.Flags().DurationVar(&matchTimeout, "timeout", 5*time.Minute, "Overall run deadline")
}

func runMatch(_ *cobra.Command, args []string) error {
	if !matchAll && len(args) == 0 {
		return fmt.Errorf("pass a subscription id or --all")
	}

	deps, err := initializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	defer deps.DB.Close()

	runService := deps.PairingHandler.Service

	ctx, cancel := context.WithTimeout(context.Background(), matchTimeout)
	defer cancel()

	if matchAll {
		results, err := runService.RunAll(ctx, deps.Config.Matching.MaxConcurrency)
		if err != nil {
			return fmt.Errorf("run all failed: %w", err)
		}
		return printJSON(results)
	}

	var subID int64
	if _, err := fmt.Sscanf(args[0], "%d", &subID); err != nil {
		return fmt.Errorf("invalid subscription id %q", args[0])
	}

	result, err := runService.RunSubscription(ctx, subID)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return printJSON(result)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
