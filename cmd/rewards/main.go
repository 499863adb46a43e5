// Package main is the entry point for Campus Rewards.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var (
	configPath  string
	cliMode     bool
	autoConnect bool
)

// rootCmd runs the dashboard, or the headless service with --cli.
var rootCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Campus feedback rewards wallet",
	Long: `Campus Rewards collects campus feedback and incident reports and pays
a fixed credit reward for each accepted contribution.

With no subcommand the terminal dashboard starts. --cli runs headless with
logs on stderr until interrupted.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&autoConnect, "connect", false, "Connect the wallet on startup")
	rootCmd.Flags().BoolVar(&cliMode, "cli", false, "Run in CLI mode with logs (no TUI)")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
