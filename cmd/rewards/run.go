package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	feedbackDI "github.com/fd1az/campus-rewards/business/feedback/di"
	walletDI "github.com/fd1az/campus-rewards/business/wallet/di"
	"github.com/fd1az/campus-rewards/pkg/ui"
)

func runRoot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if cliMode {
		return runCLI(ctx)
	}
	return runTUI(ctx)
}

func runCLI(ctx context.Context) error {
	a, err := bootstrap(ctx, modeService)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	a.log.Info(ctx, "starting Campus Rewards",
		"version", version,
		"environment", a.cfg.App.Environment,
	)
	if err := a.start(ctx); err != nil {
		return err
	}

	st := walletDI.GetSession(a.mono.Services()).Stats()
	a.log.Info(ctx, "ready", "mode", st.Mode, "state", st.State, "balance", st.Balance)

	// Wait for shutdown
	<-ctx.Done()
	a.log.Info(ctx, "shutting down")
	return nil
}

func runTUI(ctx context.Context) error {
	a, err := bootstrap(ctx, modeTUI)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	notifier := ui.NewNotifier()
	a.mono.Notifier().Add(notifier)

	opts := ui.Options{
		Wallet:        walletDI.GetSession(a.mono.Services()),
		Contributions: feedbackDI.GetService(a.mono.Services()),
		Chains:        a.mono.Chains(),
		MaxAttempts:   a.cfg.Wallet.MaxAttempts,
		Version:       version,
		// modules start after the welcome screen so it shows immediately
		Start: a.start,
	}
	if err := ui.Run(ctx, opts, notifier); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
