package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	feedbackDI "github.com/fd1az/campus-rewards/business/feedback/di"
	"github.com/fd1az/campus-rewards/business/feedback/domain"
	walletDI "github.com/fd1az/campus-rewards/business/wallet/di"
	walletDomain "github.com/fd1az/campus-rewards/business/wallet/domain"
)

var statsTransactions bool

// statsCmd prints the wallet snapshot and contribution counts.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show wallet state, balance and contribution counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := bootstrap(ctx, modeCommand)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		if err := a.start(ctx); err != nil {
			return err
		}

		session := walletDI.GetSession(a.mono.Services())
		session.RefreshBalance(ctx)

		svc := feedbackDI.GetService(a.mono.Services())
		fb, err := svc.List(ctx, domain.KindFeedback)
		if err != nil {
			return err
		}
		reports, err := svc.List(ctx, domain.KindReport)
		if err != nil {
			return err
		}

		out := struct {
			Wallet       walletDomain.Stats               `json:"wallet"`
			Feedback     int                              `json:"feedback"`
			Reports      int                              `json:"reports"`
			Transactions []walletDomain.TransactionRecord `json:"transactions,omitempty"`
		}{
			Wallet:   session.Stats(),
			Feedback: len(fb),
			Reports:  len(reports),
		}
		if statsTransactions {
			out.Transactions = session.Transactions()
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsTransactions, "transactions", false, "Include the reward log")
}
