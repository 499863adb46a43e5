package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	feedbackDI "github.com/fd1az/campus-rewards/business/feedback/di"
	"github.com/fd1az/campus-rewards/business/feedback/domain"
	walletDI "github.com/fd1az/campus-rewards/business/wallet/di"
)

var submitFlags struct {
	kind      string
	category  string
	title     string
	message   string
	location  string
	anonymous bool
}

// submitCmd files one contribution and pays its reward.
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit feedback or an incident report",
	Long: `Submit feedback or an incident report and earn the per-contribution
reward. Reports also need --title and --location.

Without --connect the reward is recorded against "Pending Connection".`,
	Example: `  rewards submit --category dining --message "more vegan options please"
  rewards submit --kind report --category facilities --title "Leak" \
    --location "Library 2F" --message "water dripping near the stairs" --connect`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitFlags.kind, "kind", "feedback", "feedback or report")
	f.StringVar(&submitFlags.category, "category", "", "Category (required)")
	f.StringVar(&submitFlags.title, "title", "", "Title (required for reports)")
	f.StringVarP(&submitFlags.message, "message", "m", "", "Message (required)")
	f.StringVar(&submitFlags.location, "location", "", "Location (required for reports)")
	f.BoolVar(&submitFlags.anonymous, "anonymous", false, "Do not attach the wallet address")
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	kind, err := domain.ParseKind(submitFlags.kind)
	if err != nil {
		return fmt.Errorf("--kind: %w", err)
	}

	a, err := bootstrap(ctx, modeCommand)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.start(ctx); err != nil {
		return err
	}

	c, err := feedbackDI.GetService(a.mono.Services()).Submit(ctx, domain.Submission{
		Kind:      kind,
		Category:  submitFlags.category,
		Title:     submitFlags.title,
		Message:   submitFlags.message,
		Location:  submitFlags.location,
		Anonymous: submitFlags.anonymous,
	})
	if err != nil {
		return err
	}

	// the balance refresh after a reward runs in the background
	session := walletDI.GetSession(a.mono.Services())
	session.RefreshBalance(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Contribution *domain.Contribution `json:"contribution"`
		Balance      string               `json:"balance"`
	}{c, session.Stats().Balance})
}
