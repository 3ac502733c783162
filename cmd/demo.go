package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	statusrender "github.com/stellarsig/msig/internal/adapters/render/status"
	"github.com/stellarsig/msig/internal/application"
	"github.com/stellarsig/msig/internal/custodian"
	"github.com/stellarsig/msig/internal/domain"
)

func newDemoCmd(cfgPath *string) *cobra.Command {
	var amount string

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a single-signer payment walkthrough against testnet",
		Long:  "Creates a funded keypair, proposes a payment to a freshly funded destination account, approves it and submits the transaction, printing the session status after each step.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(*cfgPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			session := domain.SessionID(fmt.Sprintf("demo-%d", time.Now().Unix()))
			member := domain.MemberID("operator")

			if _, err := app.coord.StartSession(ctx, session); err != nil {
				return err
			}

			err = runLedgerSpinner(ctx, out, "Creating and funding the signer account...", func(ctx context.Context) (string, error) {
				key, opErr := app.coord.GenerateOwnerKey(ctx, session, member)
				if opErr != nil {
					return "", opErr
				}
				return "Signer account: " + key.PublicKey, nil
			})
			if err != nil {
				return err
			}

			dest, err := custodian.Generate()
			if err != nil {
				return err
			}
			err = runLedgerSpinner(ctx, out, "Funding the destination account...", func(ctx context.Context) (string, error) {
				if opErr := app.ledger.FundAccount(ctx, dest.Address); opErr != nil {
					return "", opErr
				}
				return "Destination account: " + dest.Address, nil
			})
			if err != nil {
				return err
			}

			if _, err := app.coord.Propose(ctx, session, member, dest.Address, amount); err != nil {
				return err
			}
			fmt.Fprintf(out, "Proposed a payment of %s XLM.\n", amount)

			var result application.ApproveResult
			err = runLedgerSpinner(ctx, out, "Signing and submitting the transaction...", func(ctx context.Context) (string, error) {
				var opErr error
				result, opErr = app.coord.Approve(ctx, session, member)
				if opErr != nil {
					return "", opErr
				}
				return "Transaction submitted.", nil
			})
			if err != nil {
				return err
			}

			status, err := app.coord.Status(ctx, session)
			if err != nil {
				return err
			}
			rendered, err := statusrender.Render(status, statusrender.RenderOptions{Now: time.Now()})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, rendered)

			if result.Submission == nil || !result.Submission.Successful {
				return fmt.Errorf("demo payment was not applied")
			}
			return nil
		},
	}

	demoCmd.Flags().StringVar(&amount, "amount", "10", "payment amount in XLM")

	return demoCmd
}
