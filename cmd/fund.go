package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stellarsig/msig/internal/custodian"
	"github.com/stellarsig/msig/internal/domain"
)

func newFundCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fund <address>",
		Short: "Fund a testnet account through friendbot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := args[0]
			if !custodian.IsValidAddress(address) {
				return domain.ErrInvalidDestination
			}

			app, err := wireApp(*cfgPath)
			if err != nil {
				return err
			}

			return runLedgerSpinner(cmd.Context(), cmd.OutOrStdout(), "Requesting friendbot funding...",
				func(ctx context.Context) (string, error) {
					if opErr := app.ledger.FundAccount(ctx, address); opErr != nil {
						return "", opErr
					}
					return fmt.Sprintf("Account %s is funded.", address), nil
				})
		},
	}
}
