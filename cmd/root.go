package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           "msig",
		Short:         "Coordinate k-of-k multisig Stellar payments from a chat",
		Long:          "msig runs a chat-driven coordinator for unanimous multisig payments on the Stellar test network: members generate or import keys, join an account as co-signers, propose payments and approve them until the transaction is signed by everyone and submitted.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.toml (default: user config dir, then working directory)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(&cfgPath),
		newDemoCmd(&cfgPath),
		newKeysCmd(&cfgPath),
		newFundCmd(&cfgPath),
		newConfigCmd(),
	)

	return rootCmd
}
