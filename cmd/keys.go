package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stellarsig/msig/internal/custodian"
)

func newKeysCmd(cfgPath *string) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage operator keypairs in the on-disk store",
	}

	keysCmd.AddCommand(
		newKeysGenerateCmd(cfgPath),
		newKeysImportCmd(cfgPath),
		newKeysShowCmd(cfgPath),
	)

	return keysCmd
}

func newKeysGenerateCmd(cfgPath *string) *cobra.Command {
	var name string

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a keypair and store its seed under a name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openKeyStore(*cfgPath)
			if err != nil {
				return err
			}

			kp, err := custodian.Generate()
			if err != nil {
				return err
			}
			if err := store.Put(cmd.Context(), name, kp.Seed); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", name, kp.Address)
			return nil
		},
	}

	generateCmd.Flags().StringVar(&name, "name", "", "name to store the keypair under")
	_ = generateCmd.MarkFlagRequired("name")

	return generateCmd
}

func newKeysImportCmd(cfgPath *string) *cobra.Command {
	var name, seed string

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Validate a secret seed and store it under a name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openKeyStore(*cfgPath)
			if err != nil {
				return err
			}

			kp, err := custodian.Import(seed)
			if err != nil {
				return err
			}
			if err := store.Put(cmd.Context(), name, kp.Seed); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", name, kp.Address)
			return nil
		},
	}

	importCmd.Flags().StringVar(&name, "name", "", "name to store the keypair under")
	importCmd.Flags().StringVar(&seed, "seed", "", "secret seed (S...)")
	_ = importCmd.MarkFlagRequired("name")
	_ = importCmd.MarkFlagRequired("seed")

	return importCmd
}

func newKeysShowCmd(cfgPath *string) *cobra.Command {
	var name string
	var showSecret bool

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the public key of a stored keypair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openKeyStore(*cfgPath)
			if err != nil {
				return err
			}

			seed, err := store.Get(cmd.Context(), name)
			if err != nil {
				return err
			}
			kp, err := custodian.Import(seed)
			if err != nil {
				return err
			}

			if showSecret {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", name, kp.Address, kp.Seed)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", name, kp.Address)
			return nil
		},
	}

	showCmd.Flags().StringVar(&name, "name", "", "name of the stored keypair")
	showCmd.Flags().BoolVar(&showSecret, "secret", false, "also print the secret seed")
	_ = showCmd.MarkFlagRequired("name")

	return showCmd
}
