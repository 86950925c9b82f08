package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	"github.com/spf13/cobra"
)

var airdropCmd = &cobra.Command{
	Use:   "airdrop <address|house|vault> <lamports>",
	Short: "Credit lamports to an account on the local ledger",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logtrace.CtxWithCorrelationID(cmd.Context(), "airdrop")
		addr, err := resolveAddress(args[0])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[1], err)
		}

		chain, closeFn, err := openChain()
		if err != nil {
			return err
		}
		defer closeFn()

		if err := chain.Ledger().Airdrop(ctx, addr, amount); err != nil {
			return err
		}
		balance, err := chain.Ledger().Balance(ctx, addr)
		if err != nil {
			return err
		}
		fmt.Printf("%s balance: %d\n", addr, balance)
		return nil
	},
}

var tickCmd = &cobra.Command{
	Use:   "tick [slots]",
	Short: "Advance the ledger clock",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := uint64(1)
		if len(args) > 0 {
			v, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid slot count %q: %w", args[0], err)
			}
			n = v
		}

		chain, closeFn, err := openChain()
		if err != nil {
			return err
		}
		defer closeFn()

		slot, err := chain.Ledger().Advance(cmd.Context(), n)
		if err != nil {
			return err
		}
		fmt.Printf("slot %d\n", slot)
		return nil
	},
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Back up or restore the local ledger",
}

var ledgerExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write a compressed snapshot of the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, closeFn, err := openChain()
		if err != nil {
			return err
		}
		defer closeFn()

		f, err := os.OpenFile(args[0], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return err
		}
		if err := chain.Ledger().Export(cmd.Context(), f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("snapshot written to %s\n", args[0])
		return nil
	},
}

var ledgerImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the ledger state with a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		chain, closeFn, err := openChain()
		if err != nil {
			return err
		}
		defer closeFn()

		if err := chain.Ledger().Import(cmd.Context(), f); err != nil {
			return err
		}
		slot, err := chain.Ledger().Slot(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("ledger restored at slot %d\n", slot)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(airdropCmd, tickCmd, ledgerCmd)
	ledgerCmd.AddCommand(ledgerExportCmd, ledgerImportCmd)
}
