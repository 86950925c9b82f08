package cmd

import (
	"fmt"

	"github.com/LumeraProtocol/fairdice/house/resolver"
	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/ledger"
	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	"github.com/spf13/cobra"
)

var (
	betPlayer string
	betSeed   string
	betRoll   uint8
	betAmount uint64
)

var betCmd = &cobra.Command{
	Use:   "bet",
	Short: "Place, resolve or refund bets on the local ledger",
}

var betPlaceCmd = &cobra.Command{
	Use:   "place",
	Short: "Place a bet as --player against the configured house",
	Long: `Place a bet. The player wins when the derived roll is below --roll.

Example:
  fairdice bet place --player <address> --roll 50 --amount 100000000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logtrace.CtxWithCorrelationID(cmd.Context(), "bet-place")
		player, err := dicekit.ParseAddress(betPlayer)
		if err != nil {
			return err
		}
		seed, err := parseSeed(betSeed)
		if err != nil {
			return err
		}
		house, err := houseAddress()
		if err != nil {
			return err
		}

		chain, closeFn, err := openChain()
		if err != nil {
			return err
		}
		defer closeFn()

		bet, addr, err := chain.Place(ctx, player, house, seed, betRoll, betAmount)
		if err != nil {
			return err
		}
		fmt.Printf("bet %s\n- slot: %d\n- seed: %s\n- roll under: %d\n- amount: %d\n", addr, bet.Slot, formatSeed(bet.Seed), bet.Roll, bet.Amount)
		return nil
	},
}

var betResolveCmd = &cobra.Command{
	Use:   "resolve <bet-address>",
	Short: "Sign and resolve one pending bet with the house key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logtrace.CtxWithCorrelationID(cmd.Context(), "bet-resolve")
		addr, err := dicekit.ParseAddress(args[0])
		if err != nil {
			return err
		}
		key, err := loadHouseKey()
		if err != nil {
			return err
		}

		chain, closeFn, err := openChain()
		if err != nil {
			return err
		}
		defer closeFn()

		bet, err := chain.Ledger().Bet(ctx, addr)
		if err != nil {
			return err
		}

		r, err := resolver.New(chain, key, resolverConfig())
		if err != nil {
			return err
		}
		defer r.Close()

		out, fresh, err := r.Resolve(ctx, ledger.BetRecord{Address: addr, Bet: bet})
		if err != nil {
			return err
		}
		if !fresh {
			fmt.Println("bet already settled")
			return nil
		}
		result := "lose"
		if out.Win {
			result = "win"
		}
		fmt.Printf("roll %d (under %d): %s, payout %d\n", out.Roll, bet.Roll, result, out.Payout)
		return nil
	},
}

var betRefundCmd = &cobra.Command{
	Use:   "refund",
	Short: "Refund an unresolved bet as --player after the timeout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logtrace.CtxWithCorrelationID(cmd.Context(), "bet-refund")
		player, err := dicekit.ParseAddress(betPlayer)
		if err != nil {
			return err
		}
		if betSeed == "" {
			return fmt.Errorf("--seed is required")
		}
		seed, err := parseSeed(betSeed)
		if err != nil {
			return err
		}
		house, err := houseAddress()
		if err != nil {
			return err
		}

		chain, closeFn, err := openChain()
		if err != nil {
			return err
		}
		defer closeFn()

		amount, err := chain.Refund(ctx, player, house, seed)
		if err != nil {
			return err
		}
		fmt.Printf("refunded %d\n", amount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(betCmd)
	betCmd.AddCommand(betPlaceCmd, betResolveCmd, betRefundCmd)

	for _, c := range []*cobra.Command{betPlaceCmd, betRefundCmd} {
		c.Flags().StringVar(&betPlayer, "player", "", "Player address (base58)")
		c.Flags().StringVar(&betSeed, "seed", "", "128-bit decimal seed (random when omitted on place)")
		_ = c.MarkFlagRequired("player")
	}
	betPlaceCmd.Flags().Uint8Var(&betRoll, "roll", 50, "Target roll: win when the roll is below it (2-96)")
	betPlaceCmd.Flags().Uint64Var(&betAmount, "amount", 0, "Wager in lamports")
	_ = betPlaceCmd.MarkFlagRequired("amount")
}
