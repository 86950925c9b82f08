package cmd

import (
	"os"
	"path/filepath"

	"github.com/LumeraProtocol/fairdice/house/status"
	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type pendingBetStatus struct {
	Address   string `json:"address"`
	Player    string `json:"player"`
	Slot      uint64 `json:"slot"`
	Seed      string `json:"seed"`
	Roll      uint8  `json:"roll_under"`
	Amount    uint64 `json:"amount"`
	RefundDue bool   `json:"refund_due"`
}

type houseStatus struct {
	Slot          uint64             `json:"slot"`
	ProgramID     string             `json:"program_id"`
	House         string             `json:"house"`
	Vault         string             `json:"vault"`
	VaultBalance  uint64             `json:"vault_balance"`
	HouseEdgeBps  uint16             `json:"house_edge_bps"`
	MinBet        uint64             `json:"min_bet"`
	MaxBet        uint64             `json:"max_bet"`
	RefundTimeout uint64             `json:"refund_timeout_slots"`
	Pending       []pendingBetStatus `json:"pending"`
	Host          *status.HostInfo   `json:"host,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the house and ledger state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logtrace.CtxWithCorrelationID(cmd.Context(), "status")
		house, err := houseAddress()
		if err != nil {
			return err
		}
		vault, _ := vaultOf(house)

		chain, closeFn, err := openChain()
		if err != nil {
			return err
		}
		defer closeFn()

		slot, err := chain.Ledger().Slot(ctx)
		if err != nil {
			return err
		}
		balance, err := chain.Ledger().Balance(ctx, vault)
		if err != nil {
			return err
		}
		records, err := chain.PendingBets(ctx)
		if err != nil {
			return err
		}

		proto := chain.Program().Config()
		st := houseStatus{
			Slot:          slot,
			ProgramID:     chain.ProgramID().String(),
			House:         house.String(),
			Vault:         vault.String(),
			VaultBalance:  balance,
			HouseEdgeBps:  proto.HouseEdgeBps,
			MinBet:        proto.MinBet,
			MaxBet:        proto.MaxBet,
			RefundTimeout: proto.RefundTimeout,
			Pending:       make([]pendingBetStatus, 0, len(records)),
		}
		for _, rec := range records {
			st.Pending = append(st.Pending, pendingBetStatus{
				Address:   rec.Address.String(),
				Player:    rec.Bet.Player.String(),
				Slot:      rec.Bet.Slot,
				Seed:      formatSeed(rec.Bet.Seed),
				Roll:      rec.Bet.Roll,
				Amount:    rec.Bet.Amount,
				RefundDue: chain.Program().RefundDue(rec.Bet, slot),
			})
		}

		if statusHost {
			host := status.CollectHost(ctx, []string{filepath.Dir(appConfig.GetLedgerPath())})
			st.Host = &host
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	},
}

var statusHost bool

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusHost, "host", false, "Include host CPU, memory and ledger disk usage")
}
