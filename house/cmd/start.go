package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/LumeraProtocol/fairdice/house/resolver"
	"github.com/LumeraProtocol/fairdice/house/server"
	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the resolver until interrupted",
	Long: `Start the resolver loop. Every poll interval it signs and resolves the bets
placed against the configured house. Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logtrace.CtxWithOrigin(ctx, "start")

		logtrace.Info(ctx, "Starting resolver with configuration", logtrace.Fields{
			"config_file": configPath(),
			"keyring_dir": appConfig.GetKeyringDir(),
			"ledger":      appConfig.GetLedgerPath(),
			"key_name":    appConfig.House.KeyName,
		})

		key, err := loadHouseKey()
		if err != nil {
			logtrace.Error(ctx, "Failed to load house key", logtrace.Fields{logtrace.FieldError: err.Error()})
			return err
		}

		chain, closeFn, err := openChain()
		if err != nil {
			return err
		}
		defer closeFn()

		r, err := resolver.New(chain, key, resolverConfig())
		if err != nil {
			return err
		}
		defer r.Close()

		group, ctx := errgroup.WithContext(ctx)
		if addr := appConfig.Resolver.HealthListen; addr != "" {
			srv := server.New(addr)
			if err := srv.Listen(); err != nil {
				return err
			}
			srv.SetServing(true)
			group.Go(func() error { return srv.Run(ctx) })
		}
		group.Go(func() error { return r.Run(ctx) })
		return group.Wait()
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
