package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/LumeraProtocol/fairdice/house/config"
	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	"github.com/spf13/cobra"
)

const skipConfigAnnotation = "skip-config"

var (
	cfgFile   string
	baseDir   string
	logLevel  string
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fairdice",
	Short: "House operator for the provably-fair dice program",
	Long: `fairdice runs the house side of a provably-fair dice game against a local ledger.
Players commit bets; the house signs each bet and the signature decides the roll.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel != "" {
			logtrace.SetLevel(logLevel)
		}
		if cmd.Annotations[skipConfigAnnotation] == "true" {
			return nil
		}
		cfg, err := config.LoadConfig(configPath())
		if err != nil {
			return fmt.Errorf("load config (run `fairdice init` first?): %w", err)
		}
		appConfig = cfg
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(resolveBaseDir(), config.DefaultConfigFile)
}

func resolveBaseDir() string {
	if baseDir != "" {
		return baseDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DefaultBaseDir
	}
	return filepath.Join(home, config.DefaultBaseDir)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default <basedir>/config.yml)")
	rootCmd.PersistentFlags().StringVarP(&baseDir, "basedir", "d", "", "base directory (default ~/.fairdice)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}
