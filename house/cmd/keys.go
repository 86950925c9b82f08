package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	"github.com/spf13/cobra"
)

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage house keys",
	Long: `Manage house signing keys.
This command provides subcommands for adding, recovering and showing keys.`,
}

func keyNameArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if appConfig.House.KeyName == "" {
		return "", fmt.Errorf("key name is required")
	}
	return appConfig.House.KeyName, nil
}

var keysAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new key",
	Long: `Add a new key with the given name.
A fresh 24-word mnemonic is generated and the derived Ed25519 key is stored
encrypted with the passphrase from the configured environment variable.

Example:
  fairdice keys add mykey`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logtrace.CtxWithCorrelationID(cmd.Context(), "keys-add")
		keyName, err := keyNameArg(args)
		if err != nil {
			return err
		}

		kr, err := openKeyring()
		if err != nil {
			return fmt.Errorf("failed to open keyring: %w", err)
		}
		mnemonic, key, err := kr.Add(keyName, appConfig.Passphrase())
		if err != nil {
			logtrace.Error(ctx, "Failed to create key", logtrace.Fields{
				"key_name":          keyName,
				logtrace.FieldError: err.Error(),
			})
			return fmt.Errorf("failed to create key: %w", err)
		}

		logtrace.Info(ctx, "Key generated", logtrace.Fields{
			"key_name":          keyName,
			logtrace.FieldHouse: key.Address.String(),
		})
		fmt.Println("Key generated successfully!")
		fmt.Printf("- Name: %s\n", keyName)
		fmt.Printf("- Address: %s\n", key.Address)
		fmt.Printf("- Mnemonic: %s\n", mnemonic)
		fmt.Println("\nIMPORTANT: Write down the mnemonic and keep it in a safe place.")
		return nil
	},
}

var keysRecoverCmd = &cobra.Command{
	Use:   "recover [name]",
	Short: "Recover a key using a mnemonic",
	Long: `Recover a key from a BIP39 mnemonic read from standard input.

Example:
  fairdice keys recover mykey`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logtrace.CtxWithCorrelationID(cmd.Context(), "keys-recover")
		keyName, err := keyNameArg(args)
		if err != nil {
			return err
		}

		fmt.Print("Enter your mnemonic: ")
		mnemonic, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && mnemonic == "" {
			return fmt.Errorf("failed to read mnemonic: %w", err)
		}

		kr, err := openKeyring()
		if err != nil {
			return fmt.Errorf("failed to open keyring: %w", err)
		}
		key, err := kr.Recover(keyName, strings.TrimSpace(mnemonic), appConfig.Passphrase())
		if err != nil {
			logtrace.Error(ctx, "Failed to recover key", logtrace.Fields{
				"key_name":          keyName,
				logtrace.FieldError: err.Error(),
			})
			return fmt.Errorf("failed to recover key: %w", err)
		}

		fmt.Println("Key recovered successfully!")
		fmt.Printf("- Name: %s\n", keyName)
		fmt.Printf("- Address: %s\n", key.Address)
		return nil
	},
}

var keysShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show key addresses",
	Long: `Show the address of a key, or of every key when --all is set.
Addresses are read without decrypting the key files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kr, err := openKeyring()
		if err != nil {
			return fmt.Errorf("failed to open keyring: %w", err)
		}

		names := args
		if showAll {
			if names, err = kr.List(); err != nil {
				return err
			}
		} else if len(names) == 0 {
			names = []string{appConfig.House.KeyName}
		}

		for _, name := range names {
			addr, err := kr.Address(name)
			if err != nil {
				return err
			}
			vault, _ := vaultOf(addr)
			fmt.Printf("%s\t%s\tvault %s\n", name, addr, vault)
		}
		return nil
	},
}

var showAll bool

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysAddCmd, keysRecoverCmd, keysShowCmd)
	keysShowCmd.Flags().BoolVar(&showAll, "all", false, "Show every key in the keyring")
}
