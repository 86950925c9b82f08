package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/LumeraProtocol/fairdice/house/config"
	"github.com/LumeraProtocol/fairdice/pkg/keyring"
	"github.com/LumeraProtocol/fairdice/pkg/ledger"
	"github.com/spf13/cobra"
)

const (
	keyActionCreate  = "Create a new key"
	keyActionRecover = "Recover a key from mnemonic"
)

var (
	forceInit bool
	initKey   string
	initYes   bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the house configuration, key and ledger",
	Long: `Initialize a house by writing config.yml, creating or recovering the house key
and creating the local ledger.

The key file passphrase is read from $FAIRDICE_KEY_PASSPHRASE when set.

Example:
  fairdice init
  fairdice init --yes --key-name house   # non-interactive, new key
  fairdice init --force                  # overwrite an existing config`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := resolveBaseDir()
		cfgPath := filepath.Join(dir, config.DefaultConfigFile)
		if cfgFile != "" {
			cfgPath = cfgFile
			dir = filepath.Dir(cfgFile)
		}

		if _, err := os.Stat(cfgPath); err == nil && !forceInit {
			overwrite := false
			if !initYes {
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("A configuration already exists at %s. Overwrite it?", cfgPath),
					Default: false,
				}
				if err := survey.AskOne(prompt, &overwrite); err != nil {
					return err
				}
			}
			if !overwrite {
				return fmt.Errorf("configuration already exists at %s\nUse --force to overwrite", cfgPath)
			}
		}

		keyName, action, mnemonic, err := gatherKeyInputs()
		if err != nil {
			return err
		}
		passphrase, err := promptPassphrase()
		if err != nil {
			return err
		}

		appConfig = config.CreateDefaultConfig(dir, keyName)
		if err := appConfig.EnsureDirs(); err != nil {
			return err
		}

		kr, err := keyring.New(appConfig.GetKeyringDir())
		if err != nil {
			return err
		}
		if err := setupKey(kr, keyName, action, mnemonic, passphrase); err != nil {
			return err
		}

		l, err := ledger.Open(appConfig.GetLedgerPath(), appConfig.LedgerOptions())
		if err != nil {
			return err
		}
		_ = l.Close()

		if err := config.SaveConfig(appConfig, cfgPath); err != nil {
			return err
		}

		fmt.Printf("\nConfiguration saved to %s\n", cfgPath)
		fmt.Println("Fund the vault and start resolving with:")
		fmt.Println("  fairdice airdrop vault 1000000000000")
		fmt.Println("  fairdice start")
		return nil
	},
}

func gatherKeyInputs() (keyName, action, mnemonic string, err error) {
	keyName = initKey
	action = keyActionCreate
	if initYes {
		if keyName == "" {
			keyName = config.DefaultKeyName
		}
		return keyName, action, "", nil
	}

	if keyName == "" {
		keyNamePrompt := &survey.Input{
			Message: "Enter house key name:",
			Default: config.DefaultKeyName,
		}
		if err = survey.AskOne(keyNamePrompt, &keyName, survey.WithValidator(survey.Required)); err != nil {
			return "", "", "", err
		}
	}

	actionPrompt := &survey.Select{
		Message: "House key:",
		Options: []string{keyActionCreate, keyActionRecover},
		Default: keyActionCreate,
	}
	if err = survey.AskOne(actionPrompt, &action); err != nil {
		return "", "", "", err
	}

	if action == keyActionRecover {
		mnemonicPrompt := &survey.Password{
			Message: "Enter your mnemonic phrase:",
			Help:    "Space-separated words (typically 12 or 24 words)",
		}
		if err = survey.AskOne(mnemonicPrompt, &mnemonic, survey.WithValidator(survey.Required)); err != nil {
			return "", "", "", err
		}
	}
	return keyName, action, strings.TrimSpace(mnemonic), nil
}

func promptPassphrase() (string, error) {
	if p, ok := os.LookupEnv(config.DefaultPassphraseEnv); ok || initYes {
		return p, nil
	}
	var passphrase string
	prompt := &survey.Password{
		Message: "Key file passphrase:",
		Help:    fmt.Sprintf("Export it as %s before running other commands", config.DefaultPassphraseEnv),
	}
	return passphrase, survey.AskOne(prompt, &passphrase)
}

func setupKey(kr *keyring.Keyring, keyName, action, mnemonic, passphrase string) error {
	if _, err := kr.Address(keyName); err == nil {
		fmt.Printf("Using existing key %q\n", keyName)
		return nil
	}

	if action == keyActionRecover {
		key, err := kr.Recover(keyName, mnemonic, passphrase)
		if err != nil {
			return fmt.Errorf("failed to recover key: %w", err)
		}
		fmt.Printf("Key recovered successfully! Name: %s, Address: %s\n", keyName, key.Address)
		return nil
	}

	mnemonic, key, err := kr.Add(keyName, passphrase)
	if err != nil {
		return fmt.Errorf("failed to create key: %w", err)
	}
	fmt.Printf("Key generated successfully! Name: %s, Address: %s\nMnemonic: %s\n", keyName, key.Address, mnemonic)
	fmt.Println("\nIMPORTANT: Write down the mnemonic and keep it in a safe place.")
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing configuration without asking")
	initCmd.Flags().StringVar(&initKey, "key-name", "", "House key name")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Non-interactive: accept defaults and create a new key")
}
