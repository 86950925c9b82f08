package config

import "time"

// Centralized default values for configuration

const (
	DefaultBaseDir       = ".fairdice"
	DefaultConfigFile    = "config.yml"
	DefaultKeyName       = "house"
	DefaultKeyringDir    = "keys"
	DefaultPassphraseEnv = "FAIRDICE_KEY_PASSPHRASE"
	DefaultLedgerDB      = "data/ledger.db"

	// DefaultProgramID identifies the local deployment of the dice program.
	DefaultProgramID = "57awCPtTPFERTnsZkFRcUvAxaezJah6fBUGrHTSuEq18"

	DefaultPollInterval    = 2 * time.Second
	DefaultMaxPerSecond    = 20
	DefaultRetryMaxElapsed = 30 * time.Second
	DefaultHealthListen    = "127.0.0.1:7766"
)
