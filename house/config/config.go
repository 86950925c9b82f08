package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LumeraProtocol/fairdice/pkg/dice"
	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/LumeraProtocol/fairdice/pkg/ledger"
	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type HouseConfig struct {
	KeyName       string `yaml:"key_name" mapstructure:"key_name"`
	KeyringDir    string `yaml:"keyring_dir" mapstructure:"keyring_dir"`
	PassphraseEnv string `yaml:"passphrase_env" mapstructure:"passphrase_env"`
}

type ProgramConfig struct {
	ProgramID     string `yaml:"program_id" mapstructure:"program_id"`
	HouseEdgeBps  uint16 `yaml:"house_edge_bps" mapstructure:"house_edge_bps"`
	MinBet        uint64 `yaml:"min_bet" mapstructure:"min_bet"`
	MaxBet        uint64 `yaml:"max_bet" mapstructure:"max_bet"`
	RefundTimeout uint64 `yaml:"refund_timeout_slots" mapstructure:"refund_timeout_slots"`
}

type LedgerConfig struct {
	DBPath  string `yaml:"db_path" mapstructure:"db_path"`
	BetRent uint64 `yaml:"bet_rent" mapstructure:"bet_rent"`
}

type ResolverConfig struct {
	PollInterval    time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	MaxPerSecond    int           `yaml:"max_per_second" mapstructure:"max_per_second"`
	RetryMaxElapsed time.Duration `yaml:"retry_max_elapsed" mapstructure:"retry_max_elapsed"`
	// HealthListen is the gRPC health endpoint of `fairdice start`. Empty disables it.
	HealthListen string `yaml:"health_listen" mapstructure:"health_listen"`
}

// Config is the house operator configuration.
type Config struct {
	House    HouseConfig    `yaml:"house" mapstructure:"house"`
	Program  ProgramConfig  `yaml:"program" mapstructure:"program"`
	Ledger   LedgerConfig   `yaml:"ledger" mapstructure:"ledger"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`

	// BaseDir anchors relative paths. It is the directory of the loaded file.
	BaseDir string `yaml:"-" mapstructure:"-"`
}

// CreateDefaultConfig returns a configuration with every default filled in.
func CreateDefaultConfig(baseDir, keyName string) *Config {
	if keyName == "" {
		keyName = DefaultKeyName
	}
	proto := dice.DefaultConfig()
	return &Config{
		House: HouseConfig{
			KeyName:       keyName,
			KeyringDir:    DefaultKeyringDir,
			PassphraseEnv: DefaultPassphraseEnv,
		},
		Program: ProgramConfig{
			ProgramID:     DefaultProgramID,
			HouseEdgeBps:  proto.HouseEdgeBps,
			MinBet:        proto.MinBet,
			MaxBet:        proto.MaxBet,
			RefundTimeout: proto.RefundTimeout,
		},
		Ledger: LedgerConfig{
			DBPath:  DefaultLedgerDB,
			BetRent: ledger.DefaultBetRent,
		},
		Resolver: ResolverConfig{
			PollInterval:    DefaultPollInterval,
			MaxPerSecond:    DefaultMaxPerSecond,
			RetryMaxElapsed: DefaultRetryMaxElapsed,
			HealthListen:    DefaultHealthListen,
		},
		BaseDir: baseDir,
	}
}

// house.key_name is overridden by FAIRDICE_HOUSE_KEY_NAME.
var envKeyReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	d := CreateDefaultConfig("", "")
	v.SetDefault("house.key_name", d.House.KeyName)
	v.SetDefault("house.keyring_dir", d.House.KeyringDir)
	v.SetDefault("house.passphrase_env", d.House.PassphraseEnv)
	v.SetDefault("program.program_id", d.Program.ProgramID)
	v.SetDefault("program.house_edge_bps", d.Program.HouseEdgeBps)
	v.SetDefault("program.min_bet", d.Program.MinBet)
	v.SetDefault("program.max_bet", d.Program.MaxBet)
	v.SetDefault("program.refund_timeout_slots", d.Program.RefundTimeout)
	v.SetDefault("ledger.db_path", d.Ledger.DBPath)
	v.SetDefault("ledger.bet_rent", d.Ledger.BetRent)
	v.SetDefault("resolver.poll_interval", d.Resolver.PollInterval)
	v.SetDefault("resolver.max_per_second", d.Resolver.MaxPerSecond)
	v.SetDefault("resolver.retry_max_elapsed", d.Resolver.RetryMaxElapsed)
	v.SetDefault("resolver.health_listen", d.Resolver.HealthListen)
}

// LoadConfig reads the YAML file at filename. Missing keys take their
// defaults and FAIRDICE_* environment variables override file values.
func LoadConfig(filename string) (*Config, error) {
	ctx := logtrace.CtxWithOrigin(context.Background(), "config")

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, errors.Errorf("error getting absolute path for config file: %w", err)
	}
	logtrace.Debug(ctx, "Loading configuration", logtrace.Fields{"path": absPath})

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, errors.Errorf("config file %s does not exist", absPath)
	}

	v := viper.New()
	v.SetConfigFile(absPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FAIRDICE")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Errorf("failed to read config file %s: %w", absPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.BaseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig writes cfg as YAML to filename.
func SaveConfig(cfg *Config, filename string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o700); err != nil {
		return errors.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return errors.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects configurations the program or resolver cannot run with.
func (c *Config) Validate() error {
	if c.House.KeyName == "" {
		return errors.New("house.key_name is required")
	}
	if _, err := dicekit.ParseAddress(c.Program.ProgramID); err != nil {
		return errors.Errorf("program.program_id: %w", err)
	}
	if err := c.Dice().Validate(); err != nil {
		return errors.Errorf("program: %w", err)
	}
	if c.Resolver.PollInterval <= 0 {
		return errors.New("resolver.poll_interval must be positive")
	}
	if c.Resolver.MaxPerSecond <= 0 {
		return errors.New("resolver.max_per_second must be positive")
	}
	if c.Resolver.RetryMaxElapsed <= 0 {
		return errors.New("resolver.retry_max_elapsed must be positive")
	}
	return nil
}

// Dice returns the protocol parameters.
func (c *Config) Dice() dice.Config {
	return dice.Config{
		HouseEdgeBps:  c.Program.HouseEdgeBps,
		MinBet:        c.Program.MinBet,
		MaxBet:        c.Program.MaxBet,
		RefundTimeout: c.Program.RefundTimeout,
	}
}

// ProgramID returns the parsed program id. Validate guarantees it parses.
func (c *Config) ProgramID() dicekit.Address {
	id, _ := dicekit.ParseAddress(c.Program.ProgramID)
	return id
}

func (c *Config) LedgerOptions() ledger.Options {
	return ledger.Options{ProgramID: c.ProgramID(), BetRent: c.Ledger.BetRent}
}

// Passphrase returns the key file passphrase from the configured environment variable.
func (c *Config) Passphrase() string {
	if c.House.PassphraseEnv == "" {
		return ""
	}
	return os.Getenv(c.House.PassphraseEnv)
}

func (c *Config) GetKeyringDir() string {
	return GetFullPath(c.BaseDir, c.House.KeyringDir)
}

func (c *Config) GetLedgerPath() string {
	return GetFullPath(c.BaseDir, c.Ledger.DBPath)
}

// EnsureDirs creates the keyring and ledger directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.GetKeyringDir(), filepath.Dir(c.GetLedgerPath())} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetFullPath resolves p against baseDir unless it is already absolute.
func GetFullPath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
