package smartwallet

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/piavgh/smartwallet/chains"
	"github.com/piavgh/smartwallet/storage"
)

// EnvPrefix prefixes every environment override, e.g. SMARTWALLET_API_KEY
const EnvPrefix = "SMARTWALLET"

// Config is the file/env configuration of a client and its connector
type Config struct {
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	ChainID       uint64 `mapstructure:"chain_id"`
	RPC           string `mapstructure:"rpc"`
	WalletAddress string `mapstructure:"wallet_address"`
	// StoragePath is the badger directory for connector state, empty keeps it in memory
	StoragePath string `mapstructure:"storage_path"`

	OutcomePollInterval time.Duration `mapstructure:"outcome_poll_interval"`
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval"`
	BlockWindow         uint64        `mapstructure:"block_window"`
}

// SetDefaults sets viper defaults under configPath
func (c *Config) SetDefaults(v *viper.Viper, configPath string) {
	prefix := ""
	if configPath != "" {
		prefix = configPath + "."
	}
	v.SetDefault(prefix+"api_key", "")
	v.SetDefault(prefix+"base_url", DefaultAPIURL)
	v.SetDefault(prefix+"chain_id", 0)
	v.SetDefault(prefix+"rpc", "")
	v.SetDefault(prefix+"wallet_address", "")
	v.SetDefault(prefix+"storage_path", "")
	v.SetDefault(prefix+"outcome_poll_interval", DefaultOutcomePollInterval)
	v.SetDefault(prefix+"receipt_poll_interval", DefaultReceiptPollInterval)
	v.SetDefault(prefix+"block_window", DefaultBlockWindow)
}

// LoadConfig reads path (any format viper knows, skipped when empty) and
// applies SMARTWALLET_* overrides. When no rpc is configured, the chain's
// own RPC variable (RPC_URL_MUSTER_TESTNET, ...) is honored.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	cfg.SetDefaults(v, "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("couldn't read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("couldn't decode config: %w", err)
	}

	if cfg.ChainID != 0 {
		chain, err := chains.Lookup(cfg.ChainID)
		if err != nil {
			return nil, newConfigurationError(err)
		}
		if cfg.RPC == "" && chain.RPCEnv != "" {
			if err := v.BindEnv("chain_rpc", chain.RPCEnv); err != nil {
				return nil, fmt.Errorf("couldn't bind %s: %w", chain.RPCEnv, err)
			}
			cfg.RPC = v.GetString("chain_rpc")
		}
	}
	return cfg, nil
}

// ClientParams builds the client parameters for wallet
func (c *Config) ClientParams(wallet Wallet) ClientParams {
	return ClientParams{
		Wallet:  wallet,
		APIKey:  c.APIKey,
		RPC:     c.RPC,
		BaseURL: c.BaseURL,
	}
}

// ConnectorParams builds the connector parameters and opens the badger store
// at StoragePath for them. The caller closes the store.
func (c *Config) ConnectorParams(newWallet WalletFactory) (ConnectorParams, *storage.BadgerStore, error) {
	store, err := storage.OpenBadgerStore(c.StoragePath)
	if err != nil {
		return ConnectorParams{}, nil, fmt.Errorf("couldn't open connector store: %w", err)
	}
	return ConnectorParams{
		APIKey:        c.APIKey,
		BaseURL:       c.BaseURL,
		ChainID:       c.ChainID,
		RPC:           c.RPC,
		WalletAddress: c.WalletAddress,
		Store:         store,
		NewWallet:     newWallet,
		ClientOptions: []ClientOption{WithTrackerOptions(c.TrackerOptions()...)},
	}, store, nil
}

func (c *Config) TrackerOptions() []TrackerOption {
	return []TrackerOption{
		WithOutcomePollInterval(c.OutcomePollInterval),
		WithReceiptPollInterval(c.ReceiptPollInterval),
		WithBlockWindow(c.BlockWindow),
	}
}
