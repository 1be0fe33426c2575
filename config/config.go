package config

import (
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// Config carries the daemon settings loaded from the TOML file.
type Config struct {
	ListenAddress   string           `toml:"ListenAddress"`
	DataDir         string           `toml:"DataDir"`
	NetworkName     string           `toml:"NetworkName"`
	TokenSymbol     string           `toml:"TokenSymbol"`
	RPCReadTimeout  int              `toml:"RPCReadTimeout"`
	RPCWriteTimeout int              `toml:"RPCWriteTimeout"`
	RPCIdleTimeout  int              `toml:"RPCIdleTimeout"`
	GenesisAlloc    []GenesisAccount `toml:"GenesisAlloc"`
}

// GenesisAccount seeds one address with balances on first start. Balances are
// decimal strings in the smallest denomination.
type GenesisAccount struct {
	Address       string `toml:"Address"`
	TokenBalance  string `toml:"TokenBalance"`
	NativeBalance string `toml:"NativeBalance"`
}

const (
	defaultListenAddress = "127.0.0.1:8645"
	defaultDataDir       = "./data"
	defaultNetworkName   = "stakevest-local"
	defaultTokenSymbol   = "MCAR"
	maxTokenSymbolLen    = 8
)

// Load reads the configuration from the given path, writing a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ListenAddress) == "" {
		c.ListenAddress = defaultListenAddress
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.NetworkName) == "" {
		c.NetworkName = defaultNetworkName
	}
	if strings.TrimSpace(c.TokenSymbol) == "" {
		c.TokenSymbol = defaultTokenSymbol
	}
	if c.RPCReadTimeout <= 0 {
		c.RPCReadTimeout = 15
	}
	if c.RPCWriteTimeout <= 0 {
		c.RPCWriteTimeout = 15
	}
	if c.RPCIdleTimeout <= 0 {
		c.RPCIdleTimeout = 60
	}
}

// Validate rejects malformed listen addresses, token symbols and genesis
// allocations before the daemon starts mutating state with them.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.ListenAddress); err != nil {
		return fmt.Errorf("config: invalid ListenAddress %q: %w", c.ListenAddress, err)
	}
	symbol := strings.ToUpper(strings.TrimSpace(c.TokenSymbol))
	if symbol == "" || len(symbol) > maxTokenSymbolLen {
		return fmt.Errorf("config: TokenSymbol must be 1-%d characters", maxTokenSymbolLen)
	}
	c.TokenSymbol = symbol
	for i := range c.GenesisAlloc {
		if _, _, _, err := c.GenesisAlloc[i].Parse(); err != nil {
			return fmt.Errorf("config: GenesisAlloc[%d]: %w", i, err)
		}
	}
	return nil
}

// Parse decodes the allocation entry into its address and balances.
func (g GenesisAccount) Parse() ([20]byte, *big.Int, *big.Int, error) {
	var addr [20]byte
	if !common.IsHexAddress(g.Address) {
		return addr, nil, nil, fmt.Errorf("invalid address %q", g.Address)
	}
	addr = [20]byte(common.HexToAddress(g.Address))
	token, err := parseBalance(g.TokenBalance)
	if err != nil {
		return addr, nil, nil, fmt.Errorf("token balance: %w", err)
	}
	native, err := parseBalance(g.NativeBalance)
	if err != nil {
		return addr, nil, nil, fmt.Errorf("native balance: %w", err)
	}
	return addr, token, native, nil
}

func parseBalance(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid balance %q", raw)
	}
	return value, nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
