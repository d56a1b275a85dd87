// Package config reads Sibyl tool settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Supported networks.
const (
	TestNet = "testnet"
	MainNet = "mainnet"
)

var defaultEndpoints = map[string]string{
	TestNet: "https://testnet1.neo.coz.io:443",
	MainNet: "https://mainnet1.neo.coz.io:443",
}

const explorerTxURL = "https://dora.coz.io/transaction/neo3/%s/0x%s"

// ErrNoContract is returned by ContractHash when the contract is not set.
var ErrNoContract = errors.New("oracle contract is not set")

// Config groups settings of the Sibyl command line tool.
type Config struct {
	Network        string        `env:"SIBYL_NETWORK" envDefault:"testnet"`
	RPCEndpoint    string        `env:"SIBYL_RPC_ENDPOINT"`
	DialTimeout    time.Duration `env:"SIBYL_DIAL_TIMEOUT" envDefault:"10s"`
	RequestTimeout time.Duration `env:"SIBYL_REQUEST_TIMEOUT" envDefault:"30s"`

	// Contract is the oracle contract address or LE hex script hash.
	Contract     string `env:"SIBYL_CONTRACT"`
	ContractsDir string `env:"SIBYL_CONTRACTS_DIR" envDefault:"contracts"`

	// PrivateKey is a base58 encoded raw private key, it takes precedence
	// over Wallet.
	PrivateKey     string `env:"SIBYL_PRIVATE_KEY"`
	Wallet         string `env:"SIBYL_WALLET" envDefault:"wallet.json"`
	WalletAddress  string `env:"SIBYL_WALLET_ADDRESS"`
	WalletPassword string `env:"SIBYL_WALLET_PASSWORD"`

	LogDir   string `env:"SIBYL_LOG_DIR" envDefault:"logs"`
	LogLevel string `env:"SIBYL_LOG_LEVEL" envDefault:"info"`

	LLM LLM `envPrefix:"DEEPSEEK_"`
}

// LLM groups settings of the OpenAI-compatible chat completion API used to
// generate predictions.
type LLM struct {
	APIKey       string        `env:"API_KEY"`
	BaseURL      string        `env:"BASE_URL" envDefault:"https://api.deepseek.com/v1"`
	Model        string        `env:"MODEL" envDefault:"deepseek-chat"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"30s"`
	Retries      uint64        `env:"RETRIES" envDefault:"3"`
	RateInterval time.Duration `env:"RATE_INTERVAL" envDefault:"1s"`
}

// Load reads the given dotenv files (.env by default) into the process
// environment and parses Config from it. Missing files are skipped, variables
// already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Network = strings.ToLower(cfg.Network)
	if _, ok := defaultEndpoints[cfg.Network]; !ok {
		return Config{}, fmt.Errorf("unsupported network %q", cfg.Network)
	}

	return cfg, nil
}

// Endpoint returns Neo RPC node address: explicitly configured one or the
// default for the network.
func (c Config) Endpoint() string {
	if c.RPCEndpoint != "" {
		return c.RPCEndpoint
	}
	return defaultEndpoints[c.Network]
}

// TxLink returns block explorer link to the transaction given as LE hex.
func (c Config) TxLink(tx string) string {
	return fmt.Sprintf(explorerTxURL, c.Network, tx)
}

// ContractHash parses oracle contract reference which is either Neo address
// or hex-encoded script hash in little-endian (0x prefix is optional).
func (c Config) ContractHash() (util.Uint160, error) {
	if c.Contract == "" {
		return util.Uint160{}, ErrNoContract
	}
	return ParseAccount(c.Contract)
}

// ParseAccount parses Neo address or LE hex script hash.
func ParseAccount(s string) (util.Uint160, error) {
	if u, err := address.StringToUint160(s); err == nil {
		return u, nil
	}

	u, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid account %q: neither address nor script hash", s)
	}
	return u, nil
}
