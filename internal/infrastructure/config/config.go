package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs operator tokens; OperatorPasswordHash is the bcrypt
	// hash the login endpoint verifies against. Both are required because
	// the daemon can spend real funds on behalf of its keystore.
	JWTSecret            string `env:"JWT_SECRET"`
	OperatorPasswordHash string `env:"OPERATOR_PASSWORD_HASH"`

	Ledger LedgerConfig
}

type LedgerConfig struct {
	RPCURL          string `env:"LEDGER_RPC_URL,      default=https://rpc.sepolia.org"`
	ContractAddress string `env:"LEDGER_CONTRACT_ADDRESS"`
	// ChainID is the only network the client will operate on; Sepolia by
	// default. Any other active chain blocks every operation.
	ChainID int64 `env:"LEDGER_CHAIN_ID, default=11155111"`

	KeystoreDir        string `env:"KEYSTORE_DIR,        default=keystore"`
	KeystorePassphrase string `env:"KEYSTORE_PASSPHRASE"`

	// WalletPollInterval drives the synthesised chain/account change
	// signals; EstimateDebounce is the quiet period before a draft edit
	// triggers an estimate recomputation.
	WalletPollInterval time.Duration `env:"WALLET_POLL_INTERVAL, default=5s"`
	EstimateDebounce   time.Duration `env:"ESTIMATE_DEBOUNCE,    default=500ms"`
	// DirectoryWorkers bounds concurrent session-detail fetches during a
	// directory rebuild.
	DirectoryWorkers int `env:"DIRECTORY_WORKERS, default=8"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
