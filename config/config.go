// Package config contains configuration of the escrow ledger node.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultLabel is a dump label used when none is configured.
const DefaultLabel = "simnet"

// Config is a top-level configuration of the ledger node.
type Config struct {
	// Label identifies the ledger in state dumps.
	Label   string                   `yaml:"Label"`
	Ledger  ledger.Params            `yaml:"Ledger"`
	Storage dbconfig.DBConfiguration `yaml:"Storage"`
	Logger  Logger                   `yaml:"Logger"`
	// Genesis maps Neo addresses to their initial native balances.
	Genesis map[string]uint64 `yaml:"Genesis"`
}

// Logger configures zap logger.
type Logger struct {
	Level string `yaml:"Level"`
	// Either "console" or "json".
	Encoding string `yaml:"Encoding"`
}

// Default returns configuration of the in-memory ledger with default
// protocol parameters.
func Default() Config {
	return Config{
		Label:  DefaultLabel,
		Ledger: ledger.DefaultParams(),
		Storage: dbconfig.DBConfiguration{
			Type: dbconfig.InMemoryDB,
		},
		Logger: Logger{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load reads YAML configuration from the file. Missing values are taken from
// Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration. Missing values are taken from Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode YAML: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration consistency.
func (c Config) Validate() error {
	if c.Label == "" {
		return errors.New("empty label")
	}

	err := c.Ledger.Validate()
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}

	switch c.Storage.Type {
	case dbconfig.InMemoryDB:
	case dbconfig.BoltDB:
		if c.Storage.BoltDBOptions.FilePath == "" {
			return errors.New("storage: missing BoltDB file path")
		}
	case dbconfig.LevelDB:
		if c.Storage.LevelDBOptions.DataDirectoryPath == "" {
			return errors.New("storage: missing LevelDB directory path")
		}
	default:
		return fmt.Errorf("storage: unsupported type '%s'", c.Storage.Type)
	}

	_, err = zapcore.ParseLevel(c.Logger.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	if c.Logger.Encoding != "console" && c.Logger.Encoding != "json" {
		return fmt.Errorf("logger: unsupported encoding '%s'", c.Logger.Encoding)
	}

	_, err = c.GenesisAllocation()
	return err
}

// BuildLogger constructs logger according to the Logger section.
func (c Config) BuildLogger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Logger.Level)
	if err != nil {
		return nil, err
	}

	cc := zap.NewProductionConfig()
	cc.Level = zap.NewAtomicLevelAt(lvl)
	cc.Encoding = c.Logger.Encoding
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cc.Build()
}

// OpenStore opens persistent store configured in the Storage section.
func (c Config) OpenStore() (storage.Store, error) {
	st, err := storage.NewStore(c.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.Storage.Type, err)
	}

	return st, nil
}

// GenesisAllocation decodes addresses of the Genesis section.
func (c Config) GenesisAllocation() (map[util.Uint160]uint64, error) {
	res := make(map[util.Uint160]uint64, len(c.Genesis))

	for addr, amount := range c.Genesis {
		u, err := address.StringToUint160(addr)
		if err != nil {
			return nil, fmt.Errorf("genesis: decode address '%s': %w", addr, err)
		}

		res[u] = amount
	}

	return res, nil
}

// LedgerPrm returns ledger parameters with opened store. Store is closed
// by the ledger.
func (c Config) LedgerPrm(log *zap.Logger, programs []ledger.Program) (ledger.Prm, error) {
	alloc, err := c.GenesisAllocation()
	if err != nil {
		return ledger.Prm{}, err
	}

	st, err := c.OpenStore()
	if err != nil {
		return ledger.Prm{}, err
	}

	return ledger.Prm{
		Params:   c.Ledger,
		Store:    st,
		Logger:   log,
		Genesis:  alloc,
		Programs: programs,
	}, nil
}
