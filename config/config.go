// Package config holds the YAML-backed engine configuration.
package config

import (
	"fmt"
	"os"

	"github.com/keelvm/keel/pkg/core/storage/dbconfig"
	"gopkg.in/yaml.v3"
)

// Version is the version of the binary, set at build time.
var Version string

// Limits control the per-execution resource ceilings. Zero values are
// replaced with the defaults on load.
type Limits struct {
	// MaxStorageKeySize is the maximum storage key length in bytes.
	MaxStorageKeySize int `yaml:"MaxStorageKeySize"`
	// MaxStorageValueSize is the maximum storage value length in bytes.
	MaxStorageValueSize int `yaml:"MaxStorageValueSize"`
	// MaxSerializedItemSize is the ceiling for one serialized stack item.
	MaxSerializedItemSize int `yaml:"MaxSerializedItemSize"`
	// GasLimit bounds a single execution; -1 means unlimited.
	GasLimit int64 `yaml:"GasLimit"`
}

// Config is the top level engine configuration.
type Config struct {
	DB     dbconfig.DBConfiguration `yaml:"DB"`
	Limits Limits                   `yaml:"Limits"`
}

// DefaultLimits returns the fixed default resource ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxStorageKeySize:     64,
		MaxStorageValueSize:   65535,
		MaxSerializedItemSize: 2 * 1024 * 1024,
		GasLimit:              -1,
	}
}

// Default returns a configuration with an in-memory store and default
// limits.
func Default() Config {
	return Config{
		DB:     dbconfig.DBConfiguration{Type: dbconfig.InMemoryDB},
		Limits: DefaultLimits(),
	}
}

// Load reads, parses and validates the config from the given file.
func Load(path string) (Config, error) {
	configData, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	config := Default()
	if err = yaml.Unmarshal(configData, &config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.DB.Type {
	case dbconfig.BoltDB, dbconfig.LevelDB, dbconfig.InMemoryDB:
	default:
		return fmt.Errorf("unknown storage type: %s", c.DB.Type)
	}
	if c.Limits.MaxStorageKeySize <= 0 || c.Limits.MaxStorageValueSize <= 0 ||
		c.Limits.MaxSerializedItemSize <= 0 {
		return fmt.Errorf("non-positive limit in config")
	}
	return nil
}
