/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"os"
	"path/filepath"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Config is read from SWISS_* environment variables; command line flags
// override individual fields.
type Config struct {
	// StateDir holds local snapshots when no bucket is configured.
	StateDir string `config:"SWISS_STATE_DIR"`
	// Bucket selects S3 snapshot storage when set.
	Bucket      string `config:"SWISS_BUCKET"`
	Prefix      string `config:"SWISS_PREFIX"`
	Gzip        bool   `config:"SWISS_GZIP"`
	LogLevel    string `config:"SWISS_LOG_LEVEL"`
	PairingMode string `config:"SWISS_PAIRING_MODE"`
	SearchLimit int    `config:"SWISS_SEARCH_LIMIT"`
}

func DefaultConfig() Config {
	stateDir := DefaultStateDir
	if home, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(home, DefaultStateDir)
	}

	return Config{
		StateDir:    stateDir,
		Prefix:      SnapshotPrefix,
		LogLevel:    DefaultLogLevel,
		PairingMode: "greedy",
	}
}

// LoadConfig overlays the environment onto DefaultConfig.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to load config from environment")
	}
	if cfg.SearchLimit < 0 {
		return cfg, eris.Errorf("SWISS_SEARCH_LIMIT must not be negative: %d",
			cfg.SearchLimit)
	}

	return cfg, nil
}
