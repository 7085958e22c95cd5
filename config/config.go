// Package config loads the library's own runtime configuration (mount
// behavior, reference-layout preference), separate from any per-game
// manifest the caller parses with the manifest package.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the library's own TOML-backed configuration, read once at
// startup and treated as read-only afterward (§3.4's "no further writes
// to the index" lifecycle applies equally here).
type Config struct {
	Mount      MountSection
	References ReferencesSection
}

// MountSection controls mount.Manager.MountAll's behavior.
type MountSection struct {
	// RuntimeDirectory is the directory MountAll scans for archive files
	// on a Manager built by mount.NewManagerFromConfig. When it is empty,
	// the directory passed to NewManagerFromConfig is used instead.
	RuntimeDirectory string
	// FailOnCyclicParents, if true, makes a cyclic partition-parent
	// graph a hard error at mount time instead of being silently
	// truncated to a single root walk.
	FailOnCyclicParents bool
}

// ReferencesSection controls PackageBuilder's reference-chunk layout.
type ReferencesSection struct {
	// UseLegacyLayout selects the legacy (rrids-then-flags) reference
	// chunk layout for newly-built archives instead of the new
	// (flags-then-rrids) layout.
	UseLegacyLayout bool
}

// Default returns the configuration the library uses when none is
// loaded explicitly.
func Default() Config {
	return Config{
		Mount: MountSection{
			FailOnCyclicParents: true,
		},
	}
}

// Load reads and decodes a TOML configuration file at path. A missing
// file is not an error — it reports the same configuration as Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}
	return cfg, nil
}
