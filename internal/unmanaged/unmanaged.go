// Package unmanaged loads the operator-supplied glob patterns that mark a
// subset of tables as unmanaged — present in a Schema only as a
// foreign-key target, never a candidate for a destructive statement
// (ir.Schema.Managed, spec.md §3). Grounded on the teacher's
// internal/ignore/loader.go TOML-backed pattern file (".pgschemaignore",
// there scoped to tables/views/functions/procedures/types/sequences);
// narrowed here to tables only, since this schema model has no views,
// procedures or stand-alone sequence entities an operator would need to
// exclude independently of their owning table.
package unmanaged

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/exograph/exoschema/ir"
)

// FileName is the default name of the unmanaged-table pattern file.
const FileName = ".exoschemaignore"

// Config is the parsed pattern file.
type Config struct {
	Tables []string `toml:"tables,omitempty"`
}

type tomlConfig struct {
	Tables tableSection `toml:"tables,omitempty"`
}

type tableSection struct {
	Patterns []string `toml:"patterns,omitempty"`
}

// Load reads FileName from the current directory. A missing file is not
// an error: it returns a nil Config, meaning no table is excluded.
func Load() (*Config, error) {
	return LoadFromPath(FileName)
}

// LoadFromPath reads an unmanaged-pattern file from an explicit path.
func LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var parsed tomlConfig
	if _, err := toml.DecodeFile(path, &parsed); err != nil {
		return nil, err
	}
	return &Config{Tables: parsed.Tables.Patterns}, nil
}

// Matches reports whether tableName matches any configured glob pattern.
// A nil Config matches nothing.
func (c *Config) Matches(tableName string) bool {
	if c == nil {
		return false
	}
	for _, pattern := range c.Tables {
		if ok, _ := filepath.Match(pattern, tableName); ok {
			return true
		}
	}
	return false
}

// Apply removes every table in schema whose local name matches one of
// cfg's patterns from schema.Managed, downgrading it from a
// planner-destructible table to a foreign-key-only reference — the same
// effect ir.Schema.AddUnmanagedTable has, applied after assembly instead
// of during it. A nil cfg is a no-op.
func Apply(schema *ir.Schema, cfg *Config) {
	if cfg == nil {
		return
	}
	for key, table := range schema.Tables {
		if cfg.Matches(table.QName.Name) {
			delete(schema.Managed, key)
		}
	}
}
