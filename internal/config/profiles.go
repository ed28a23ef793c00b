package config

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"goose/internal/profile"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Profiles holds the validated profiles of a profiles file, by name.
type Profiles map[string]*profile.Profile

// Names returns the profile names in sorted order.
func (ps Profiles) Names() []string {
	return slices.Sorted(maps.Keys(ps))
}

// LoadProfiles reads a profiles file mapping names to profile documents.
// Files ending in .toml are TOML, anything else is YAML. A missing file
// yields no profiles; any invalid profile fails the whole load.
func LoadProfiles(path string) (Profiles, error) {
	path = expandHome(path)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("no profiles file", "path", path)
		return Profiles{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profiles %s: %w", path, err)
	}
	return ParseProfiles(data, filepath.Ext(path))
}

// ParseProfiles decodes profiles from data in the format named by ext.
func ParseProfiles(data []byte, ext string) (Profiles, error) {
	docs := map[string]profile.Document{}
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), &docs); err != nil {
			return nil, fmt.Errorf("parsing profiles: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("parsing profiles: %w", err)
		}
	}

	out := make(Profiles, len(docs))
	for _, name := range slices.Sorted(maps.Keys(docs)) {
		p, err := profile.FromDocument(docs[name])
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		out[name] = p
		slog.Debug("profile loaded", "name", name, "info", p.Info())
	}
	return out, nil
}

// ResolveProfile returns the named profile. When name is empty or
// "default" and no such profile is configured, the stock profile built from
// cfg.Defaults is returned.
func ResolveProfile(cfg *Config, profiles Profiles, name string) (*profile.Profile, error) {
	if name == "" {
		name = cfg.DefaultProfile
	}
	if name == "" {
		name = "default"
	}
	if p, ok := profiles[name]; ok {
		return p, nil
	}
	if name == "default" {
		d := cfg.Defaults
		return profile.Default(d.Provider, d.Processor, d.Accelerator, d.Extra), nil
	}
	return nil, fmt.Errorf("unknown profile %q (known: %s)", name, strings.Join(profiles.Names(), ", "))
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
