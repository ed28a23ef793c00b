package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	LogLevel       string                     `toml:"log_level"`
	DefaultProfile string                     `toml:"default_profile"`
	ProfilesPath   string                     `toml:"profiles_path"`
	Defaults       DefaultsConfig             `toml:"defaults"`
	Observers      map[string]*ObserverConfig `toml:"observer"`
	DB             DBConfig                   `toml:"db"`
}

// DefaultsConfig feeds profile.Default when no profile of the requested name
// is configured.
type DefaultsConfig struct {
	Provider    string         `toml:"provider"`
	Processor   string         `toml:"processor"`
	Accelerator string         `toml:"accelerator"`
	Extra       map[string]any `toml:"extra"`
}

type ObserverConfig struct {
	Endpoint  string `toml:"endpoint"`
	URLPath   string `toml:"url_path"`
	PublicKey string `toml:"public_key"`
	SecretKey string `toml:"secret_key"`
	Insecure  bool   `toml:"insecure"`
}

type DBConfig struct {
	Path string `toml:"path"`
}

// Load reads the config file at path over the built-in defaults. An empty
// path means the user config dir; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DefaultProfile: "default",
		ProfilesPath:   filepath.Join(configDir(), "profiles.yaml"),
		Defaults: DefaultsConfig{
			Provider:    "openai",
			Processor:   "gpt-4o",
			Accelerator: "gpt-4o-mini",
		},
		Observers: map[string]*ObserverConfig{},
		DB: DBConfig{
			Path: defaultDBPath(),
		},
	}

	if path == "" {
		path = filepath.Join(configDir(), "config.toml")
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Observer returns the settings for the named observer, never nil.
func (c *Config) Observer(name string) ObserverConfig {
	if oc, ok := c.Observers[name]; ok && oc != nil {
		return *oc
	}
	return ObserverConfig{}
}

func configDir() string {
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "goose")
}

func defaultDBPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, ".local", "share", "goose", "goose.db")
}
