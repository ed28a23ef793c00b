package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"goose/internal/config"
	"goose/internal/profile"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by -o.
const (
	FormatInfo = "info"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ConfigPath returns the value of the root --config flag.
func ConfigPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

// Load reads the config file and the profiles file it points to.
func Load(configPath string) (*config.Config, config.Profiles, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	profiles, err := config.LoadProfiles(cfg.ProfilesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading profiles: %w", err)
	}
	return cfg, profiles, nil
}

// RenderProfile writes p to w in the given format.
func RenderProfile(w io.Writer, p *profile.Profile, format string) error {
	switch format {
	case "", FormatInfo:
		_, err := fmt.Fprintln(w, p.Info())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p.Document())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p.Document()); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(p.Document())
	default:
		return fmt.Errorf("unknown output format %q (want info, json, yaml or toml)", format)
	}
}
