package profile

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"goose/internal/cli"
	"goose/internal/config"
	pf "goose/internal/profile"

	"github.com/spf13/cobra"
)

var (
	output      string
	provider    string
	processor   string
	accelerator string
)

var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and validate session profiles",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, profiles, err := cli.Load(cli.ConfigPath(cmd))
		if err != nil {
			return err
		}
		return runList(cmd.OutOrStdout(), cfg, profiles)
	},
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, profiles, err := cli.Load(cli.ConfigPath(cmd))
		if err != nil {
			return err
		}
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		p, err := config.ResolveProfile(cfg, profiles, name)
		if err != nil {
			return err
		}
		return cli.RenderProfile(cmd.OutOrStdout(), p, output)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a profiles file",
	Long:  "Validate a profiles file (YAML, or TOML by .toml extension). Defaults to the configured profiles_path.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := config.Load(cli.ConfigPath(cmd))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			path = cfg.ProfilesPath
		}
		return runValidate(cmd.OutOrStdout(), path)
	},
}

var defaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the stock profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cli.ConfigPath(cmd))
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		d := cfg.Defaults
		if provider != "" {
			d.Provider = provider
		}
		if processor != "" {
			d.Processor = processor
		}
		if accelerator != "" {
			d.Accelerator = accelerator
		}
		return cli.RenderProfile(cmd.OutOrStdout(), pf.Default(d.Provider, d.Processor, d.Accelerator, d.Extra), output)
	},
}

func init() {
	Cmd.PersistentFlags().StringVarP(&output, "output", "o", cli.FormatInfo, "output format: info, json, yaml, toml")

	defaultCmd.Flags().StringVar(&provider, "provider", "", "provider (defaults to config)")
	defaultCmd.Flags().StringVar(&processor, "processor", "", "processor model (defaults to config)")
	defaultCmd.Flags().StringVar(&accelerator, "accelerator", "", "accelerator model (defaults to config)")

	Cmd.AddCommand(listCmd, showCmd, validateCmd, defaultCmd)
}

func runList(w io.Writer, cfg *config.Config, profiles config.Profiles) error {
	names := profiles.Names()
	if !slices.Contains(names, "default") {
		names = append([]string{"default"}, names...)
	}
	for _, name := range names {
		p, err := config.ResolveProfile(cfg, profiles, name)
		if err != nil {
			return err
		}
		marker := " "
		if name == cfg.DefaultProfile {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\t%s\n", marker, name, p.Info())
	}
	return nil
}

func runValidate(w io.Writer, path string) error {
	profiles, err := config.LoadProfiles(path)
	if err != nil {
		slog.Error("profiles invalid", "path", path, "error", err)
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintf(w, "%s: no profiles\n", path)
		return nil
	}
	for _, name := range profiles.Names() {
		fmt.Fprintf(w, "ok %s: %s\n", name, profiles[name].Info())
	}
	return nil
}
