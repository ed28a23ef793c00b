package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"goose/internal/cli"
	"goose/internal/config"
	"goose/internal/db"
	"goose/internal/observer"
	"goose/internal/profile"
	"goose/internal/sessions"

	"github.com/spf13/cobra"
)

var (
	profileName string
	output      string
	limit       int
)

var Cmd = &cobra.Command{
	Use:   "session",
	Short: "Start and inspect recorded sessions",
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a session with a profile and record it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, profiles, err := cli.Load(cli.ConfigPath(cmd))
		if err != nil {
			return err
		}
		name := profileName
		if name == "" {
			name = cfg.DefaultProfile
		}
		p, err := config.ResolveProfile(cfg, profiles, name)
		if err != nil {
			return err
		}

		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		sess, err := runStart(ctx, observer.NewRegistry(), store, cfg, name, p)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sess.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cli.ConfigPath(cmd))
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		return runList(cmd.Context(), cmd.OutOrStdout(), store, limit)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the profile a session ran with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cli.ConfigPath(cmd))
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		sess, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return cli.RenderProfile(cmd.OutOrStdout(), sess.Profile, output)
	},
}

func init() {
	startCmd.Flags().StringVarP(&profileName, "profile", "p", "", "profile name (defaults to default_profile)")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of sessions")
	showCmd.Flags().StringVarP(&output, "output", "o", cli.FormatInfo, "output format: info, json, yaml, toml")

	Cmd.AddCommand(startCmd, listCmd, showCmd)
}

func openStore(cfg *config.Config) (*sessions.Store, func(), error) {
	database, err := db.OpenMigrated(cfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return sessions.NewStore(database), func() { database.Close() }, nil
}

// runStart starts the profile's observers, records the session and emits a
// session.start span describing the profile.
func runStart(ctx context.Context, registry *observer.Registry, store *sessions.Store, cfg *config.Config, name string, p *profile.Profile) (sessions.Session, error) {
	shutdown, err := registry.Start(ctx, p, cfg)
	if err != nil {
		return sessions.Session{}, fmt.Errorf("starting observers: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			slog.Warn("observer shutdown failed", "error", err)
		}
	}()

	ctx, span := observer.Tracer().Start(ctx, "session.start")
	defer span.End()
	span.SetAttributes(observer.ProfileAttributes(p)...)

	sess, err := store.Start(ctx, name, p)
	if err != nil {
		span.RecordError(err)
		return sessions.Session{}, err
	}
	slog.Info("profile in use", "session_id", sess.ID, "info", p.Info())
	return sess, nil
}

func runList(ctx context.Context, w io.Writer, store *sessions.Store, limit int) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}
	list, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.CreatedAt.Format(time.RFC3339), s.ProfileName, s.Profile.Info())
	}
	return nil
}
