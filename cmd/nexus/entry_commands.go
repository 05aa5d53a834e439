package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nexus/internal/config"
	"nexus/internal/library"
	"nexus/internal/titles"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var installPath string
	var executable string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a manual library entry",
		Long: "Add registers a game that no scanner covers. Manual entries " +
			"are never pruned or cleared by scans.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			if title == "" {
				return fmt.Errorf("title must not be empty")
			}
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				normalized := titles.Normalize(title)
				existing, err := store.FindByNormalizedTitle(cmd.Context(), normalized)
				if err != nil {
					return err
				}
				if existing != nil {
					return fmt.Errorf("%q is already in the library (entry %d)", existing.Title, existing.ID)
				}

				readiness := library.ReadinessMissing
				if executable != "" {
					if _, err := os.Stat(executable); err == nil {
						readiness = library.ReadinessReady
					}
				}

				entry := &library.Entry{
					Title:           title,
					CanonicalKey:    titles.CanonicalKey(string(library.MechanismManual), title),
					NormalizedTitle: normalized,
					Mechanism:       library.MechanismManual,
					InstallPath:     installPath,
					ExecutablePath:  executable,
					Readiness:       readiness,
				}
				if err := store.Save(cmd.Context(), entry); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q as entry %d\n", title, entry.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&installPath, "path", "", "Install directory")
	cmd.Flags().StringVar(&executable, "exe", "", "Executable to launch")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a library entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				entry, err := lookupEntry(cmd, store, args[0])
				if err != nil {
					return err
				}
				if _, err := store.Remove(cmd.Context(), entry.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", entry.Title)
				return nil
			})
		},
	}
}

func newFavoriteCommand(ctx *commandContext) *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Mark a library entry as a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				entry, err := lookupEntry(cmd, store, args[0])
				if err != nil {
					return err
				}
				if _, err := store.SetFavorite(cmd.Context(), entry.ID, !unset); err != nil {
					return err
				}
				if unset {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from favorites\n", entry.Title)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as a favorite\n", entry.Title)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&unset, "remove", false, "Remove the favorite flag instead")
	return cmd
}

func newPlayedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "played <id> [duration]",
		Short: "Record a play session",
		Long: "Played stamps the entry's last-played time and, when a " +
			"duration such as 90m or 1h30m is given, adds it to the " +
			"accumulated playtime.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var played time.Duration
			if len(args) == 2 {
				parsed, err := time.ParseDuration(args[1])
				if err != nil || parsed < 0 {
					return fmt.Errorf("invalid duration %q", args[1])
				}
				played = parsed
			}
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				entry, err := lookupEntry(cmd, store, args[0])
				if err != nil {
					return err
				}
				if err := store.RecordLaunch(cmd.Context(), entry.ID, played); err != nil {
					return fmt.Errorf("record session: %w", err)
				}
				if played > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s of %q\n", played, entry.Title)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as played\n", entry.Title)
				}
				return nil
			})
		},
	}
}
