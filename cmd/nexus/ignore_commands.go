package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nexus/internal/config"
	"nexus/internal/library"
	"nexus/internal/titles"
)

func newIgnoreCommand(ctx *commandContext) *cobra.Command {
	ignoreCmd := &cobra.Command{
		Use:   "ignore",
		Short: "Manage titles excluded from scans",
	}

	ignoreCmd.AddCommand(newIgnoreAddCommand(ctx))
	ignoreCmd.AddCommand(newIgnoreListCommand(ctx))
	ignoreCmd.AddCommand(newIgnoreRemoveCommand(ctx))

	return ignoreCmd
}

func newIgnoreAddCommand(ctx *commandContext) *cobra.Command {
	var keepEntry bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Ignore a title in future scans",
		Long: "Ignored titles are dropped during scans regardless of which " +
			"source finds them. The matching library entry is removed unless " +
			"--keep is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			normalized := titles.Normalize(title)
			if normalized == "" {
				return fmt.Errorf("title %q normalizes to nothing", title)
			}
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				existing, err := store.FindByNormalizedTitle(cmd.Context(), normalized)
				if err != nil {
					return err
				}

				canonicalKey := ""
				if existing != nil {
					canonicalKey = existing.CanonicalKey
				}
				if err := store.AddIgnored(cmd.Context(), title, normalized, canonicalKey); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Ignoring %q\n", title)
				if existing != nil && !keepEntry {
					if _, err := store.Remove(cmd.Context(), existing.ID); err != nil {
						return err
					}
					fmt.Fprintf(out, "Removed existing entry %q\n", existing.Title)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&keepEntry, "keep", false, "Keep the existing library entry")
	return cmd
}

func newIgnoreListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ignored titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				ignored, err := store.ListIgnored(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(ignored) == 0 {
					fmt.Fprintln(out, "No ignored titles")
					return nil
				}
				rows := make([][]string, 0, len(ignored))
				for _, item := range ignored {
					rows = append(rows, []string{
						item.Title,
						item.IgnoredAt.Local().Format("2006-01-02"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Title", "Ignored"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newIgnoreRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <title>",
		Short: "Stop ignoring a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized := titles.Normalize(args[0])
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				removed, err := store.RemoveIgnored(cmd.Context(), normalized)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("%q was not ignored", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "No longer ignoring %q; it may return on the next scan\n", args[0])
				return nil
			})
		},
	}
}
