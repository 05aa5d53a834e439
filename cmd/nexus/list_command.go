package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"nexus/internal/config"
	"nexus/internal/library"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string
	var favoritesOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				var entries []*library.Entry
				var err error
				switch {
				case favoritesOnly:
					entries, err = store.Favorites(cmd.Context())
				case sourceFlag != "":
					mechanism, ok := library.ParseMechanism(sourceFlag)
					if !ok {
						return fmt.Errorf("unknown source %q", sourceFlag)
					}
					entries, err = store.List(cmd.Context(), mechanism)
				default:
					entries, err = store.List(cmd.Context())
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Library is empty; run `nexus scan` first")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(entry.ID, 10),
						entry.Title,
						string(entry.Mechanism),
						string(entry.Readiness),
						yesNo(entry.Favorite),
						formatLastPlayed(entry.LastPlayed),
						formatPlaytime(entry.PlaySeconds),
					})
				}
				headers := []string{"ID", "Title", "Source", "Status", "Fav", "Last Played", "Playtime"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sourceFlag, "source", "s", "", "Only list entries from one source")
	cmd.Flags().BoolVarP(&favoritesOnly, "favorites", "f", false, "Only list favorites")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one library entry in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				entry, err := lookupEntry(cmd, store, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Title:       %s\n", entry.Title)
				fmt.Fprintf(out, "Source:      %s\n", entry.Mechanism)
				if entry.MechanismID != "" {
					fmt.Fprintf(out, "Source ID:   %s\n", entry.MechanismID)
				}
				fmt.Fprintf(out, "Status:      %s\n", entry.Readiness)
				if entry.InstallPath != "" {
					fmt.Fprintf(out, "Installed:   %s\n", entry.InstallPath)
				}
				if entry.ExecutablePath != "" {
					fmt.Fprintf(out, "Executable:  %s\n", entry.ExecutablePath)
				}
				fmt.Fprintf(out, "Developer:   %s\n", entry.Developer)
				fmt.Fprintf(out, "Favorite:    %s\n", yesNo(entry.Favorite))
				fmt.Fprintf(out, "Last played: %s\n", formatLastPlayed(entry.LastPlayed))
				fmt.Fprintf(out, "Playtime:    %s\n", formatPlaytime(entry.PlaySeconds))
				if entry.CoverURL != "" {
					fmt.Fprintf(out, "Cover:       %s\n", entry.CoverURL)
				}
				if entry.Description != "" {
					fmt.Fprintf(out, "\n%s\n", entry.Description)
				}
				return nil
			})
		},
	}
}

func lookupEntry(cmd *cobra.Command, store *library.Store, arg string) (*library.Entry, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid entry id %q", arg)
	}
	entry, err := store.GetByID(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("no entry with id %d", id)
	}
	return entry, nil
}

func formatLastPlayed(value *time.Time) string {
	if value == nil {
		return "never"
	}
	return value.Local().Format("2006-01-02 15:04")
}

func formatPlaytime(seconds int64) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds) * time.Second
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
