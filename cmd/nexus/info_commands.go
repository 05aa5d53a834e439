package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"nexus/internal/config"
	"nexus/internal/library"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-source library counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				total := 0
				rows := make([][]string, 0, len(stats))
				for _, mechanism := range []library.Mechanism{
					library.MechanismSteam,
					library.MechanismEpic,
					library.MechanismRiot,
					library.MechanismBattleNet,
					library.MechanismStandalone,
					library.MechanismManual,
				} {
					count, ok := stats[mechanism]
					if !ok {
						continue
					}
					total += count
					rows = append(rows, []string{string(mechanism), strconv.Itoa(count)})
				}
				rows = append(rows, []string{"total", strconv.Itoa(total)})

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Source", "Titles"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func newPathsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show resolved data locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Data dir:  %s\n", cfg.Paths.DataDir)
				fmt.Fprintf(out, "Log dir:   %s\n", cfg.Paths.LogDir)
				fmt.Fprintf(out, "Cache dir: %s\n", cfg.Paths.CacheDir)
				fmt.Fprintf(out, "Database:  %s\n", store.Path())
				return nil
			})
		},
	}
}
