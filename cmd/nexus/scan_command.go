package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"nexus/internal/config"
	"nexus/internal/library"
	"nexus/internal/scanservice"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "scan [source]",
		Short: "Discover installed games and refresh the library",
		Long: "Scan runs every configured source, deduplicates the results, " +
			"fetches metadata, and merges everything into the library. " +
			"Pass a source name (steam, epic, riot, battlenet, standalone) " +
			"to scan just that source.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				lock := flock.New(filepath.Join(cfg.Paths.DataDir, "scan.lock"))
				locked, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire scan lock: %w", err)
				}
				if !locked {
					return fmt.Errorf("another scan is already running")
				}
				defer lock.Unlock()

				out := cmd.OutOrStdout()
				if fresh {
					removed, err := store.Clear(cmd.Context())
					if err != nil {
						return fmt.Errorf("clear library: %w", err)
					}
					fmt.Fprintf(out, "Cleared %d entries (manual entries kept)\n", removed)
				}

				service, err := scanservice.New(cfg, store, ctx.logger())
				if err != nil {
					return err
				}

				var lastStage scanservice.Stage
				progress := func(p scanservice.Progress) {
					if p.Stage == lastStage {
						return
					}
					lastStage = p.Stage
					fmt.Fprintf(out, "[%3.0f%%] %s\n", p.Percent, p.Message)
				}

				var entries []*library.Entry
				if len(args) == 1 {
					mechanism, ok := library.ParseMechanism(args[0])
					if !ok {
						return fmt.Errorf("unknown source %q", args[0])
					}
					entries, err = service.ScanSource(cmd.Context(), mechanism, progress)
				} else {
					entries, err = service.ScanAll(cmd.Context(), progress)
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Library now tracks %d scanned titles\n", len(entries))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&fresh, "fresh", false, "Clear scanned entries before scanning (manual entries are kept)")
	return cmd
}
