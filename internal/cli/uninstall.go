package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/chicken/pkg/orchestrator"
)

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cobra.Command {
	var (
		dryRun      bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "uninstall ADDON...",
		Short: "Uninstall addons",
		Long: `Remove installed addons from the addons directory.
An addon with uncommitted changes is kept. The cached clone is never removed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(cmd, args, dryRun, concurrency)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print actions without executing")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of addons processed in parallel (0=manifest setting)")

	return cmd
}

func runUninstall(cmd *cobra.Command, names []string, dryRun bool, concurrency int) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}

	addons, err := m.Select(names...)
	if err != nil {
		return err
	}

	orch := newOrchestrator(cmd.OutOrStdout())
	opts := orchestrator.UninstallOptions{Concurrency: concurrencyFor(concurrency, m), DryRun: dryRun}
	if err := orch.Uninstall(cmd.Context(), m.ToConfig(), addons, opts); err != nil {
		return fmt.Errorf("failed to uninstall addons: %w", err)
	}
	return nil
}
