package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/chicken/pkg/orchestrator"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		dryRun      bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "install [ADDON...]",
		Short: "Install addons",
		Long: `Install addons declared in the manifest, or all of them when none are named.

Each addon is cloned into the cache if needed, checked out at its declared
reference and copied into the addons directory as a fresh git repository.
An installed addon with local changes is left alone and reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args, dryRun, concurrency)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print actions without executing")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of addons processed in parallel (0=manifest setting)")

	return cmd
}

func runInstall(cmd *cobra.Command, names []string, dryRun bool, concurrency int) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}

	addons, err := m.Select(names...)
	if err != nil {
		return err
	}
	if len(addons) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No addons declared")
		return nil
	}

	orch := newOrchestrator(cmd.OutOrStdout())
	opts := orchestrator.InstallOptions{Concurrency: concurrencyFor(concurrency, m), DryRun: dryRun}
	if err := orch.Install(cmd.Context(), m.ToConfig(), addons, opts); err != nil {
		return fmt.Errorf("failed to install addons: %w", err)
	}
	return nil
}
