package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/chicken/internal/logger"
	"github.com/glorpus-work/chicken/pkg/orchestrator"
)

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "remove NAME...",
		Short: "Remove addons from the manifest",
		Long: `Remove addons from the manifest and uninstall them.
An installed addon with local changes stops the removal unless --keep-files is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args, keep)
		},
	}

	cmd.Flags().BoolVar(&keep, "keep-files", false, "Only edit the manifest, leave installed files in place")

	return cmd
}

func runRemove(cmd *cobra.Command, names []string, keep bool) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}

	addons, err := m.Select(names...)
	if err != nil {
		return err
	}

	var uninstallErr error
	if !keep {
		orch := newOrchestrator(cmd.OutOrStdout())
		cfg := m.ToConfig()
		opts := orchestrator.UninstallOptions{Concurrency: m.Settings.Concurrency}
		if err := orch.Uninstall(cmd.Context(), cfg, addons, opts); err != nil {
			uninstallErr = fmt.Errorf("failed to uninstall addons: %w", err)
			// Addons that are gone from disk still leave the manifest.
			removed := addons[:0:0]
			for _, a := range addons {
				if !orch.Addons.IsInstalled(a, cfg) {
					removed = append(removed, a)
				}
			}
			addons = removed
		}
	}

	if len(addons) == 0 {
		return uninstallErr
	}
	for _, a := range addons {
		m.RemoveAddon(a.Name)
		logger.Info("Addon removed from manifest", logger.Fields{"addon": a.Name})
	}
	if err := m.Save(m.Path()); err != nil {
		return errors.Join(uninstallErr, fmt.Errorf("failed to save manifest: %w", err))
	}
	return uninstallErr
}
