package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/chicken/internal/logger"
	"github.com/glorpus-work/chicken/pkg/errutils"
	"github.com/glorpus-work/chicken/pkg/manifest"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	var (
		force     bool
		addonsDir string
		cacheDir  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a manifest",
		Long:  "Write an empty addon manifest with default settings to the --manifest path.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, force, addonsDir, cacheDir)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing manifest")
	cmd.Flags().StringVar(&addonsDir, "path", manifest.DefaultAddonsDir, "Directory addons are installed into")
	cmd.Flags().StringVar(&cacheDir, "cache", manifest.DefaultCacheDir, "Directory addons are cached in")

	return cmd
}

func runInit(cmd *cobra.Command, force bool, addonsDir, cacheDir string) error {
	path := manifestPath()

	if _, err := os.Stat(path); err == nil && !force {
		return errutils.ErrManifestExists
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check manifest: %w", err)
	}

	m := manifest.DefaultManifest()
	m.AddonsDir = addonsDir
	m.CacheDir = cacheDir
	if err := m.Validate(); err != nil {
		return err
	}
	if err := m.Save(path); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	logger.Success("Manifest created", logger.Fields{"path": m.Path()})
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), m.Path())
	return nil
}
