package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/chicken/internal/logger"
	"github.com/glorpus-work/chicken/pkg/manifest"
)

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	var (
		checkout  string
		subfolder string
	)

	cmd := &cobra.Command{
		Use:   "add NAME URL",
		Short: "Declare an addon",
		Long: `Add an addon to the manifest. Nothing is fetched until install runs.

NAME is the directory the addon gets in the cache and in the addons directory.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runAdd(args[0], manifest.Entry{URL: args[1], Checkout: checkout, Subfolder: subfolder})
		},
	}

	cmd.Flags().StringVar(&checkout, "checkout", manifest.DefaultCheckout, "Branch, tag or commit to install")
	cmd.Flags().StringVar(&subfolder, "subfolder", manifest.DefaultSubfolder, "Folder inside the repository to install")

	return cmd
}

func runAdd(name string, entry manifest.Entry) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}
	if err := m.AddAddon(name, entry); err != nil {
		return err
	}
	if err := m.Save(m.Path()); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}
	logger.Success("Addon added", logger.Fields{"addon": name, "url": entry.URL})
	return nil
}
