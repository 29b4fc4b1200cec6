package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the addon cache",
		Long:  "Show the shared clones addons are installed from",
	}

	cmd.AddCommand(
		newCacheListCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached clones",
		Long:  "Scan the cache directory and print each clone with its remote",
		Args:  cobra.NoArgs,
		RunE:  runCacheList,
	}
}

func newCacheDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Long:  "Display the path to the cache directory",
		Args:  cobra.NoArgs,
		RunE:  runCacheDir,
	}
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}

	entries, err := newOrchestrator(cmd.OutOrStdout()).Cache(cmd.Context(), m.ToConfig())
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tURL")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", e.Name, e.URL)
	}
	return w.Flush()
}

func runCacheDir(cmd *cobra.Command, _ []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), m.ToConfig().CachePath)
	return nil
}
