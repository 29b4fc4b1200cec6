package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List declared addons",
		Long:  "Show every addon in the manifest and whether it is cached and installed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}

	addons := m.RequiredAddons()
	if len(addons) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No addons declared")
		return nil
	}

	statuses := newOrchestrator(cmd.OutOrStdout()).Status(m.ToConfig(), addons)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCHECKOUT\tSTATUS\tURL")
	for _, s := range statuses {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Addon.Name, s.Addon.Checkout, statusLabel(s.Cached, s.Installed), s.Addon.URL)
	}
	return w.Flush()
}

func statusLabel(cached, installed bool) string {
	switch {
	case installed:
		return "installed"
	case cached:
		return "cached"
	default:
		return "missing"
	}
}
