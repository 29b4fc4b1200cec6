package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/chicken/internal/cli"
	"github.com/glorpus-work/chicken/pkg/manifest"
)

var (
	manifestPath string
	verbose      bool
	logFormat    string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chicken",
		Short: "A git-backed addon manager",
		Long: `chicken installs addons from git repositories into a project:
- addons are declared in a manifest (addons.json)
- each addon is cloned once into a shared cache
- installed copies are standalone git repositories, so local edits are never lost`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			cli.InitLogging()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", manifest.DefaultFileName, "manifest file path")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	// Set up CLI pkg variables
	cli.ManifestPath = &manifestPath
	cli.Verbose = &verbose
	cli.LogFormat = &logFormat

	// Add subcommands
	cmd.AddCommand(
		cli.NewInitCmd(),
		cli.NewAddCmd(),
		cli.NewRemoveCmd(),
		cli.NewInstallCmd(),
		cli.NewUninstallCmd(),
		cli.NewListCmd(),
		cli.NewCacheCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
