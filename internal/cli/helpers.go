package cli

import (
	"fmt"
	"io"

	"github.com/glorpus-work/chicken/internal/logger"
	"github.com/glorpus-work/chicken/pkg/addon"
	"github.com/glorpus-work/chicken/pkg/fsutil"
	"github.com/glorpus-work/chicken/pkg/manifest"
	"github.com/glorpus-work/chicken/pkg/orchestrator"
	"github.com/glorpus-work/chicken/pkg/process"
)

// These variables will be set by the main package
var (
	ManifestPath *string
	Verbose      *bool
	LogFormat    *string
)

// newAddonManager builds the manager commands run against. Tests replace it.
var newAddonManager = func() orchestrator.AddonManager {
	return addon.NewManager(process.NewExecRunner(), fsutil.NewOSFileSystem())
}

func manifestPath() string {
	if ManifestPath != nil && *ManifestPath != "" {
		return *ManifestPath
	}
	return manifest.DefaultFileName
}

// InitLogging configures the logger from the global flags. The manifest's
// log level applies later unless --verbose was given.
func InitLogging() {
	logger.InitLogger(logLevel(""), logFormat())
}

func logLevel(fromManifest string) string {
	if Verbose != nil && *Verbose {
		return "debug"
	}
	if fromManifest != "" {
		return fromManifest
	}
	return manifest.DefaultLogLevel
}

func logFormat() logger.OutputFormat {
	if LogFormat != nil && *LogFormat == string(logger.FormatJSON) {
		return logger.FormatJSON
	}
	return logger.FormatText
}

// loadManifest reads the manifest named by --manifest and applies its
// logging settings.
func loadManifest() (*manifest.Manifest, error) {
	m, err := manifest.LoadManifest(manifestPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	logger.InitLogger(logLevel(m.Settings.LogLevel), logFormat())
	logger.Debug("Loaded manifest", logger.Fields{"path": m.Path(), "addons": len(m.Addons)})
	return m, nil
}

// concurrencyFor prefers an explicit flag value over the manifest setting.
func concurrencyFor(flag int, m *manifest.Manifest) int {
	if flag > 0 {
		return flag
	}
	return m.Settings.Concurrency
}

// progressHooks prints orchestrator events in a human-friendly form.
func progressHooks(out io.Writer) orchestrator.Hooks {
	return orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		switch {
		case e.ID != "" && e.Msg != "":
			_, _ = fmt.Fprintf(out, "%s: %s (%s)\n", e.Phase, e.Msg, e.ID)
		case e.ID != "":
			_, _ = fmt.Fprintf(out, "%s: %s\n", e.Phase, e.ID)
		case e.Msg != "":
			_, _ = fmt.Fprintf(out, "%s: %s\n", e.Phase, e.Msg)
		default:
			_, _ = fmt.Fprintln(out, e.Phase)
		}
	}}
}

func newOrchestrator(out io.Writer) *orchestrator.Orchestrator {
	return orchestrator.New(newAddonManager(), progressHooks(out))
}
