//go:generate mockgen -destination=./mocks/orchestrator.go -package mocks . AddonManager

package orchestrator

import (
	"context"

	"github.com/glorpus-work/chicken/pkg/addon"
)

// AddonManager is the subset of the addon manager used by the orchestrator.
type AddonManager interface {
	LoadCache(ctx context.Context, cfg addon.Config) (addon.CacheMap, error)
	CacheAddon(ctx context.Context, a addon.RequiredAddon, cfg addon.Config) error
	CopyAddonFromCache(ctx context.Context, a addon.RequiredAddon, cfg addon.Config) error
	DeleteAddon(ctx context.Context, a addon.RequiredAddon, cfg addon.Config) error
	IsInstalled(a addon.RequiredAddon, cfg addon.Config) bool
	IsCached(a addon.RequiredAddon, cfg addon.Config) bool
}

// Event phases.
const (
	PhaseLoading  = "loading"
	PhasePlanning = "planning"
	PhaseCaching  = "caching"
	PhaseRemoving = "removing"
	PhaseCopying  = "copying"
	PhaseSkipped  = "skipped"
	PhaseDone     = "done"
	PhaseError    = "error"
)

// Event represents a simple progress notification.
type Event struct {
	Phase string // one of the Phase constants
	ID    string // addon ID (name@checkout)
	Msg   string
}

// Hooks carries callbacks for progress events.
// OnEvent may be called from several goroutines, but never concurrently.
type Hooks struct {
	OnEvent func(Event)
}

// InstallOptions control orchestrator install execution.
type InstallOptions struct {
	Concurrency int
	DryRun      bool
}

// UninstallOptions control orchestrator uninstall execution.
type UninstallOptions struct {
	Concurrency int
	DryRun      bool
}

// AddonStatus describes where an addon currently exists on disk.
type AddonStatus struct {
	Addon     addon.RequiredAddon
	Cached    bool
	Installed bool
}

// CacheEntry is one clone found in the cache directory.
type CacheEntry struct {
	Name string
	Dir  string
	URL  string
}
