// Package orchestrator drives the addon manager over a whole manifest:
// it loads the cache once, then installs or removes many addons with bounded
// concurrency, reporting progress through Hooks.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/glorpus-work/chicken/internal/logger"
	"github.com/glorpus-work/chicken/pkg/addon"
	"github.com/glorpus-work/chicken/pkg/errutils"
)

// DefaultConcurrency is used when options leave Concurrency unset.
const DefaultConcurrency = 4

// Orchestrator runs addon operations for a set of addons.
type Orchestrator struct {
	Addons AddonManager
	Hooks  Hooks // Hooks for progress and event notifications

	mu sync.Mutex
}

// New creates an Orchestrator over mgr.
func New(mgr AddonManager, hooks Hooks) *Orchestrator {
	return &Orchestrator{Addons: mgr, Hooks: hooks}
}

func (o *Orchestrator) emit(e Event) {
	if o.Hooks.OnEvent == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Hooks.OnEvent(e)
}

// Install makes every addon in addons match its declaration.
//
// The cache is scanned once. Each addon is then cloned if missing, its
// installed copy removed, and a fresh copy made from the cache. Addons are
// processed concurrently; a failing addon does not stop the others and all
// failures are returned joined. An edited installed copy fails with
// errutils.ErrAddonDirty and is left untouched.
//
// With DryRun set the plan is reported from directory checks alone and
// nothing is created or run.
func (o *Orchestrator) Install(ctx context.Context, cfg addon.Config, addons []addon.RequiredAddon, opts InstallOptions) error {
	if o.Addons == nil {
		return fmt.Errorf("addon manager is not configured")
	}
	if err := checkUnique(addons); err != nil {
		return err
	}

	// A dry run only inspects directories; scanning the cache would create it.
	if opts.DryRun {
		for _, a := range addons {
			o.emit(Event{Phase: PhasePlanning, ID: a.ID(), Msg: o.describeInstall(a, cfg)})
		}
		o.emit(Event{Phase: PhaseDone, Msg: "dry-run"})
		return nil
	}

	o.emit(Event{Phase: PhaseLoading, Msg: cfg.CachePath})
	cache, err := o.Addons.LoadCache(ctx, cfg)
	if err != nil {
		o.emit(Event{Phase: PhaseError, Msg: err.Error()})
		return err
	}

	for _, a := range addons {
		if dir, ok := cache.Lookup(a.URL); ok && dir != cfg.CachePathFor(a) {
			logger.Warn("Remote is already cached under another name", logger.Fields{
				"addon":  a.Name,
				"url":    a.URL,
				"cached": dir,
			})
		}
	}

	err = o.forEach(addons, opts.Concurrency, func(a addon.RequiredAddon) error {
		return o.installOne(ctx, a, cfg)
	})
	if err != nil {
		o.emit(Event{Phase: PhaseError, Msg: err.Error()})
		return err
	}
	o.emit(Event{Phase: PhaseDone})
	return nil
}

func (o *Orchestrator) installOne(ctx context.Context, a addon.RequiredAddon, cfg addon.Config) error {
	o.emit(Event{Phase: PhaseCaching, ID: a.ID(), Msg: a.URL})
	if err := o.Addons.CacheAddon(ctx, a, cfg); err != nil {
		return err
	}
	o.emit(Event{Phase: PhaseRemoving, ID: a.ID(), Msg: cfg.AddonPathFor(a)})
	if err := o.Addons.DeleteAddon(ctx, a, cfg); err != nil {
		return err
	}
	o.emit(Event{Phase: PhaseCopying, ID: a.ID(), Msg: cfg.AddonPathFor(a)})
	return o.Addons.CopyAddonFromCache(ctx, a, cfg)
}

func (o *Orchestrator) describeInstall(a addon.RequiredAddon, cfg addon.Config) string {
	msg := "copy " + a.Subfolder + " into " + cfg.AddonPathFor(a)
	if !o.Addons.IsCached(a, cfg) {
		msg = "clone " + a.URL + ", " + msg
	}
	if o.Addons.IsInstalled(a, cfg) {
		msg += " (replacing the installed copy)"
	}
	return msg
}

// Uninstall removes the installed copies of addons. Addons that are not
// installed are skipped. Cached clones are kept.
func (o *Orchestrator) Uninstall(ctx context.Context, cfg addon.Config, addons []addon.RequiredAddon, opts UninstallOptions) error {
	if o.Addons == nil {
		return fmt.Errorf("addon manager is not configured")
	}
	if err := checkUnique(addons); err != nil {
		return err
	}

	err := o.forEach(addons, opts.Concurrency, func(a addon.RequiredAddon) error {
		if !o.Addons.IsInstalled(a, cfg) {
			o.emit(Event{Phase: PhaseSkipped, ID: a.ID(), Msg: "not installed"})
			return nil
		}
		if opts.DryRun {
			o.emit(Event{Phase: PhasePlanning, ID: a.ID(), Msg: "delete " + cfg.AddonPathFor(a)})
			return nil
		}
		o.emit(Event{Phase: PhaseRemoving, ID: a.ID(), Msg: cfg.AddonPathFor(a)})
		return o.Addons.DeleteAddon(ctx, a, cfg)
	})
	if err != nil {
		o.emit(Event{Phase: PhaseError, Msg: err.Error()})
		return err
	}
	if opts.DryRun {
		o.emit(Event{Phase: PhaseDone, Msg: "dry-run"})
	} else {
		o.emit(Event{Phase: PhaseDone})
	}
	return nil
}

// Status reports where each addon exists on disk. It runs no commands.
func (o *Orchestrator) Status(cfg addon.Config, addons []addon.RequiredAddon) []AddonStatus {
	statuses := make([]AddonStatus, 0, len(addons))
	for _, a := range addons {
		statuses = append(statuses, AddonStatus{
			Addon:     a,
			Cached:    o.Addons.IsCached(a, cfg),
			Installed: o.Addons.IsInstalled(a, cfg),
		})
	}
	return statuses
}

// Cache lists the clones in the cache directory sorted by name.
func (o *Orchestrator) Cache(ctx context.Context, cfg addon.Config) ([]CacheEntry, error) {
	if o.Addons == nil {
		return nil, fmt.Errorf("addon manager is not configured")
	}
	cache, err := o.Addons.LoadCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	entries := make([]CacheEntry, 0, len(cache))
	for url, dir := range cache {
		entries = append(entries, CacheEntry{Name: filepath.Base(dir), Dir: dir, URL: url})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// forEach runs fn for every addon with at most concurrency running at once.
// Every addon is attempted; failures are wrapped with the addon name and joined.
func (o *Orchestrator) forEach(addons []addon.RequiredAddon, concurrency int, fn func(addon.RequiredAddon) error) error {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	var g errgroup.Group
	errs := make([]error, len(addons))
	g.SetLimit(concurrency)

	for i, a := range addons {
		g.Go(func() error {
			if err := fn(a); err != nil {
				o.emit(Event{Phase: PhaseError, ID: a.ID(), Msg: err.Error()})
				errs[i] = errutils.Wrapf(err, "addon %s", a.Name)
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// checkUnique rejects two addons with the same name, since they would share
// a cache directory and an install target.
func checkUnique(addons []addon.RequiredAddon) error {
	seen := make(map[string]bool, len(addons))
	for _, a := range addons {
		if seen[a.Name] {
			return errutils.ErrDuplicateAddonWithName(a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}
