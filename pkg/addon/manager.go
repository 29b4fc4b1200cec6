// Package addon installs git-hosted addons into a project.
//
// Every addon is cloned once into a shared cache directory. Installing it
// mirrors a subfolder of that clone into the project's addons directory and
// turns the copy into a fresh, single-commit git repository with no remote.
// That commit is the baseline used to detect local edits before removal.
//
// The Manager holds no state of its own. Directory presence is the only
// signal for "cached" and "installed".
package addon

import (
	"context"
	"strings"

	"github.com/glorpus-work/chicken/internal/logger"
	"github.com/glorpus-work/chicken/pkg/errutils"
	"github.com/glorpus-work/chicken/pkg/fsutil"
	"github.com/glorpus-work/chicken/pkg/process"
)

const (
	gitCommand   = "git"
	rsyncCommand = "rsync"
	rmCommand    = "rm"

	// vcsMetadataDir is excluded when mirroring an addon out of the cache.
	vcsMetadataDir = ".git"

	initialCommitMessage = "Initial commit"
)

// Manager runs the cache, copy and delete operations for single addons.
// It is safe for concurrent use on addons with distinct names.
type Manager struct {
	runner process.Runner
	fs     fsutil.FileSystem
}

// NewManager creates a Manager using runner for external commands and fs for
// directory checks.
func NewManager(runner process.Runner, fs fsutil.FileSystem) *Manager {
	return &Manager{runner: runner, fs: fs}
}

// LoadCache scans the cache directory and returns which remotes are cloned where.
//
// A missing cache directory is created and yields an empty map. Every
// immediate subdirectory must have an "origin" remote; one that doesn't
// fails the whole scan. When two directories report the same remote, the one
// listed last wins.
func (m *Manager) LoadCache(ctx context.Context, cfg Config) (CacheMap, error) {
	cache := CacheMap{}

	if !m.fs.DirExists(cfg.CachePath) {
		logger.Debug("Creating addon cache", logger.Fields{"path": cfg.CachePath})
		if err := m.fs.CreateDirectory(cfg.CachePath); err != nil {
			return nil, errutils.Wrap(err, "failed to create addon cache")
		}
		return cache, nil
	}

	dirs, err := m.fs.ListDirectories(cfg.CachePath)
	if err != nil {
		return nil, errutils.Wrap(err, "failed to read addon cache")
	}

	for _, dir := range dirs {
		res, err := m.run(ctx, dir, process.ModeStrict, gitCommand, "remote", "get-url", "origin")
		if err != nil {
			return nil, errutils.Wrapf(err, "cache entry %s has no origin remote", dir)
		}
		url := res.Output()
		if previous, ok := cache[url]; ok {
			logger.Warn(errutils.ErrDuplicateCacheURL.Error(), logger.Fields{
				"url":      url,
				"ignored":  previous,
				"selected": dir,
			})
		}
		cache[url] = dir
	}

	logger.DebugfWithFields(logger.Fields{"path": cfg.CachePath}, "Loaded %d cached addons", len(cache))
	return cache, nil
}

// CacheAddon clones a into the cache unless a directory named after it is
// already there. An existing directory is trusted as-is.
func (m *Manager) CacheAddon(ctx context.Context, a RequiredAddon, cfg Config) error {
	cachePath := cfg.CachePathFor(a)
	if m.fs.DirExists(cachePath) {
		logger.Debug("Addon already cached", logger.Fields{"addon": a.Name, "path": cachePath})
		return nil
	}

	logger.Info("Caching addon", logger.Fields{"addon": a.Name, "url": a.URL})
	if _, err := m.run(ctx, cfg.CachePath, process.ModeStrict,
		gitCommand, "clone", a.URL, "--recurse-submodules", a.Name); err != nil {
		return errutils.Wrapf(err, "failed to clone addon %s", a.Name)
	}
	return nil
}

// CopyAddonFromCache installs a snapshot of a's subfolder at a.Checkout into
// the project.
//
// The cached clone is force-checked-out to a.Checkout, then refreshed with a
// pull and a submodule update. Both refreshes are best-effort: a detached
// HEAD or an offline machine must not block installing what is already
// cached. The subfolder is then mirrored into the addons directory without
// git metadata and committed as a brand-new repository.
//
// Nothing is rolled back on failure.
func (m *Manager) CopyAddonFromCache(ctx context.Context, a RequiredAddon, cfg Config) error {
	cachePath := cfg.CachePathFor(a)
	addonPath := cfg.AddonPathFor(a)

	if _, err := m.run(ctx, cachePath, process.ModeStrict, gitCommand, "checkout", "-f", a.Checkout); err != nil {
		return errutils.Wrapf(err, "failed to check out %s for addon %s", a.Checkout, a.Name)
	}
	if _, err := m.run(ctx, cachePath, process.ModeUnchecked, gitCommand, "pull"); err != nil {
		return errutils.Wrapf(err, "failed to update addon %s", a.Name)
	}
	if _, err := m.run(ctx, cachePath, process.ModeUnchecked,
		gitCommand, "submodule", "update", "--init", "--recursive"); err != nil {
		return errutils.Wrapf(err, "failed to update submodules of addon %s", a.Name)
	}

	// rsync creates the addon directory but not its parents.
	if !m.fs.DirExists(cfg.AddonsPath) {
		if err := m.fs.CreateDirectory(cfg.AddonsPath); err != nil {
			return errutils.Wrap(err, "failed to create addons directory")
		}
	}

	if _, err := m.run(ctx, cfg.ProjectPath, process.ModeStrict,
		rsyncCommand, "-av", cfg.CopySourceFor(a), addonPath, "--exclude", vcsMetadataDir); err != nil {
		return errutils.Wrapf(err, "failed to copy addon %s into %s", a.Name, addonPath)
	}

	baseline := [][]string{
		{"init"},
		{"add", "-A"},
		{"commit", "-m", initialCommitMessage},
	}
	for _, args := range baseline {
		if _, err := m.run(ctx, addonPath, process.ModeStrict, gitCommand, args...); err != nil {
			return errutils.Wrapf(err, "failed to commit installed addon %s", a.Name)
		}
	}

	logger.Success("Installed addon", logger.Fields{"addon": a.Name, "checkout": a.Checkout, "path": addonPath})
	return nil
}

// DeleteAddon removes a from the project. It does nothing when a is not
// installed and returns a *DirtyAddonError, deleting nothing, when the
// installed copy has uncommitted changes.
func (m *Manager) DeleteAddon(ctx context.Context, a RequiredAddon, cfg Config) error {
	addonPath := cfg.AddonPathFor(a)
	if !m.fs.DirExists(addonPath) {
		return nil
	}

	changes, err := m.localChanges(ctx, addonPath)
	if err != nil {
		return errutils.Wrapf(err, "failed to inspect addon %s", a.Name)
	}
	if changes != "" {
		return &DirtyAddonError{Name: a.Name, Path: addonPath, Changes: changes}
	}

	if _, err := m.run(ctx, cfg.AddonsPath, process.ModeStrict, rmCommand, "-rf", addonPath); err != nil {
		return errutils.Wrapf(err, "failed to delete addon %s", a.Name)
	}
	logger.Info("Deleted addon", logger.Fields{"addon": a.Name, "path": addonPath})
	return nil
}

// IsInstalled reports whether a has a directory in the project's addons path.
func (m *Manager) IsInstalled(a RequiredAddon, cfg Config) bool {
	return m.fs.DirExists(cfg.AddonPathFor(a))
}

// IsCached reports whether a has a clone in the cache directory.
func (m *Manager) IsCached(a RequiredAddon, cfg Config) bool {
	return m.fs.DirExists(cfg.CachePathFor(a))
}

// localChanges returns the porcelain status of the repository at dir.
// The exit code is ignored: only the reported changes matter.
func (m *Manager) localChanges(ctx context.Context, dir string) (string, error) {
	res, err := m.run(ctx, dir, process.ModeUnchecked, gitCommand, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", nil
	}
	return res.Stdout, nil
}

func (m *Manager) run(ctx context.Context, dir string, mode process.Mode, name string, args ...string) (*process.Result, error) {
	logger.Debug("Running command", logger.Fields{
		"dir":     dir,
		"mode":    mode.String(),
		"command": name + " " + strings.Join(args, " "),
	})

	res, err := m.runner.Run(ctx, dir, mode, name, args...)
	if err != nil {
		return res, err
	}
	if mode == process.ModeUnchecked && res != nil && !res.Succeeded() {
		logger.Warn("Best-effort command failed", logger.Fields{
			"dir":       dir,
			"command":   name + " " + strings.Join(args, " "),
			"exit_code": res.ExitCode,
		})
	}
	return res, nil
}
