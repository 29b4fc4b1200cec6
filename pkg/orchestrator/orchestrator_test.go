package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/chicken/pkg/addon"
	"github.com/glorpus-work/chicken/pkg/errutils"
	"github.com/glorpus-work/chicken/pkg/fsutil"
	ocmocks "github.com/glorpus-work/chicken/pkg/orchestrator/mocks"
	"github.com/glorpus-work/chicken/pkg/process"
	procmocks "github.com/glorpus-work/chicken/pkg/process/mocks"
)

var _ AddonManager = (*addon.Manager)(nil)

var cfg = addon.Config{ProjectPath: "/p", CachePath: "/p/.addons", AddonsPath: "/p/addons"}

func required(name string) addon.RequiredAddon {
	return addon.RequiredAddon{
		Name:      name,
		URL:       "git@host:org/" + name + ".git",
		Checkout:  "main",
		Subfolder: "/",
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) hooks() Hooks {
	return Hooks{OnEvent: func(e Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	}}
}

func (r *recorder) phases() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Phase)
	}
	return out
}

func TestInstall_RunsStepsPerAddonInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)
	chicken := required("chicken")

	gomock.InOrder(
		mgr.EXPECT().LoadCache(gomock.Any(), cfg).Return(addon.CacheMap{}, nil),
		mgr.EXPECT().CacheAddon(gomock.Any(), chicken, cfg).Return(nil),
		mgr.EXPECT().DeleteAddon(gomock.Any(), chicken, cfg).Return(nil),
		mgr.EXPECT().CopyAddonFromCache(gomock.Any(), chicken, cfg).Return(nil),
	)

	rec := &recorder{}
	orch := New(mgr, rec.hooks())

	require.NoError(t, orch.Install(context.Background(), cfg, []addon.RequiredAddon{chicken}, InstallOptions{Concurrency: 1}))
	assert.Equal(t, []string{PhaseLoading, PhaseCaching, PhaseRemoving, PhaseCopying, PhaseDone}, rec.phases())
}

func TestInstall_LoadCacheFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)

	mgr.EXPECT().LoadCache(gomock.Any(), cfg).Return(nil, errutils.ErrCommandFailed)

	orch := New(mgr, Hooks{})
	err := orch.Install(context.Background(), cfg, []addon.RequiredAddon{required("chicken")}, InstallOptions{})
	assert.ErrorIs(t, err, errutils.ErrCommandFailed)
}

func TestInstall_DuplicateNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)

	orch := New(mgr, Hooks{})
	err := orch.Install(context.Background(), cfg, []addon.RequiredAddon{required("chicken"), required("chicken")}, InstallOptions{})
	assert.ErrorIs(t, err, errutils.ErrDuplicateAddon)
}

func TestInstall_NoManager(t *testing.T) {
	orch := &Orchestrator{}
	assert.Error(t, orch.Install(context.Background(), cfg, nil, InstallOptions{}))
	assert.Error(t, orch.Uninstall(context.Background(), cfg, nil, UninstallOptions{}))
	_, err := orch.Cache(context.Background(), cfg)
	assert.Error(t, err)
}

func TestInstall_DirtyAddonDoesNotStopOthers(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)
	chicken, egg := required("chicken"), required("egg")

	dirty := &addon.DirtyAddonError{Name: "chicken", Path: "/p/addons/chicken", Changes: " M a.gd\n"}

	mgr.EXPECT().LoadCache(gomock.Any(), cfg).Return(addon.CacheMap{}, nil)
	mgr.EXPECT().CacheAddon(gomock.Any(), chicken, cfg).Return(nil)
	mgr.EXPECT().DeleteAddon(gomock.Any(), chicken, cfg).Return(dirty)
	mgr.EXPECT().CacheAddon(gomock.Any(), egg, cfg).Return(nil)
	mgr.EXPECT().DeleteAddon(gomock.Any(), egg, cfg).Return(nil)
	mgr.EXPECT().CopyAddonFromCache(gomock.Any(), egg, cfg).Return(nil)

	orch := New(mgr, Hooks{})
	err := orch.Install(context.Background(), cfg, []addon.RequiredAddon{chicken, egg}, InstallOptions{Concurrency: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, errutils.ErrAddonDirty)
	assert.Contains(t, err.Error(), "addon chicken")
	assert.NotContains(t, err.Error(), "addon egg")
}

func TestInstall_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)
	chicken, egg := required("chicken"), required("egg")

	mgr.EXPECT().IsCached(chicken, cfg).Return(false)
	mgr.EXPECT().IsInstalled(chicken, cfg).Return(false)
	mgr.EXPECT().IsCached(egg, cfg).Return(true)
	mgr.EXPECT().IsInstalled(egg, cfg).Return(true)

	rec := &recorder{}
	orch := New(mgr, rec.hooks())
	require.NoError(t, orch.Install(context.Background(), cfg, []addon.RequiredAddon{chicken, egg}, InstallOptions{DryRun: true}))

	require.Len(t, rec.events, 3)
	assert.Equal(t, PhasePlanning, rec.events[0].Phase)
	assert.Equal(t, "chicken@main", rec.events[0].ID)
	assert.Contains(t, rec.events[0].Msg, "clone git@host:org/chicken.git")
	assert.NotContains(t, rec.events[1].Msg, "clone")
	assert.Contains(t, rec.events[1].Msg, "replacing")
	assert.Equal(t, Event{Phase: PhaseDone, Msg: "dry-run"}, rec.events[2])
}

// A dry run on a fresh project leaves the disk as it was and spawns nothing.
func TestInstall_DryRunCreatesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := procmocks.NewMockRunner(ctrl)
	mgr := addon.NewManager(runner, fsutil.NewOSFileSystem())

	project := t.TempDir()
	projectCfg := addon.Config{
		ProjectPath: project,
		CachePath:   filepath.Join(project, ".addons"),
		AddonsPath:  filepath.Join(project, "addons"),
	}

	rec := &recorder{}
	orch := New(mgr, rec.hooks())
	require.NoError(t, orch.Install(context.Background(), projectCfg, []addon.RequiredAddon{required("chicken")}, InstallOptions{DryRun: true}))

	assert.NoDirExists(t, projectCfg.CachePath)
	assert.NoDirExists(t, projectCfg.AddonsPath)
	assert.Equal(t, []string{PhasePlanning, PhaseDone}, rec.phases())
}

func TestInstall_RespectsConcurrencyLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)

	addons := []addon.RequiredAddon{required("a"), required("b"), required("c"), required("d"), required("e")}

	var running, peak int32
	mgr.EXPECT().LoadCache(gomock.Any(), cfg).Return(addon.CacheMap{}, nil)
	mgr.EXPECT().CacheAddon(gomock.Any(), gomock.Any(), cfg).DoAndReturn(
		func(context.Context, addon.RequiredAddon, addon.Config) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		}).Times(len(addons))
	mgr.EXPECT().DeleteAddon(gomock.Any(), gomock.Any(), cfg).Return(nil).Times(len(addons))
	mgr.EXPECT().CopyAddonFromCache(gomock.Any(), gomock.Any(), cfg).Return(nil).Times(len(addons))

	orch := New(mgr, Hooks{})
	require.NoError(t, orch.Install(context.Background(), cfg, addons, InstallOptions{Concurrency: 2}))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestUninstall(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)
	chicken, egg := required("chicken"), required("egg")

	mgr.EXPECT().IsInstalled(chicken, cfg).Return(true)
	mgr.EXPECT().DeleteAddon(gomock.Any(), chicken, cfg).Return(nil)
	mgr.EXPECT().IsInstalled(egg, cfg).Return(false)

	rec := &recorder{}
	orch := New(mgr, rec.hooks())
	require.NoError(t, orch.Uninstall(context.Background(), cfg, []addon.RequiredAddon{chicken, egg}, UninstallOptions{Concurrency: 1}))
	assert.Equal(t, []string{PhaseRemoving, PhaseSkipped, PhaseDone}, rec.phases())
}

func TestUninstall_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)
	chicken := required("chicken")

	mgr.EXPECT().IsInstalled(chicken, cfg).Return(true)

	rec := &recorder{}
	orch := New(mgr, rec.hooks())
	require.NoError(t, orch.Uninstall(context.Background(), cfg, []addon.RequiredAddon{chicken}, UninstallOptions{DryRun: true}))
	require.Len(t, rec.events, 2)
	assert.Equal(t, "delete /p/addons/chicken", rec.events[0].Msg)
}

func TestUninstall_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)
	chicken := required("chicken")

	mgr.EXPECT().IsInstalled(chicken, cfg).Return(true)
	mgr.EXPECT().DeleteAddon(gomock.Any(), chicken, cfg).Return(&addon.DirtyAddonError{Name: "chicken"})

	orch := New(mgr, Hooks{})
	err := orch.Uninstall(context.Background(), cfg, []addon.RequiredAddon{chicken}, UninstallOptions{})

	var dirty *addon.DirtyAddonError
	assert.ErrorAs(t, err, &dirty)
}

func TestStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)
	chicken := required("chicken")

	mgr.EXPECT().IsCached(chicken, cfg).Return(true)
	mgr.EXPECT().IsInstalled(chicken, cfg).Return(false)

	orch := New(mgr, Hooks{})
	assert.Equal(t, []AddonStatus{{Addon: chicken, Cached: true}}, orch.Status(cfg, []addon.RequiredAddon{chicken}))
}

func TestCache_SortedEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)

	mgr.EXPECT().LoadCache(gomock.Any(), cfg).Return(addon.CacheMap{
		"u-egg":     "/p/.addons/egg",
		"u-chicken": "/p/.addons/chicken",
	}, nil)

	orch := New(mgr, Hooks{})
	entries, err := orch.Cache(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []CacheEntry{
		{Name: "chicken", Dir: "/p/.addons/chicken", URL: "u-chicken"},
		{Name: "egg", Dir: "/p/.addons/egg", URL: "u-egg"},
	}, entries)
}

func TestCache_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := ocmocks.NewMockAddonManager(ctrl)

	mgr.EXPECT().LoadCache(gomock.Any(), cfg).Return(nil, errors.New("boom"))

	_, err := New(mgr, Hooks{}).Cache(context.Background(), cfg)
	assert.EqualError(t, err, "boom")
}

// Fresh project: the real manager over an in-memory filesystem creates the
// cache, clones and copies, with only the process runner mocked.
func TestInstall_WithAddonManager(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := procmocks.NewMockRunner(ctrl)
	fs := fsutil.NewFileSystem(memfs.New())
	mgr := addon.NewManager(runner, fs)
	chicken := required("chicken")

	ok := &process.Result{}
	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), "/p/.addons", process.ModeStrict,
			"git", "clone", "git@host:org/chicken.git", "--recurse-submodules", "chicken").Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), "/p/.addons/chicken", process.ModeStrict, "git", "checkout", "-f", "main").Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), "/p/.addons/chicken", process.ModeUnchecked, "git", "pull").Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), "/p/.addons/chicken", process.ModeUnchecked,
			"git", "submodule", "update", "--init", "--recursive").Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), "/p", process.ModeStrict,
			"rsync", "-av", "/p/.addons/chicken/", "/p/addons/chicken", "--exclude", ".git").Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), "/p/addons/chicken", process.ModeStrict, "git", "init").Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), "/p/addons/chicken", process.ModeStrict, "git", "add", "-A").Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), "/p/addons/chicken", process.ModeStrict, "git", "commit", "-m", "Initial commit").Return(ok, nil),
	)

	orch := New(mgr, Hooks{})
	require.NoError(t, orch.Install(context.Background(), cfg, []addon.RequiredAddon{chicken}, InstallOptions{}))
	assert.True(t, fs.DirExists("/p/.addons"))
}
