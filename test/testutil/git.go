// Package testutil builds real git repositories for integration tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/chicken/pkg/fsutil"
	"github.com/glorpus-work/chicken/pkg/process"
)

// RequireTools skips the test when any of the named commands is unavailable.
func RequireTools(t *testing.T, names ...string) {
	t.Helper()
	runner := process.NewExecRunner()
	for _, name := range names {
		if _, err := runner.Run(context.Background(), t.TempDir(), process.ModeUnchecked, name, "--version"); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}
}

// SetGitIdentity gives commits made during the test a fixed author, so they
// do not depend on the user's git configuration.
func SetGitIdentity(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "chicken test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "chicken test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("HOME", t.TempDir())
}

// Git runs git in dir and returns its trimmed stdout, failing the test on error.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	res, err := process.NewExecRunner().Run(context.Background(), dir, process.ModeStrict, "git", args...)
	require.NoError(t, err)
	return res.Output()
}

// WriteFiles writes files relative to dir, creating parent directories.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, fsutil.EnsureFileDir(path))
		require.NoError(t, os.WriteFile(path, []byte(content), fsutil.FileModeDefault))
	}
}

// NewUpstreamRepo creates a repository on branch main with files committed.
// Its path can be used as a clone URL.
func NewUpstreamRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "upstream")
	require.NoError(t, fsutil.EnsureDir(dir))

	Git(t, dir, "init", "-b", "main")
	Commit(t, dir, files, "initial")
	return dir
}

// Commit writes files into the repository at dir and commits them.
func Commit(t *testing.T, dir string, files map[string]string, msg string) {
	t.Helper()
	WriteFiles(t, dir, files)
	Git(t, dir, "add", "-A")
	Git(t, dir, "commit", "-m", msg)
}
