package addon

import (
	"path/filepath"
)

// Config locates the three directories the manager works in.
type Config struct {
	ProjectPath string
	CachePath   string
	AddonsPath  string
}

// RequiredAddon is one declared addon dependency.
type RequiredAddon struct {
	// Name is the directory name used both in the cache and in the addons directory.
	Name string
	// ConfigFilePath is the manifest that declared this addon.
	ConfigFilePath string
	// URL is a git-clonable remote.
	URL string
	// Checkout is the branch, tag or commit to install.
	Checkout string
	// Subfolder is the path inside the repository to copy into the project.
	Subfolder string
}

// ID returns "name@checkout", used in progress output.
func (a RequiredAddon) ID() string {
	return a.Name + "@" + a.Checkout
}

// CachePathFor returns the cache directory holding the clone of a.
func (c Config) CachePathFor(a RequiredAddon) string {
	return filepath.Join(c.CachePath, a.Name)
}

// AddonPathFor returns the project directory a is installed into.
func (c Config) AddonPathFor(a RequiredAddon) string {
	return filepath.Join(c.AddonsPath, a.Name)
}

// CopySourceFor returns the directory whose contents are mirrored into the
// project. The trailing separator makes rsync copy the directory's contents
// rather than the directory itself.
func (c Config) CopySourceFor(a RequiredAddon) string {
	return filepath.Join(c.CachePathFor(a), a.Subfolder) + string(filepath.Separator)
}

// CacheMap maps a remote URL to the cache directory holding its clone.
type CacheMap map[string]string

// Lookup finds the cache directory for url, tolerating differences in
// transport and a trailing ".git" between url and the recorded remote.
func (m CacheMap) Lookup(url string) (string, bool) {
	if dir, ok := m[url]; ok {
		return dir, true
	}
	want := normalizeURL(url)
	for remote, dir := range m {
		if normalizeURL(remote) == want {
			return dir, true
		}
	}
	return "", false
}
