// Package manifest loads and saves the project file that declares which
// addons a project depends on.
//
// A manifest is JSON or YAML:
//
//	{
//	  "path": "addons",
//	  "cache": ".addons",
//	  "addons": {
//	    "chicken": {"url": "git@github.com:org/chicken.git", "checkout": "v1.2.0", "subfolder": "addons/chicken"}
//	  },
//	  "settings": {"log_level": "info", "concurrency": 4}
//	}
//
// Relative paths are resolved against the directory holding the manifest.
package manifest

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/chicken/pkg/addon"
	"github.com/glorpus-work/chicken/pkg/errutils"
	"github.com/glorpus-work/chicken/pkg/fsutil"
)

// Manifest is the decoded project manifest.
type Manifest struct {
	// AddonsDir is where addons are installed, relative to the project.
	AddonsDir string `yaml:"path" json:"path"`
	// CacheDir holds the shared clones, relative to the project.
	CacheDir string `yaml:"cache" json:"cache"`
	// Addons maps an addon name to where it comes from.
	Addons map[string]*Entry `yaml:"addons" json:"addons"`

	Settings Settings `yaml:"settings" json:"settings"`

	// path is the file the manifest was loaded from.
	path string
}

// Entry declares one addon.
type Entry struct {
	URL       string `yaml:"url" json:"url"`
	Checkout  string `yaml:"checkout,omitempty" json:"checkout,omitempty"`
	Subfolder string `yaml:"subfolder,omitempty" json:"subfolder,omitempty"`
}

// Settings are tool options stored alongside the addon list.
type Settings struct {
	LogLevel    string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
}

// Default manifest values.
const (
	DefaultFileName    = "addons.json"
	DefaultAddonsDir   = "addons"
	DefaultCacheDir    = ".addons"
	DefaultCheckout    = "main"
	DefaultSubfolder   = "/"
	DefaultLogLevel    = "info"
	DefaultConcurrency = 4

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultManifest returns an empty manifest with every default applied.
func DefaultManifest() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

// LoadManifest reads the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, errutils.ErrEmptyManifestPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errutils.Wrapf(err, "failed to resolve manifest path %s", path)
	}

	file, err := os.Open(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errutils.Wrap(errutils.ErrManifestNotFound, absPath)
		}
		return nil, errutils.Wrapf(err, "failed to open manifest: %s", path)
	}
	defer func() { _ = file.Close() }()

	m, err := load(file, absPath)
	if err != nil {
		return nil, errutils.Wrap(err, absPath)
	}
	return m, nil
}

// LoadManifestFromReader decodes, defaults and validates a manifest.
// JSON input is accepted since it is a subset of YAML.
func LoadManifestFromReader(reader io.Reader) (*Manifest, error) {
	return load(reader, "")
}

func load(reader io.Reader, path string) (*Manifest, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errutils.Wrap(err, "failed to read manifest data")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errutils.Wrap(errutils.ErrManifestParse, err.Error())
	}

	m.path = path
	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, errutils.Wrap(errutils.ErrManifestValidation, err.Error())
	}

	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.AddonsDir == "" {
		m.AddonsDir = DefaultAddonsDir
	}
	if m.CacheDir == "" {
		m.CacheDir = DefaultCacheDir
	}
	if m.Addons == nil {
		m.Addons = map[string]*Entry{}
	}
	for _, e := range m.Addons {
		if e == nil {
			continue
		}
		if e.Checkout == "" {
			e.Checkout = DefaultCheckout
		}
		if e.Subfolder == "" {
			e.Subfolder = DefaultSubfolder
		}
	}
	if m.Settings.LogLevel == "" {
		m.Settings.LogLevel = DefaultLogLevel
	}
	if m.Settings.Concurrency == 0 {
		m.Settings.Concurrency = DefaultConcurrency
	}
}

// Validate checks that the manifest can be turned into addon operations.
func (m *Manifest) Validate() error {
	if m == nil {
		return errutils.ErrManifestValidation
	}
	project := m.ProjectPath()
	addonsPath, cachePath := resolve(project, m.AddonsDir), resolve(project, m.CacheDir)
	if within(addonsPath, cachePath) || within(cachePath, addonsPath) {
		return errutils.ErrSamePaths
	}
	for name, e := range m.Addons {
		if err := validateName(name); err != nil {
			return err
		}
		if e == nil || strings.TrimSpace(e.URL) == "" {
			return errutils.ErrEmptyAddonURLWithName(name)
		}
		if escapes(e.Subfolder) {
			return errutils.Wrapf(errutils.ErrValidation, "addon '%s': subfolder %q leaves the repository", name, e.Subfolder)
		}
	}
	return validateSettings(m.Settings)
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errutils.ErrInvalidAddonNameWithDetails(name, "name is empty")
	case name == "." || name == "..":
		return errutils.ErrInvalidAddonNameWithDetails(name, "name is reserved")
	case strings.ContainsAny(name, `/\`):
		return errutils.ErrInvalidAddonNameWithDetails(name, "name contains a path separator")
	case strings.HasPrefix(name, "-"):
		return errutils.ErrInvalidAddonNameWithDetails(name, "name starts with '-'")
	}
	return nil
}

// escapes reports whether a subfolder climbs out of the repository root.
func escapes(subfolder string) bool {
	for _, part := range strings.Split(filepath.ToSlash(subfolder), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

func validateSettings(s Settings) error {
	if s.Concurrency < 1 {
		return errutils.ErrConcurrencyInvalid
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errutils.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	return nil
}

// Path returns the file the manifest was loaded from or last saved to.
func (m *Manifest) Path() string {
	return m.path
}

// ProjectPath returns the directory holding the manifest.
func (m *Manifest) ProjectPath() string {
	if m.path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return wd
	}
	return filepath.Dir(m.path)
}

// ToConfig resolves the manifest's directories against its project.
func (m *Manifest) ToConfig() addon.Config {
	project := m.ProjectPath()
	return addon.Config{
		ProjectPath: project,
		CachePath:   resolve(project, m.CacheDir),
		AddonsPath:  resolve(project, m.AddonsDir),
	}
}

// within reports whether path is parent or lies below it.
func within(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// RequiredAddons returns every declared addon sorted by name.
func (m *Manifest) RequiredAddons() []addon.RequiredAddon {
	names := make([]string, 0, len(m.Addons))
	for name := range m.Addons {
		names = append(names, name)
	}
	sort.Strings(names)

	addons := make([]addon.RequiredAddon, 0, len(names))
	for _, name := range names {
		addons = append(addons, m.required(name))
	}
	return addons
}

// Select returns the named addons in the order given. With no names it
// returns every addon.
func (m *Manifest) Select(names ...string) ([]addon.RequiredAddon, error) {
	if len(names) == 0 {
		return m.RequiredAddons(), nil
	}
	seen := make(map[string]bool, len(names))
	addons := make([]addon.RequiredAddon, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := m.Addons[name]; !ok {
			return nil, errutils.ErrAddonNotFoundWithName(name)
		}
		addons = append(addons, m.required(name))
	}
	return addons, nil
}

func (m *Manifest) required(name string) addon.RequiredAddon {
	e := m.Addons[name]
	return addon.RequiredAddon{
		Name:           name,
		ConfigFilePath: m.path,
		URL:            e.URL,
		Checkout:       e.Checkout,
		Subfolder:      e.Subfolder,
	}
}

// AddAddon declares a new addon. An existing name is rejected.
func (m *Manifest) AddAddon(name string, entry Entry) error {
	if _, ok := m.Addons[name]; ok {
		return errutils.ErrDuplicateAddonWithName(name)
	}
	if m.Addons == nil {
		m.Addons = map[string]*Entry{}
	}
	m.Addons[name] = &entry
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		delete(m.Addons, name)
		return err
	}
	return nil
}

// RemoveAddon drops an addon from the manifest, reporting whether it existed.
func (m *Manifest) RemoveAddon(name string) bool {
	if _, ok := m.Addons[name]; !ok {
		return false
	}
	delete(m.Addons, name)
	return true
}

// Save writes the manifest to path atomically. Files ending in .json are
// written as JSON, anything else as YAML.
func (m *Manifest) Save(path string) error {
	if path == "" {
		return errutils.ErrEmptyManifestPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errutils.Wrapf(err, "failed to resolve manifest path %s", path)
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errutils.Wrap(err, "failed to create manifest directory")
	}

	data, err := m.encode(absPath)
	if err != nil {
		return errutils.Wrap(errutils.ErrManifestEncode, err.Error())
	}

	tempPath := absPath + ".tmp"
	if err := os.WriteFile(tempPath, data, fsutil.FileModeDefault); err != nil {
		return errutils.Wrap(err, "failed to write manifest")
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errutils.Wrap(err, "failed to replace manifest")
	}

	m.path = absPath
	return nil
}

func (m *Manifest) encode(path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}

	var sb strings.Builder
	encoder := yaml.NewEncoder(&sb)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(m); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
