// Package project reads the optional ophelia.toml manifest.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults for keys the manifest leaves out.
const (
	DefaultSources        = "src"
	DefaultOut            = "build"
	DefaultEmit           = "koopa"
	DefaultMaxDiagnostics = 100
)

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is empty.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Manifest is a decoded ophelia.toml with defaults applied.
type Manifest struct {
	Path           string // manifest file
	Root           string // directory of the manifest
	Name           string
	Sources        string // relative to Root
	Out            string // relative to Root
	Emit           string
	MaxDiagnostics int
	Jobs           int // 0 = GOMAXPROCS
	RequireMain    bool
}

type manifestFile struct {
	Package struct {
		Name    string `toml:"name"`
		Sources string `toml:"sources"`
		Out     string `toml:"out"`
	} `toml:"package"`
	Build struct {
		Emit           string `toml:"emit"`
		MaxDiagnostics int    `toml:"max_diagnostics"`
		Jobs           int    `toml:"jobs"`
		RequireMain    bool   `toml:"require_main"`
	} `toml:"build"`
}

// Load parses path. Keys that are not present keep their defaults;
// explicitly set values are kept even when zero.
func Load(path string) (*Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	m := &Manifest{
		Path:           abs,
		Root:           filepath.Dir(abs),
		Name:           strings.TrimSpace(cfg.Package.Name),
		Sources:        DefaultSources,
		Out:            DefaultOut,
		Emit:           DefaultEmit,
		MaxDiagnostics: DefaultMaxDiagnostics,
		RequireMain:    true,
	}
	if m.Name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if meta.IsDefined("package", "sources") {
		m.Sources = cfg.Package.Sources
	}
	if meta.IsDefined("package", "out") {
		m.Out = cfg.Package.Out
	}
	if meta.IsDefined("build", "emit") {
		m.Emit = cfg.Build.Emit
	}
	if meta.IsDefined("build", "max_diagnostics") {
		m.MaxDiagnostics = cfg.Build.MaxDiagnostics
	}
	if meta.IsDefined("build", "jobs") {
		m.Jobs = cfg.Build.Jobs
	}
	if meta.IsDefined("build", "require_main") {
		m.RequireMain = cfg.Build.RequireMain
	}
	if m.Jobs < 0 || m.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: jobs and max_diagnostics must not be negative", path)
	}
	for key, dir := range map[string]string{"sources": m.Sources, "out": m.Out} {
		if _, err := m.resolve(dir); err != nil {
			return nil, fmt.Errorf("%s: invalid [package].%s: %w", path, key, err)
		}
	}
	return m, nil
}

// SourceDir is the absolute directory holding the *.sy files.
func (m *Manifest) SourceDir() string {
	dir, _ := m.resolve(m.Sources)
	return dir
}

// OutDir is the absolute output directory.
func (m *Manifest) OutDir() string {
	dir, _ := m.resolve(m.Out)
	return dir
}

// resolve joins a manifest-relative directory and keeps it inside Root.
func (m *Manifest) resolve(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if filepath.IsAbs(dir) {
		return "", fmt.Errorf("%q must be relative", dir)
	}
	full := filepath.Join(m.Root, filepath.Clean(filepath.FromSlash(dir)))
	if !pathWithin(m.Root, full) {
		return "", fmt.Errorf("%q escapes the project root", dir)
	}
	return full, nil
}
