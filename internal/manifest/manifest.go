// Package manifest parses and validates the SDK's packaging manifests:
// poetry-style TOML files declaring a package name, a semantic version, and
// version-constrained dependencies. Validation covers the three properties a
// registry cares about before accepting a package: the version parses as
// semver, every dependency constraint is satisfiable, and sibling manifests
// agree with each other.
package manifest

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Package struct {
	Name        string
	Version     string
	Description string
	License     string
	Authors     []string
	Homepage    string
	Repository  string
}

type BuildSystem struct {
	Requires []string `toml:"requires"`
	Backend  string   `toml:"build-backend"`
}

type Manifest struct {
	Path    string
	Package Package

	// Dependency name -> constraint expression, as written.
	Dependencies    map[string]string
	DevDependencies map[string]string

	BuildSystem BuildSystem
}

// rawManifest mirrors the TOML layout. Dependency values are either a bare
// constraint string or a table carrying a "version" key alongside markers we
// do not interpret.
type rawManifest struct {
	Tool struct {
		Poetry struct {
			Name            string         `toml:"name"`
			Version         string         `toml:"version"`
			Description     string         `toml:"description"`
			License         string         `toml:"license"`
			Authors         []string       `toml:"authors"`
			Homepage        string         `toml:"homepage"`
			Repository      string         `toml:"repository"`
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           struct {
				Dev struct {
					Dependencies map[string]any `toml:"dependencies"`
				} `toml:"dev"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
	BuildSystem BuildSystem `toml:"build-system"`
}

// Parse decodes a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	p := raw.Tool.Poetry
	m := &Manifest{
		Package: Package{
			Name:        p.Name,
			Version:     p.Version,
			Description: p.Description,
			License:     p.License,
			Authors:     p.Authors,
			Homepage:    p.Homepage,
			Repository:  p.Repository,
		},
		BuildSystem: raw.BuildSystem,
	}

	var err error
	if m.Dependencies, err = coerceDeps(p.Dependencies); err != nil {
		return nil, err
	}

	// Both historic spellings of the dev group are accepted.
	dev := p.DevDependencies
	if len(dev) == 0 {
		dev = p.Group.Dev.Dependencies
	}
	if m.DevDependencies, err = coerceDeps(dev); err != nil {
		return nil, err
	}

	return m, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

func coerceDeps(raw map[string]any) (map[string]string, error) {
	if raw == nil {
		return nil, nil
	}
	deps := make(map[string]string, len(raw))
	for name, v := range raw {
		switch c := v.(type) {
		case string:
			deps[name] = c
		case map[string]any:
			ver, ok := c["version"].(string)
			if !ok {
				return nil, fmt.Errorf("dependency %q: table form requires a version key", name)
			}
			deps[name] = ver
		default:
			return nil, fmt.Errorf("dependency %q: unsupported constraint value %T", name, v)
		}
	}
	return deps, nil
}
