// Package fixture loads a depot snapshot from a YAML file and serves it as
// store state. It stands in for the real depot API: filtering swaps the
// visible release list, demoting edits a release's channels in place.
package fixture

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkgdepot/depot-tui/depot"
	"github.com/pkgdepot/depot-tui/state"
)

type Fixture struct {
	App      string   `yaml:"app"`
	Session  Session  `yaml:"session"`
	Origins  Origins  `yaml:"origins"`
	Families []Family `yaml:"families"`
}

type Session struct {
	Token string `yaml:"token"`
}

type Origins struct {
	Mine []string `yaml:"mine"`
}

type Family struct {
	Origin   string    `yaml:"origin"`
	Name     string    `yaml:"name"`
	Releases []Release `yaml:"releases"`
}

type Release struct {
	Version   string   `yaml:"version"`
	Release   string   `yaml:"release"`
	Platforms []string `yaml:"platforms"`
	Channels  []string `yaml:"channels"`
	Target    string   `yaml:"target"`
}

// Load reads and validates a fixture file.
func Load(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	for i, fam := range fx.Families {
		if fam.Origin == "" || fam.Name == "" {
			return nil, fmt.Errorf("fixture %s: family %d missing origin or name", path, i)
		}
	}
	return &fx, nil
}

// Depot is the materialized fixture: one *depot.Package per release, shared
// between the versions listing and the visible slice so channel edits show
// up everywhere.
type Depot struct {
	fx       *Fixture
	packages []*depot.Package
}

func (fx *Fixture) Depot() *Depot {
	d := &Depot{fx: fx}
	for _, fam := range fx.Families {
		for _, rel := range fam.Releases {
			d.packages = append(d.packages, &depot.Package{
				Origin:    fam.Origin,
				Name:      fam.Name,
				Version:   rel.Version,
				Release:   rel.Release,
				Platforms: rel.Platforms,
				Channels:  rel.Channels,
				Target:    rel.Target,
			})
		}
	}
	return d
}

// VersionsFor groups a family's releases into the versions listing, newest
// version first, newest release first within a version.
func (d *Depot) VersionsFor(origin, name string) []*depot.Version {
	byVersion := make(map[string]*depot.Version)
	var versions []*depot.Version
	for _, pkg := range d.packages {
		if pkg.Origin != origin || pkg.Name != name {
			continue
		}
		ver := byVersion[pkg.Version]
		if ver == nil {
			ver = &depot.Version{Version: pkg.Version}
			byVersion[pkg.Version] = ver
			versions = append(versions, ver)
		}
		ver.Packages = append(ver.Packages, pkg)
		ver.Platforms = append(ver.Platforms, pkg.Platforms...)
	}
	for _, ver := range versions {
		sort.Slice(ver.Packages, func(i, j int) bool {
			return ver.Packages[i].Release > ver.Packages[j].Release
		})
	}
	depot.SortVersions(versions)
	return versions
}

// InitialState builds the store state for one family.
func (d *Depot) InitialState(origin, name string) state.AppState {
	st := state.AppState{
		App:     state.AppInfo{Name: d.fx.App},
		Session: state.Session{Token: d.fx.Session.Token},
	}
	for _, o := range d.fx.Origins.Mine {
		st.Origins.Mine = append(st.Origins.Mine, state.OriginInfo{Name: o})
	}
	st.Packages.Versions = d.VersionsFor(origin, name)
	return st
}

// Apply is the store's apply func over fixture data.
func (d *Depot) Apply(st state.AppState, a state.Action) state.AppState {
	switch a := a.(type) {
	case state.FilterPackagesBy:
		st.Packages.Visible = d.filter(a)
	case state.DemotePackage:
		// An empty or wrong token means the demote silently does nothing,
		// like an unauthorized API call the view never hears back from.
		if a.Token == "" || a.Token != d.fx.Session.Token {
			return st
		}
		d.demote(a)
	}
	return st
}

func (d *Depot) filter(a state.FilterPackagesBy) []*depot.Package {
	var out []*depot.Package
	for _, pkg := range d.packages {
		if pkg.Origin != a.Origin || pkg.Name != a.Name {
			continue
		}
		if a.ExactMatch {
			if pkg.Version != a.Version {
				continue
			}
		} else if !strings.HasPrefix(pkg.Version, a.Version) {
			continue
		}
		if a.Channel != "" && !pkg.InChannel(a.Channel) {
			continue
		}
		out = append(out, pkg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Release > out[j].Release
	})
	return out
}

func (d *Depot) demote(a state.DemotePackage) {
	for _, pkg := range d.packages {
		if pkg.Origin != a.Origin || pkg.Name != a.Name ||
			pkg.Version != a.Version || pkg.Release != a.Release {
			continue
		}
		for i, c := range pkg.Channels {
			if c == a.Channel {
				pkg.Channels = append(pkg.Channels[:i], pkg.Channels[i+1:]...)
				break
			}
		}
		return
	}
}
