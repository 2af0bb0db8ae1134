package fixture

import (
	"path/filepath"
	"testing"

	"github.com/pkgdepot/depot-tui/state"
)

func loadTestDepot(t *testing.T) *Depot {
	t.Helper()
	fx, err := Load(filepath.Join("testdata", "depot.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return fx.Depot()
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestVersionsForGroupsAndSorts(t *testing.T) {
	d := loadTestDepot(t)

	vs := d.VersionsFor("core", "nginx")
	if len(vs) != 2 {
		t.Fatalf("got %d versions, want 2", len(vs))
	}
	if vs[0].Version != "1.25.2" || vs[1].Version != "1.24.0" {
		t.Errorf("version order = %s, %s", vs[0].Version, vs[1].Version)
	}

	// Releases within a version sort newest-first.
	if len(vs[0].Packages) != 2 {
		t.Fatalf("1.25.2 has %d releases, want 2", len(vs[0].Packages))
	}
	if vs[0].Packages[0].Release != "20240111090000" {
		t.Errorf("head release = %s", vs[0].Packages[0].Release)
	}

	// Platforms are the union across releases.
	if len(vs[0].Platforms) != 2 {
		t.Errorf("1.25.2 platforms = %v", vs[0].Platforms)
	}
}

func TestInitialState(t *testing.T) {
	d := loadTestDepot(t)
	st := d.InitialState("core", "nginx")

	if st.App.Name != "Depot Console" {
		t.Errorf("App.Name = %q", st.App.Name)
	}
	if st.Session.Token != "fixture-token" {
		t.Errorf("Session.Token = %q", st.Session.Token)
	}
	if len(st.Origins.Mine) != 1 || st.Origins.Mine[0].Name != "core" {
		t.Errorf("Origins.Mine = %v", st.Origins.Mine)
	}
	if len(st.Packages.Versions) != 2 {
		t.Errorf("got %d versions", len(st.Packages.Versions))
	}
}

func TestApplyFilter(t *testing.T) {
	d := loadTestDepot(t)
	st := d.InitialState("core", "nginx")

	st = d.Apply(st, state.FilterPackagesBy{Origin: "core", Name: "nginx", Version: "1.25.2"})
	if len(st.Packages.Visible) != 2 {
		t.Fatalf("visible = %d releases, want 2", len(st.Packages.Visible))
	}
	if st.Packages.Visible[0].Version != "1.25.2" {
		t.Errorf("head version = %s", st.Packages.Visible[0].Version)
	}

	// Channel filter narrows further.
	st = d.Apply(st, state.FilterPackagesBy{Origin: "core", Name: "nginx", Version: "1.25.2", Channel: "stable"})
	if len(st.Packages.Visible) != 1 {
		t.Errorf("stable-filtered visible = %d releases, want 1", len(st.Packages.Visible))
	}

	// Prefix semantics when ExactMatch is off.
	st = d.Apply(st, state.FilterPackagesBy{Origin: "core", Name: "nginx", Version: "1.2"})
	if len(st.Packages.Visible) != 3 {
		t.Errorf("prefix-filtered visible = %d releases, want 3", len(st.Packages.Visible))
	}
	st = d.Apply(st, state.FilterPackagesBy{Origin: "core", Name: "nginx", Version: "1.2", ExactMatch: true})
	if len(st.Packages.Visible) != 0 {
		t.Errorf("exact-filtered visible = %d releases, want 0", len(st.Packages.Visible))
	}
}

func TestApplyDemote(t *testing.T) {
	d := loadTestDepot(t)
	st := d.InitialState("core", "nginx")

	demote := state.DemotePackage{
		Origin:  "core",
		Name:    "nginx",
		Version: "1.25.2",
		Release: "20240110120000",
		Channel: "stable",
		Token:   "fixture-token",
	}
	d.Apply(st, demote)

	vs := d.VersionsFor("core", "nginx")
	for _, pkg := range vs[0].Packages {
		if pkg.Release == "20240110120000" && pkg.InChannel("stable") {
			t.Error("release still in stable after demote")
		}
	}
}

func TestApplyDemoteBadToken(t *testing.T) {
	d := loadTestDepot(t)
	st := d.InitialState("core", "nginx")

	d.Apply(st, state.DemotePackage{
		Origin:  "core",
		Name:    "nginx",
		Version: "1.25.2",
		Release: "20240110120000",
		Channel: "stable",
		Token:   "wrong",
	})

	vs := d.VersionsFor("core", "nginx")
	found := false
	for _, pkg := range vs[0].Packages {
		if pkg.Release == "20240110120000" {
			found = pkg.InChannel("stable")
		}
	}
	if !found {
		t.Error("demote with a bad token should change nothing")
	}
}
