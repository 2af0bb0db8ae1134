package depot

import (
	"testing"
	"time"
)

func TestPackageString(t *testing.T) {
	cases := []struct {
		name string
		pkg  Package
		want string
	}{
		{"full ident", Package{Origin: "core", Name: "nginx", Version: "1.25.2", Release: "20240110120000"}, "core/nginx/1.25.2/20240110120000"},
		{"no release", Package{Origin: "core", Name: "nginx", Version: "1.25.2"}, "core/nginx/1.25.2"},
		{"family only", Package{Origin: "core", Name: "nginx"}, "core/nginx"},
		{"empty", Package{}, ""},
		{"missing middle part keeps position", Package{Origin: "core", Version: "1.0"}, "core//1.0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PackageString(&tc.pkg); got != tc.want {
				t.Errorf("PackageString() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseRelease(t *testing.T) {
	got, err := ParseRelease("20240110120000")
	if err != nil {
		t.Fatalf("ParseRelease: %v", err)
	}
	want := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseRelease() = %v, want %v", got, want)
	}

	if _, err := ParseRelease("not-a-release"); err == nil {
		t.Error("expected error for malformed release, got nil")
	}
}

func TestReleaseDate(t *testing.T) {
	if got := ReleaseDate("20240110120000"); got != "2024-01-10 12:00:00" {
		t.Errorf("ReleaseDate() = %q", got)
	}
	// Malformed input falls through unchanged.
	if got := ReleaseDate("garbage"); got != "garbage" {
		t.Errorf("ReleaseDate(garbage) = %q, want the input back", got)
	}
}

func TestSortVersions(t *testing.T) {
	vs := []*Version{
		{Version: "1.2.0"},
		{Version: "master"},
		{Version: "1.10.0"},
		{Version: "1.9.1"},
	}
	SortVersions(vs)

	want := []string{"1.10.0", "1.9.1", "1.2.0", "master"}
	for i, w := range want {
		if vs[i].Version != w {
			t.Errorf("position %d = %q, want %q", i, vs[i].Version, w)
		}
	}
}

func TestInChannel(t *testing.T) {
	pkg := &Package{Channels: []string{"unstable", "stable"}}
	if !pkg.InChannel("stable") {
		t.Error("InChannel(stable) = false, want true")
	}
	if pkg.InChannel("lts") {
		t.Error("InChannel(lts) = true, want false")
	}
}
