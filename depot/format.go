package depot

import (
	"sort"
	"strings"
	"time"

	semver "github.com/Masterminds/semver"
)

// releaseLayout is the depot's release timestamp format: YYYYMMDDhhmmss, UTC.
const releaseLayout = "20060102150405"

// PackageString renders a package identifier as origin/name/version/release,
// dropping empty trailing parts (so a family gives "origin/name", a version
// "origin/name/version", and so on). Empty parts in the middle stay as empty
// segments; positions are meaningful.
func PackageString(pkg *Package) string {
	parts := []string{pkg.Origin, pkg.Name, pkg.Version, pkg.Release}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, "/")
}

// ParseRelease parses a release timestamp into a UTC time.
func ParseRelease(release string) (time.Time, error) {
	return time.Parse(releaseLayout, release)
}

// ReleaseDate formats a release timestamp for display. Unparseable input is
// returned as-is rather than erroring; a bad timestamp is still a usable label.
func ReleaseDate(release string) string {
	t, err := ParseRelease(release)
	if err != nil {
		return release
	}
	return t.Format("2006-01-02 15:04:05")
}

// SortVersions orders a versions listing newest-first. Versions that parse as
// semver sort by semver precedence; anything else sorts after them, in
// reverse lexical order. The sort is stable so equal versions keep their
// listing order.
func SortVersions(versions []*Version) {
	sort.SliceStable(versions, func(i, j int) bool {
		vi, errI := semver.NewVersion(versions[i].Version)
		vj, errJ := semver.NewVersion(versions[j].Version)
		switch {
		case errI == nil && errJ == nil:
			return vi.GreaterThan(vj)
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return versions[i].Version > versions[j].Version
		}
	})
}
