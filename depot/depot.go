package depot

// Identity names a package family: the origin that owns it and the package name.
type Identity struct {
	Origin string
	Name   string
}

// Package is a single built release of a package. The depot keys releases by
// origin/name/version/release; channels and platforms describe where the
// release is published and what it was built for.
type Package struct {
	Origin    string
	Name      string
	Version   string
	Release   string
	Platforms []string
	Channels  []string
	Target    string // OS target the release was built for, e.g. "linux"
}

// Version is one row of the depot's versions listing for a package family:
// the version string, the union of platforms across its releases, and the
// release records themselves.
type Version struct {
	Version   string
	Platforms []string
	Packages  []*Package
}

// InChannel reports whether the package is published in the given channel.
func (p *Package) InChannel(channel string) bool {
	for _, c := range p.Channels {
		if c == channel {
			return true
		}
	}
	return false
}

// Ident returns the package's family identity.
func (p *Package) Ident() Identity {
	return Identity{Origin: p.Origin, Name: p.Name}
}
