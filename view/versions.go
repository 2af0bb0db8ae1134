// Package view holds the console's view components: thin bindings between
// route parameters, the state store, and whatever renders them. Components
// keep almost no state of their own; everything displayable is a projection
// of the current store snapshot.
package view

import (
	"fmt"
	"sort"

	"github.com/pkgdepot/depot-tui/depot"
	"github.com/pkgdepot/depot-tui/params"
	"github.com/pkgdepot/depot-tui/state"
)

// Router performs client-side navigation to a path given as segments.
type Router interface {
	Navigate(path []string)
}

// TitleSetter receives the page title for the current view.
type TitleSetter interface {
	SetTitle(title string)
}

// Toggle indicator names, mapped to glyphs by the renderer.
const (
	IconExpanded  = "chevron-up"
	IconCollapsed = "chevron-down"
)

// stableChannel gates promotion: a release already in stable has nowhere
// further to go.
const stableChannel = "stable"

// VersionsView binds the versions listing for one package family. It tracks
// the family identity from the route parameter feed and which version row is
// currently expanded; everything else is read from the store on demand.
//
// Selection is pointer identity on *depot.Version: two equal records produced
// by separate state reads are distinct selections.
type VersionsView struct {
	store  state.Store
	router Router
	title  TitleSetter

	origin   string
	name     string
	selected *depot.Version

	sub *params.Subscription
}

// NewVersions builds the view and subscribes it to the route parameter feed.
// Each emission overwrites origin/name and refreshes the page title. Callers
// own the teardown: Close must run when the view goes away.
func NewVersions(store state.Store, router Router, title TitleSetter, feed *params.Feed) *VersionsView {
	v := &VersionsView{
		store:  store,
		router: router,
		title:  title,
	}
	v.sub = feed.Subscribe(v.onParams)
	return v
}

func (v *VersionsView) onParams(p params.Params) {
	v.origin = p["origin"]
	v.name = p["name"]
	app := v.store.GetState().App.Name
	v.title.SetTitle(fmt.Sprintf("%s/%s | %s", v.origin, v.name, app))
}

// Close cancels the parameter subscription. Later emissions on the feed no
// longer reach this view. Safe to call more than once.
func (v *VersionsView) Close() {
	if v.sub != nil {
		v.sub.Cancel()
		v.sub = nil
	}
}

// Ident returns a snapshot of the family identity.
func (v *VersionsView) Ident() depot.Identity {
	return depot.Identity{Origin: v.origin, Name: v.name}
}

// Versions returns the current versions listing, empty when the store has
// none.
func (v *VersionsView) Versions() []*depot.Version {
	return v.store.GetState().Packages.Versions
}

// Selected returns the currently expanded version, or nil.
func (v *VersionsView) Selected() *depot.Version {
	return v.selected
}

// PackagesFor returns the visible release list when it belongs to the given
// version, else nothing. The visible slice is shared across all versions and
// only matches the most recently fetched one, so the guard keeps stale
// releases from rendering under the wrong row.
//
// Only the head element's version is checked: the visible slice is replaced
// wholesale per fetch, so it is homogeneous by construction, and filtering
// here would mask a store bug rather than surface it.
func (v *VersionsView) PackagesFor(ver *depot.Version) []*depot.Package {
	if ver == nil {
		return nil
	}
	visible := v.store.GetState().Packages.Visible
	if len(visible) > 0 && visible[0].Version == ver.Version {
		return visible
	}
	return nil
}

// Toggle expands item, or collapses it when it is already the expanded row.
// Expanding fires a fetch for the version's releases; the store handles
// completion on its own time.
func (v *VersionsView) Toggle(item *depot.Version) {
	if item == v.selected {
		v.selected = nil
		return
	}
	v.selected = item
	if item != nil {
		v.FetchPackages(item.Version)
	}
}

// FetchPackages dispatches a filter for the family's releases at the given
// version. No channel filter, prefix match semantics.
func (v *VersionsView) FetchPackages(version string) {
	v.store.Dispatch(state.FilterPackagesBy{
		Origin:     v.origin,
		Name:       v.name,
		Version:    version,
		Channel:    "",
		ExactMatch: false,
	})
}

// HandleDemote dispatches a demote of pkg from channel, carrying the session
// token read at dispatch time. A release with no platforms dispatches an
// empty platform rather than failing; the store decides what that means.
func (v *VersionsView) HandleDemote(pkg *depot.Package, channel string) {
	token := v.store.GetState().Session.Token
	platform := ""
	if len(pkg.Platforms) > 0 {
		platform = pkg.Platforms[0]
	}
	v.store.Dispatch(state.DemotePackage{
		Origin:   pkg.Origin,
		Name:     pkg.Name,
		Version:  pkg.Version,
		Release:  pkg.Release,
		Platform: platform,
		Channel:  channel,
		Token:    token,
	})
}

// Promotable reports whether pkg can be promoted: the user must be a member
// of the origin and the release must not already be in stable.
func (v *VersionsView) Promotable(pkg *depot.Package) bool {
	return v.MemberOfOrigin() && !pkg.InChannel(stableChannel)
}

// MemberOfOrigin reports whether the signed-in user belongs to this view's
// origin.
func (v *VersionsView) MemberOfOrigin() bool {
	for _, o := range v.store.GetState().Origins.Mine {
		if o.Name == v.origin {
			return true
		}
	}
	return false
}

// PlatformsFor returns the distinct platforms of a version, sorted ascending.
func (v *VersionsView) PlatformsFor(ver *depot.Version) []string {
	var out []string
	for _, p := range ver.Platforms {
		seen := false
		for _, q := range out {
			if q == p {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// OSIconFor names the OS icon for a release, defaulting to linux when the
// release carries no target.
func (v *VersionsView) OSIconFor(pkg *depot.Package) string {
	if pkg.Target != "" {
		return pkg.Target
	}
	return "linux"
}

// ToggleFor names the expand/collapse indicator for a version row.
func (v *VersionsView) ToggleFor(ver *depot.Version) string {
	if ver == v.selected {
		return IconExpanded
	}
	return IconCollapsed
}

// NavigateTo routes to the release's detail page.
func (v *VersionsView) NavigateTo(pkg *depot.Package) {
	v.router.Navigate([]string{"pkgs", pkg.Origin, pkg.Name, pkg.Version, pkg.Release})
}

// PackageString formats a release identifier for display.
func (v *VersionsView) PackageString(pkg *depot.Package) string {
	return depot.PackageString(pkg)
}

// ReleaseToDate formats a release timestamp for display.
func (v *VersionsView) ReleaseToDate(release string) string {
	return depot.ReleaseDate(release)
}
