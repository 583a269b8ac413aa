package catalog

import (
	"time"

	"mediawriter/internal/arch"
	"mediawriter/internal/imagetype"
)

// FrontPageRows is how many catalog positions the front page shows.
const FrontPageRows = 3

// ReleaseInfo seeds one release identity from a sections document.
// The merge engine never creates releases, only versions and variants
// under the identities seeded here.
type ReleaseInfo struct {
	Name        string
	DisplayName string
	Summary     string
	Description string
	Icon        string
	Screenshots []string
}

// Update is one incoming metadata record, already classified.
type Update struct {
	ReleaseKey  string
	Version     string
	Status      string
	ReleaseDate time.Time
	Arch        string
	ImageType   imagetype.ID
	Board       string
	URL         string
	SHA256      string
	MD5         string
	Size        int64
}

// Catalog owns the Release list. It is not synchronized; all mutation
// must happen on one goroutine.
type Catalog struct {
	releases        []*Release
	selectedRelease int
	observers       []Observer
}

// New builds an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Subscribe registers a change observer.
func (c *Catalog) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

func (c *Catalog) emit(ch Change) {
	for _, o := range c.observers {
		o.CatalogChanged(ch)
	}
}

// Seed populates the release list from sections metadata. Two slots
// are reserved for deterministic front-page ordering: the workstation
// release goes first and the server release second; everything else
// keeps source order. The user-local "custom" entry is synthesized at
// the front-page boundary with a single empty ISO variant.
func (c *Catalog) Seed(infos []ReleaseInfo) {
	for _, info := range infos {
		r := newRelease(info.Name, info.DisplayName, info.Summary, info.Description, info.Icon, info.Screenshots, c.emit)
		idx := len(c.releases)
		switch info.Name {
		case "alt-workstation":
			idx = 0
		case "alt-server":
			idx = min(1, len(c.releases))
		}
		c.releases = append(c.releases, nil)
		copy(c.releases[idx+1:], c.releases[idx:])
		c.releases[idx] = r
	}

	custom := newRelease(
		LocalReleaseName,
		"Custom image",
		"Pick a file from your drive(s)",
		"<p>Here you can choose a OS image from your hard drive to be written to your flash disk</p><p>Currently it is only supported to write raw disk images (.iso or .bin)</p>",
		"custom",
		nil,
		c.emit,
	)
	idx := min(FrontPageRows-1, len(c.releases))
	c.releases = append(c.releases, nil)
	copy(c.releases[idx+1:], c.releases[idx:])
	c.releases[idx] = custom

	v := newVersion(custom.Name, "", Final, time.Time{}, c.emit)
	v.addVariant(newVariant(custom.Name, v.Number, arch.Unknown, imagetype.ISO, "UNKNOWN BOARD", "", "", "", 0, c.emit))
	custom.versions = append(custom.versions, v)

	c.emit(Change{Kind: ChangeReleaseList})
}

// Releases returns the full unfiltered release list.
func (c *Catalog) Releases() []*Release { return c.releases }

// Get returns the release at a catalog position, nil out of range.
func (c *Catalog) Get(i int) *Release {
	if i >= 0 && i < len(c.releases) {
		return c.releases[i]
	}
	return nil
}

// LocalRelease returns the user-local entry.
func (c *Catalog) LocalRelease() *Release {
	for _, r := range c.releases {
		if r.IsLocal() {
			return r
		}
	}
	return nil
}

// Find returns the first release whose name contains the key,
// case-insensitively.
func (c *Catalog) Find(key string) *Release {
	for _, r := range c.releases {
		if r.matchesKey(key) {
			return r
		}
	}
	return nil
}

// Selected returns the currently selected release, nil out of range.
func (c *Catalog) Selected() *Release {
	return c.Get(c.selectedRelease)
}

// SelectedIndex returns the release selection index.
func (c *Catalog) SelectedIndex() int { return c.selectedRelease }

// SetSelectedIndex moves the release selection.
func (c *Catalog) SetSelectedIndex(i int) {
	if c.selectedRelease != i {
		c.selectedRelease = i
		c.emit(Change{Kind: ChangeSelection})
	}
}

// SelectedRef resolves the release/version/variant selection chain.
func (c *Catalog) SelectedRef() (Ref, bool) {
	r := c.Selected()
	if r == nil {
		return Ref{}, false
	}
	v := r.SelectedVersion()
	if v == nil {
		return Ref{}, false
	}
	va := v.SelectedVariant()
	if va == nil {
		return Ref{}, false
	}
	return Ref{Release: r, Version: v, Variant: va}, true
}

// ApplyUpdate reconciles one metadata record into the catalog tree.
// It returns true iff a mutation occurred. Unknown architectures and
// image types are classification failures: the record is dropped
// without touching the catalog. A missing release target or a status
// regression is a consistency rejection, also mutation-free.
func (c *Catalog) ApplyUpdate(u Update) bool {
	if !arch.IsKnown(u.Arch) {
		return false
	}
	if u.ImageType == imagetype.Unknown {
		return false
	}
	r := c.Find(u.ReleaseKey)
	if r == nil {
		return false
	}
	a, _ := arch.FromAbbreviation(u.Arch)
	return r.applyUpdate(u.Version, u.Status, u.ReleaseDate, a, u.ImageType, u.Board, u.URL, u.SHA256, u.MD5, u.Size)
}

// Ref joins one variant with its owning version and release.
type Ref struct {
	Release *Release
	Version *Version
	Variant *Variant
}

// FullName renders the user-facing identity of the variant: the local
// file base name for the custom entry, otherwise release, version and
// variant names combined.
func (r Ref) FullName() string {
	if r.Release.IsLocal() {
		return localImageBase(r.Variant.ImagePath())
	}
	return r.Release.DisplayName + " " + r.Version.Name() + " " + r.Variant.Name()
}
