package catalog

import (
	"strings"

	"mediawriter/internal/arch"
)

// View is a filtered projection over the release list. Filter state
// changes re-evaluate eagerly; catalog mutations do not - callers
// refresh explicitly after a merge pass with Rows or Indices.
type View struct {
	catalog *Catalog

	frontPage    bool
	architecture arch.ID
	text         string
}

// NewView builds a view starting on the front page with the first
// architecture selected.
func NewView(c *Catalog) *View {
	return &View{catalog: c, frontPage: true}
}

// FrontPage reports whether the front-page subset is active.
func (v *View) FrontPage() bool { return v.frontPage }

// SetFrontPage toggles the front-page subset.
func (v *View) SetFrontPage(o bool) {
	v.frontPage = o
}

// FilterText returns the current text filter.
func (v *View) FilterText() string { return v.text }

// SetFilterText updates the text filter.
func (v *View) SetFilterText(t string) {
	v.text = t
}

// FilterArchitecture returns the current architecture filter index.
func (v *View) FilterArchitecture() arch.ID { return v.architecture }

// SetFilterArchitecture updates the architecture filter and retargets
// every version's variant selection to the first variant of that
// architecture, so the visible selection follows the filter.
func (v *View) SetFilterArchitecture(a arch.ID) {
	if v.architecture == a || !a.Valid() {
		return
	}
	v.architecture = a
	for _, r := range v.catalog.Releases() {
		for _, ver := range r.Versions() {
			for j, va := range ver.Variants() {
				if va.Arch == a {
					ver.SetSelectedVariantIndex(j)
					break
				}
			}
		}
	}
}

// accepts mirrors the filter contract: on the front page only the
// first catalog positions are visible; otherwise local releases always
// pass, and remote ones need a variant of the filtered architecture
// plus a display-name match.
func (v *View) accepts(row int) bool {
	if v.frontPage {
		return row < FrontPageRows
	}
	r := v.catalog.Get(row)
	if r == nil {
		return false
	}
	if r.IsLocal() {
		return true
	}
	if !r.ContainsArch(v.architecture) {
		return false
	}
	return strings.Contains(strings.ToLower(r.DisplayName), strings.ToLower(v.text))
}

// Indices returns the catalog positions visible under the current
// filter, in catalog order.
func (v *View) Indices() []int {
	var out []int
	for i := range v.catalog.Releases() {
		if v.accepts(i) {
			out = append(out, i)
		}
	}
	return out
}

// Rows returns the visible releases under the current filter.
func (v *View) Rows() []*Release {
	var out []*Release
	for _, i := range v.Indices() {
		out = append(out, v.catalog.Get(i))
	}
	return out
}
