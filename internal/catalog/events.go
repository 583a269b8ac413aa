package catalog

import "mediawriter/internal/arch"

// ChangeKind names one observable mutation of the catalog tree.
type ChangeKind string

const (
	ChangeReleaseList      ChangeKind = "release-list"
	ChangeVersionList      ChangeKind = "version-list"
	ChangeVariantList      ChangeKind = "variant-list"
	ChangeVersionStatus    ChangeKind = "version-status"
	ChangePrerelease       ChangeKind = "prerelease"
	ChangeReleaseDate      ChangeKind = "release-date"
	ChangeURL              ChangeKind = "url"
	ChangeSHA256           ChangeKind = "sha256"
	ChangeMD5              ChangeKind = "md5"
	ChangeSize             ChangeKind = "size"
	ChangeRealSize         ChangeKind = "real-size"
	ChangeImage            ChangeKind = "image"
	ChangeTransferStatus   ChangeKind = "transfer-status"
	ChangeErrorString      ChangeKind = "error-string"
	ChangeProgress         ChangeKind = "progress"
	ChangeSelection        ChangeKind = "selection"
	ChangeVersionSelection ChangeKind = "version-selection"
	ChangeVariantSelection ChangeKind = "variant-selection"
)

// Change identifies a mutated field and the entity it belongs to.
// Release and Version are identifiers, not back-pointers; Arch and
// Board locate a variant within its version.
type Change struct {
	Kind    ChangeKind
	Release string
	Version string
	Arch    arch.ID
	Board   string
}

// Observer receives change notifications from the catalog.
type Observer interface {
	CatalogChanged(Change)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(Change)

// CatalogChanged implements Observer.
func (f ObserverFunc) CatalogChanged(c Change) {
	f(c)
}
