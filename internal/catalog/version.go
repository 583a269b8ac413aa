package catalog

import (
	"time"

	"mediawriter/internal/arch"
	"mediawriter/internal/imagetype"
)

// VersionStatus orders version finality. Lower ordinals are more
// final; status may only move toward Final across merges.
type VersionStatus int

const (
	Final VersionStatus = iota
	ReleaseCandidate
	Beta
	Alpha
)

// ParseVersionStatus maps a feed status literal to a VersionStatus.
// Anything that is not "alpha" or "beta" counts as final; the feed has
// no literal for release candidates.
func ParseVersionStatus(s string) VersionStatus {
	switch s {
	case "alpha":
		return Alpha
	case "beta":
		return Beta
	default:
		return Final
	}
}

// Version is one numbered release of a Release. Versions are stored in
// descending string order of Number within their release.
type Version struct {
	Number      string
	status      VersionStatus
	releaseDate time.Time

	variants        []*Variant
	selectedVariant int

	release string
	notify  func(Change)
}

func newVersion(release, number string, status VersionStatus, releaseDate time.Time, notify func(Change)) *Version {
	return &Version{
		Number:      number,
		status:      status,
		releaseDate: releaseDate,
		release:     release,
		notify:      notify,
	}
}

func (v *Version) change(kind ChangeKind) Change {
	return Change{Kind: kind, Release: v.release, Version: v.Number}
}

// Status returns the current finality status.
func (v *Version) Status() VersionStatus { return v.status }

// ReleaseDate returns the release date, zero when unknown.
func (v *Version) ReleaseDate() time.Time { return v.releaseDate }

// Name renders the version number with its prerelease suffix.
func (v *Version) Name() string {
	switch v.status {
	case Alpha:
		return v.Number + " Alpha"
	case Beta:
		return v.Number + " Beta"
	case ReleaseCandidate:
		return v.Number + " Release Candidate"
	default:
		return v.Number
	}
}

// Variants returns the variant list in architecture order.
func (v *Version) Variants() []*Variant { return v.variants }

// SelectedVariant returns the currently selected variant, nil when the
// list is empty.
func (v *Version) SelectedVariant() *Variant {
	if v.selectedVariant >= 0 && v.selectedVariant < len(v.variants) {
		return v.variants[v.selectedVariant]
	}
	return nil
}

// SelectedVariantIndex returns the selection index.
func (v *Version) SelectedVariantIndex() int { return v.selectedVariant }

// SetSelectedVariantIndex moves the selection to an existing variant.
func (v *Version) SetSelectedVariantIndex(i int) {
	if v.selectedVariant != i && i >= 0 && i < len(v.variants) {
		v.selectedVariant = i
		v.notify(v.change(ChangeVariantSelection))
	}
}

// FindVariant locates a variant by its (architecture, board) identity.
func (v *Version) FindVariant(a arch.ID, board string) *Variant {
	for _, va := range v.variants {
		if va.Arch == a && va.Board == board {
			return va
		}
	}
	return nil
}

// addVariant inserts preserving architecture registry order: before
// the first existing variant whose architecture ranks after the new one.
func (v *Version) addVariant(va *Variant) {
	idx := len(v.variants)
	for i, existing := range v.variants {
		if existing.Arch > va.Arch {
			idx = i
			break
		}
	}
	v.variants = append(v.variants, nil)
	copy(v.variants[idx+1:], v.variants[idx:])
	v.variants[idx] = va
	v.notify(v.change(ChangeVariantList))
	if len(v.variants) == 1 {
		v.notify(v.change(ChangeVariantSelection))
	}
}

// applyUpdate merges one incoming record into this version. The
// version is located already; only status, date and variant fields
// remain. Returns true iff something changed.
func (v *Version) applyUpdate(statusText string, releaseDate time.Time, a arch.ID, t imagetype.ID, board, url, sha256, md5 string, size int64, prerelease func()) bool {
	incoming := ParseVersionStatus(statusText)
	if incoming > v.status {
		// Status never regresses toward alpha; drop the whole update.
		return false
	}
	changed := false
	if incoming != v.status {
		v.status = incoming
		changed = true
		v.notify(v.change(ChangeVersionStatus))
		if incoming == Final && prerelease != nil {
			prerelease()
		}
	}
	if !releaseDate.IsZero() && !v.releaseDate.Equal(releaseDate) {
		v.releaseDate = releaseDate
		changed = true
		v.notify(v.change(ChangeReleaseDate))
	}

	if existing := v.FindVariant(a, board); existing != nil {
		return existing.applyFields(url, sha256, size) || changed
	}
	v.addVariant(newVariant(v.release, v.Number, a, t, board, url, sha256, md5, size, v.notify))
	return true
}
