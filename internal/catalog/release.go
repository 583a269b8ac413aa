package catalog

import (
	"strings"
	"time"

	"mediawriter/internal/arch"
	"mediawriter/internal/imagetype"
)

// LocalReleaseName is the sentinel identity of the user-local entry.
const LocalReleaseName = "custom"

// Release is one top-level product identity, stable across versions.
type Release struct {
	Name        string
	DisplayName string
	Summary     string
	Description string
	Icon        string
	Screenshots []string

	versions        []*Version
	selectedVersion int

	notify func(Change)
}

func newRelease(name, displayName, summary, description, icon string, screenshots []string, notify func(Change)) *Release {
	return &Release{
		Name:        name,
		DisplayName: displayName,
		Summary:     summary,
		Description: description,
		Icon:        icon,
		Screenshots: screenshots,
		notify:      notify,
	}
}

func (r *Release) change(kind ChangeKind) Change {
	return Change{Kind: kind, Release: r.Name}
}

// IsLocal reports whether this is the user-local entry, exempt from
// network merges and filtering.
func (r *Release) IsLocal() bool {
	return r.Name == LocalReleaseName
}

// Versions returns the version list in descending string order.
func (r *Release) Versions() []*Version { return r.versions }

// VersionNames lists the display names of all versions.
func (r *Release) VersionNames() []string {
	out := make([]string, 0, len(r.versions))
	for _, v := range r.versions {
		out = append(out, v.Name())
	}
	return out
}

// Prerelease returns the newest version's name when it is not final,
// else the empty string.
func (r *Release) Prerelease() string {
	if len(r.versions) == 0 || r.versions[0].Status() == Final {
		return ""
	}
	return r.versions[0].Name()
}

// SelectedVersion returns the currently selected version, nil when the
// list is empty.
func (r *Release) SelectedVersion() *Version {
	if r.selectedVersion >= 0 && r.selectedVersion < len(r.versions) {
		return r.versions[r.selectedVersion]
	}
	return nil
}

// SelectedVersionIndex returns the selection index.
func (r *Release) SelectedVersionIndex() int { return r.selectedVersion }

// SetSelectedVersionIndex moves the selection to an existing version.
func (r *Release) SetSelectedVersionIndex(i int) {
	if r.selectedVersion != i && i >= 0 && i < len(r.versions) {
		r.selectedVersion = i
		r.notify(r.change(ChangeVersionSelection))
	}
}

// FindVersion locates a version by exact number.
func (r *Release) FindVersion(number string) *Version {
	for _, v := range r.versions {
		if v.Number == number {
			return v
		}
	}
	return nil
}

// ContainsArch reports whether any variant across all versions has the
// given architecture.
func (r *Release) ContainsArch(a arch.ID) bool {
	for _, v := range r.versions {
		for _, va := range v.Variants() {
			if va.Arch == a {
				return true
			}
		}
	}
	return false
}

// addVersion inserts preserving descending string order of version
// numbers: before the first existing version whose number compares
// less. Inserting a non-final version at or before the current
// selection shifts the selection so it stays on the same version.
func (r *Release) addVersion(v *Version) {
	for i := range r.versions {
		if r.versions[i].Number < v.Number {
			r.versions = append(r.versions, nil)
			copy(r.versions[i+1:], r.versions[i:])
			r.versions[i] = v
			r.notify(r.change(ChangeVersionList))
			if v.Status() != Final && r.selectedVersion >= i {
				r.selectedVersion++
			}
			r.notify(r.change(ChangeVersionSelection))
			return
		}
	}
	r.versions = append(r.versions, v)
	r.notify(r.change(ChangeVersionList))
	r.notify(r.change(ChangeVersionSelection))
}

// removeVersion drops a version, resetting the selection to the top
// entry when the selected version is evicted.
func (r *Release) removeVersion(v *Version) {
	idx := -1
	for i := range r.versions {
		if r.versions[i] == v {
			idx = i
			break
		}
	}
	if v == nil || idx < 0 {
		return
	}
	if r.selectedVersion == idx {
		r.selectedVersion = 0
		r.notify(r.change(ChangeVersionSelection))
	}
	r.versions = append(r.versions[:idx], r.versions[idx+1:]...)
	r.notify(r.change(ChangeVersionList))
}

// enforceRetention caps simultaneously final versions at two. When
// exceeded, the version with the smallest number wins eviction. The
// comparison is by string, not numeric value, so "9" outlives "40";
// this mirrors the upstream feed contract.
func (r *Release) enforceRetention() {
	finals := 0
	for _, v := range r.versions {
		if v.Status() == Final {
			finals++
		}
	}
	if finals <= 2 || len(r.versions) == 0 {
		return
	}
	oldest := r.versions[0]
	for _, v := range r.versions[1:] {
		if v.Number < oldest.Number {
			oldest = v
		}
	}
	r.removeVersion(oldest)
}

// applyUpdate merges one incoming record scoped to this release.
func (r *Release) applyUpdate(number, statusText string, releaseDate time.Time, a arch.ID, t imagetype.ID, board, url, sha256, md5 string, size int64) bool {
	if v := r.FindVersion(number); v != nil {
		changed := v.applyUpdate(statusText, releaseDate, a, t, board, url, sha256, md5, size, func() {
			r.notify(r.change(ChangePrerelease))
		})
		if changed {
			// A prerelease turning final counts toward the cap, so a
			// pure status upgrade can evict the smallest-numbered
			// version here. Feeds that only ever add new numbers never
			// hit this path.
			r.enforceRetention()
		}
		return changed
	}

	status := ParseVersionStatus(statusText)
	v := newVersion(r.Name, number, status, releaseDate, r.notify)
	v.addVariant(newVariant(r.Name, number, a, t, board, url, sha256, md5, size, r.notify))
	r.addVersion(v)
	if status != Final {
		r.notify(r.change(ChangePrerelease))
	}
	r.enforceRetention()
	return true
}

// SetLocalFile points the user-local entry at a file on disk,
// replacing its single synthesized version.
func (r *Release) SetLocalFile(path string, size int64) {
	if len(r.versions) == 1 {
		r.versions = r.versions[:0]
	}
	v := newVersion(r.Name, "0", Final, time.Time{}, r.notify)
	v.variants = append(v.variants, newLocalVariant(r.Name, v.Number, path, size, r.notify))
	r.versions = append(r.versions, v)
	r.notify(r.change(ChangeVersionList))
	r.notify(r.change(ChangeVersionSelection))
}

// matchesKey reports whether the release is the merge target for a
// feed match key: case-insensitive substring match against the name.
func (r *Release) matchesKey(key string) bool {
	return strings.Contains(strings.ToLower(r.Name), strings.ToLower(key))
}
