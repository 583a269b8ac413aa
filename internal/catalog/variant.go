package catalog

import (
	"path/filepath"
	"strings"

	"mediawriter/internal/arch"
	"mediawriter/internal/imagetype"
)

// TransferStatus is the download/write state of one variant.
type TransferStatus int

const (
	Preparing TransferStatus = iota
	Downloading
	Resuming
	DownloadVerifying
	Ready
	WritingNotPossible
	Writing
	WriteVerifying
	Finished
	FailedVerification
	FailedDownload
	Failed
)

var statusStrings = map[TransferStatus]string{
	Preparing:          "Preparing",
	Downloading:        "Downloading",
	Resuming:           "Resuming download",
	DownloadVerifying:  "Checking the download",
	Ready:              "Ready to write",
	WritingNotPossible: "Image file was saved to your downloads folder. Writing is not possible",
	Writing:            "Writing",
	WriteVerifying:     "Checking the written data",
	Finished:           "Finished!",
	FailedVerification: "The written data is corrupted",
	FailedDownload:     "Download failed",
	Failed:             "Error",
}

// String returns the user-facing status text.
func (s TransferStatus) String() string {
	return statusStrings[s]
}

// Failed reports whether the status is one of the terminal failures.
func (s TransferStatus) Failed() bool {
	return s == FailedVerification || s == FailedDownload || s == Failed
}

// Progress is a current/total byte pair for an in-flight transfer.
type Progress struct {
	Current int64
	Total   int64
}

// Variant is one downloadable image of a version, keyed by
// architecture and board. Unique by (Arch, Board) within its version.
type Variant struct {
	Arch      arch.ID
	Board     string
	ImageType imagetype.ID

	url       string
	sha256    string
	md5       string
	size      int64
	realSize  int64
	imagePath string

	status   TransferStatus
	errorStr string
	progress Progress

	release string
	version string
	notify  func(Change)
}

func newVariant(release, version string, a arch.ID, t imagetype.ID, board, url, sha256, md5 string, size int64, notify func(Change)) *Variant {
	return &Variant{
		Arch:      a,
		Board:     board,
		ImageType: t,
		url:       url,
		sha256:    sha256,
		md5:       md5,
		size:      size,
		release:   release,
		version:   version,
		notify:    notify,
	}
}

// newLocalVariant builds the variant backing a user-picked local file.
func newLocalVariant(release, version, file string, size int64, notify func(Change)) *Variant {
	v := newVariant(release, version, arch.X8664, imagetype.FromFilename(file), "UNKNOWN BOARD", "", "", "", size, notify)
	v.imagePath = file
	v.status = Ready
	return v
}

func (v *Variant) change(kind ChangeKind) Change {
	return Change{Kind: kind, Release: v.release, Version: v.version, Arch: v.Arch, Board: v.Board}
}

func (v *Variant) URL() string    { return v.url }
func (v *Variant) SHA256() string { return v.sha256 }
func (v *Variant) MD5() string    { return v.md5 }
func (v *Variant) Size() int64    { return v.size }

// RealSize is the post-decompression size, defaulting to Size until an
// explicit decompressed size is known.
func (v *Variant) RealSize() int64 {
	if v.realSize <= 0 {
		return v.size
	}
	return v.realSize
}

// ImagePath is the local file path once the image is on disk.
func (v *Variant) ImagePath() string { return v.imagePath }

// Name combines the architecture description and the board name.
func (v *Variant) Name() string {
	return v.Arch.Description() + " | " + v.Board
}

// Progress returns the current transfer progress.
func (v *Variant) Progress() Progress { return v.progress }

// Status returns the stored transfer status. writerBroken derives
// WritingNotPossible from Ready; the override is computed, not stored.
func (v *Variant) Status(writerBroken bool) TransferStatus {
	if v.status == Ready && writerBroken {
		return WritingNotPossible
	}
	return v.status
}

// ErrorString is the human-readable description of a failure status.
func (v *Variant) ErrorString() string { return v.errorStr }

// SetStatus records a state machine transition driven by the download
// or write collaborator.
func (v *Variant) SetStatus(s TransferStatus) {
	if v.status != s {
		v.status = s
		v.notify(v.change(ChangeTransferStatus))
	}
}

// SetErrorString updates the failure description.
func (v *Variant) SetErrorString(s string) {
	if v.errorStr != s {
		v.errorStr = s
		v.notify(v.change(ChangeErrorString))
	}
}

// SetProgress updates the transfer progress pair.
func (v *Variant) SetProgress(current, total int64) {
	p := Progress{Current: current, Total: total}
	if v.progress != p {
		v.progress = p
		v.notify(v.change(ChangeProgress))
	}
}

// SetImagePath records where the image lives on disk.
func (v *Variant) SetImagePath(path string) {
	if v.imagePath != path {
		v.imagePath = path
		v.notify(v.change(ChangeImage))
	}
}

// SetSize corrects the download size, e.g. to the actual file size
// after a finished download. The real size observable follows.
func (v *Variant) SetSize(size int64) {
	if v.size != size {
		v.size = size
		v.notify(v.change(ChangeSize))
		v.notify(v.change(ChangeRealSize))
	}
}

// SetRealSize records the decompressed payload size.
func (v *Variant) SetRealSize(size int64) {
	if v.realSize != size {
		v.realSize = size
		v.notify(v.change(ChangeRealSize))
	}
}

// SetMD5 stores a checksum discovered after the fact, e.g. from a
// sidecar checksum listing.
func (v *Variant) SetMD5(sum string) {
	if v.md5 != sum {
		v.md5 = sum
		v.notify(v.change(ChangeMD5))
	}
}

// ResetStatus returns the variant to Ready when its image file is
// already present, else to Preparing, clearing error and progress.
func (v *Variant) ResetStatus() {
	if v.imagePath != "" {
		v.SetStatus(Ready)
	} else {
		v.SetStatus(Preparing)
		v.SetProgress(0, 0)
	}
	v.SetErrorString("")
}

// Erase forgets the local image path. Removing the file itself is the
// caller's job.
func (v *Variant) Erase() {
	v.SetImagePath("")
}

// applyFields merges incoming feed fields. Only non-empty values that
// differ after trimming overwrite; size only when nonzero.
func (v *Variant) applyFields(url, sha256 string, size int64) bool {
	changed := false
	if url != "" && strings.TrimSpace(v.url) != strings.TrimSpace(url) {
		v.url = url
		v.notify(v.change(ChangeURL))
		changed = true
	}
	if sha256 != "" && strings.TrimSpace(v.sha256) != strings.TrimSpace(sha256) {
		v.sha256 = sha256
		v.notify(v.change(ChangeSHA256))
		changed = true
	}
	if size != 0 && v.size != size {
		v.size = size
		v.notify(v.change(ChangeSize))
		v.notify(v.change(ChangeRealSize))
		changed = true
	}
	return changed
}

func localImageBase(path string) string {
	return filepath.Base(path)
}
