package imagetype

import "strings"

// ID indexes the fixed image type table.
type ID int

const (
	ISO ID = iota
	Tar
	TarGz
	TarXz
	Img
	ImgGz
	ImgXz
	RecoveryTar
	Unknown

	Count
)

var abbreviations = [Count][]string{
	{"iso", "dvd"},
	{"tar"},
	{"tgz", "tar.gz"},
	{"archive", "tar.xz"},
	{"img"},
	{"igz", "img.gz"},
	{"ixz", "img.xz"},
	{"trc", "recovery.tar"},
	{},
}

var names = [Count]string{
	"ISO DVD",
	"TAR Archive",
	"GZIP TAR Archive",
	"LZMA TAR Archive",
	"IMG",
	"GZIP IMG",
	"LZMA IMG",
	"Recovery TAR Archive",
	"Unknown",
}

// Valid reports whether the ID indexes the table.
func (id ID) Valid() bool {
	return id >= 0 && id < Count
}

// Abbreviations returns the file name suffixes for this type.
func (id ID) Abbreviations() []string {
	if !id.Valid() {
		return nil
	}
	return abbreviations[id]
}

// Name returns the human-readable type name.
func (id ID) Name() string {
	if !id.Valid() {
		return ""
	}
	return names[id]
}

// SupportedForWriting reports whether images of this type can be
// written to a drive directly.
func (id ID) SupportedForWriting() bool {
	switch id {
	case TarGz, TarXz, ImgGz, RecoveryTar, Unknown:
		return false
	}
	return id.Valid()
}

// CanWriteWithRootfs reports whether the type is written through the
// rootfs restore path instead of a raw block copy.
func (id ID) CanWriteWithRootfs() bool {
	return id == TarXz
}

// CanCheckAfterWrite reports whether written media can be verified
// against the embedded checksum.
func (id ID) CanCheckAfterWrite() bool {
	return id == ISO
}

// Compressed reports whether the payload needs decompression before a
// raw write.
func (id ID) Compressed() bool {
	switch id {
	case TarGz, TarXz, ImgGz, ImgXz:
		return true
	}
	return false
}

// FromFilename classifies a file name or URL by suffix. Table order
// decides ties; unmatched names classify as Unknown, never an error.
func FromFilename(filename string) ID {
	lower := strings.ToLower(filename)
	for i := ID(0); i < Count; i++ {
		for _, a := range abbreviations[i] {
			if strings.HasSuffix(lower, a) {
				return i
			}
		}
	}
	return Unknown
}

// All returns every type in table order.
func All() []ID {
	out := make([]ID, 0, Count)
	for i := ID(0); i < Count; i++ {
		out = append(out, i)
	}
	return out
}

// FileNameFilters renders file dialog filter strings, one per known
// type plus a trailing all-files entry.
func FileNameFilters() []string {
	out := make([]string, 0, Count)
	for i := ID(0); i < Count; i++ {
		if i == Unknown {
			continue
		}
		exts := make([]string, 0, len(abbreviations[i]))
		for _, a := range abbreviations[i] {
			exts = append(exts, "*."+a)
		}
		out = append(out, names[i]+" ("+strings.Join(exts, " ")+")")
	}
	out = append(out, "All files (*)")
	return out
}
