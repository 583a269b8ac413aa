package arch

import "strings"

// ID indexes the fixed architecture table. Declaration order is the
// total order used for variant insertion and for filter indices.
type ID int

const (
	X8664 ID = iota
	X86
	ARM
	AArch64
	MIPSel
	RiscV64
	E2K
	PPC64LE
	Unknown

	Count
)

// Architecture describes one known CPU architecture. The first
// abbreviation is the canonical one.
type Architecture struct {
	Abbreviations []string
	Description   string
}

var table = [Count]Architecture{
	{Abbreviations: []string{"x86-64"}, Description: "AMD 64bit"},
	{Abbreviations: []string{"x86", "i386", "i586", "i686"}, Description: "Intel 32bit"},
	{Abbreviations: []string{"armv7hl", "armhfp", "armh"}, Description: "ARM v7"},
	{Abbreviations: []string{"aarch64"}, Description: "AArch64"},
	{Abbreviations: []string{"mipsel"}, Description: "MIPS"},
	{Abbreviations: []string{"riscv", "riscv64"}, Description: "RiscV64"},
	{Abbreviations: []string{"e2k"}, Description: "Elbrus"},
	{Abbreviations: []string{"ppc64le"}, Description: "PowerPC"},
	{Abbreviations: []string{"", "unknown"}, Description: "Unknown"},
}

// Valid reports whether the ID indexes the table.
func (id ID) Valid() bool {
	return id >= 0 && id < Count
}

// Abbreviation returns the canonical abbreviation.
func (id ID) Abbreviation() string {
	if !id.Valid() {
		return ""
	}
	return table[id].Abbreviations[0]
}

// Description returns the human-readable architecture description.
func (id ID) Description() string {
	if !id.Valid() {
		return ""
	}
	return table[id].Description
}

// Get returns the table entry for id.
func Get(id ID) (Architecture, bool) {
	if !id.Valid() {
		return Architecture{}, false
	}
	return table[id], true
}

// FromAbbreviation resolves an abbreviation to an architecture by
// case-insensitive exact match. The empty string resolves to Unknown.
func FromAbbreviation(abbr string) (ID, bool) {
	for i := ID(0); i < Count; i++ {
		for _, a := range table[i].Abbreviations {
			if strings.EqualFold(a, abbr) {
				return i, true
			}
		}
	}
	return Unknown, false
}

// FromFilename guesses the architecture from a file name or URL by
// case-insensitive substring match. The first table entry that matches
// wins; empty abbreviations are skipped so unrelated names miss.
func FromFilename(filename string) (ID, bool) {
	lower := strings.ToLower(filename)
	for i := ID(0); i < Count; i++ {
		for _, a := range table[i].Abbreviations {
			if a == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(a)) {
				return i, true
			}
		}
	}
	return Unknown, false
}

// IsKnown reports whether the abbreviation maps to a table entry.
func IsKnown(abbr string) bool {
	_, ok := FromAbbreviation(abbr)
	return ok
}

// All returns the full table in declaration order.
func All() []Architecture {
	out := make([]Architecture, Count)
	copy(out[:], table[:])
	return out
}

// Descriptions returns every description in declaration order, for
// filter drop-downs.
func Descriptions() []string {
	out := make([]string, 0, Count)
	for _, a := range table {
		out = append(out, a.Description)
	}
	return out
}
