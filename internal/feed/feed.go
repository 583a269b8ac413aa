// Package feed parses the remote metadata documents describing
// available OS images: per-image entry feeds, the sections documents
// seeding release identities, and checksum sidecar listings.
package feed

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mediawriter/internal/arch"
	"mediawriter/internal/catalog"
	"mediawriter/internal/imagetype"
)

// defaultVersion and defaultStatus fill fields the entry feed does not
// carry yet.
const (
	defaultVersion = "9"
	defaultStatus  = ""
	defaultBoard   = "PC"
)

// Entry is one image record of an entry feed.
type Entry struct {
	Link     string `yaml:"link"`
	Solution string `yaml:"solution"`
	Arch     string `yaml:"arch"`
	Board    string `yaml:"board"`
	MD5      string `yaml:"md5"`
}

// Document is one parsed entry feed.
type Document struct {
	Entries []Entry `yaml:"entries"`
}

// ParseDocument decodes an entry feed.
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("parse entry feed: %w", err)
	}
	return doc, nil
}

// Marshal re-encodes the document, used when patching cached feeds.
func (d Document) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode entry feed: %w", err)
	}
	return out, nil
}

// SetMD5ForLink records a checksum on the entry matching the link.
func (d *Document) SetMD5ForLink(link, sum string) bool {
	for i := range d.Entries {
		if d.Entries[i].Link == link {
			d.Entries[i].MD5 = sum
			return true
		}
	}
	return false
}

// Update converts the entry into a merge record. A missing arch is
// derived from the link by filename heuristic; a missing board means a
// plain PC image. The feed does not carry sha256, release date or size
// yet, so those default to empty and zero.
func (e Entry) Update() catalog.Update {
	archAbbrev := cleanText(e.Arch)
	if archAbbrev == "" {
		if id, ok := arch.FromFilename(e.Link); ok {
			archAbbrev = id.Abbreviation()
		} else {
			archAbbrev = "unknown"
		}
	}
	board := cleanText(e.Board)
	if board == "" {
		board = defaultBoard
	}
	return catalog.Update{
		ReleaseKey:  cleanText(e.Solution),
		Version:     defaultVersion,
		Status:      defaultStatus,
		ReleaseDate: time.Time{},
		Arch:        archAbbrev,
		ImageType:   imagetype.FromFilename(e.Link),
		Board:       board,
		URL:         cleanText(e.Link),
		MD5:         cleanText(e.MD5),
	}
}

// Member is one release identity in a sections document.
type Member struct {
	Code        string `yaml:"code"`
	NameEn      string `yaml:"name_en"`
	NameRu      string `yaml:"name_ru"`
	DescrEn     string `yaml:"descr_en"`
	DescrRu     string `yaml:"descr_ru"`
	DescrFullEn string `yaml:"descr_full_en"`
	DescrFullRu string `yaml:"descr_full_ru"`
	Img         string `yaml:"img"`
}

// Sections is one parsed sections document.
type Sections struct {
	Members []Member `yaml:"members"`
}

// ParseSections decodes a sections document.
func ParseSections(raw []byte) (Sections, error) {
	var s Sections
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Sections{}, fmt.Errorf("parse sections: %w", err)
	}
	return s, nil
}

// ReleaseInfo projects the member into a seed record for the requested
// language ("ru" or anything else for English).
func (m Member) ReleaseInfo(lang string) catalog.ReleaseInfo {
	name, summary, description := m.NameEn, m.DescrEn, m.DescrFullEn
	if lang == "ru" {
		name, summary, description = m.NameRu, m.DescrRu, m.DescrFullRu
	}
	return catalog.ReleaseInfo{
		Name:        cleanText(m.Code),
		DisplayName: cleanText(name),
		Summary:     cleanText(summary),
		Description: cleanText(description),
		Icon:        m.Img,
	}
}

// FindMD5 scans a checksum sidecar listing of "sum filename" pairs for
// the entry whose filename appears in the image URL and returns the
// preceding sum.
func FindMD5(listing, url string) (string, bool) {
	fields := strings.Fields(listing)
	prev := ""
	for _, f := range fields {
		if f != "" && prev != "" && strings.Contains(url, f) {
			return prev, true
		}
		prev = f
	}
	return "", false
}

// cleanText strips HTML character entities that do not render and
// flattens newlines, the way the upstream documents need it.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "&colon;", ":")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
