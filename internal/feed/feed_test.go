package feed

import (
	"strings"
	"testing"
)

const sampleFeed = `entries:
  - solution: alt-workstation
    link: http://getalt.org/images/alt-workstation-9.1-x86_64.iso
    arch: x86-64
  - solution: alt-server
    link: http://getalt.org/images/alt-server-9.1-aarch64.img.xz
    board: Raspberry Pi 4
`

func TestParseDocument(t *testing.T) {
	t.Parallel()
	doc, err := ParseDocument([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(doc.Entries))
	}
	if doc.Entries[1].Board != "Raspberry Pi 4" {
		t.Fatalf("unexpected board: %q", doc.Entries[1].Board)
	}
}

func TestParseDocumentMalformed(t *testing.T) {
	t.Parallel()
	if _, err := ParseDocument([]byte("entries: {")); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestEntryUpdateDefaults(t *testing.T) {
	t.Parallel()
	doc, err := ParseDocument([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	u := doc.Entries[0].Update()
	if u.ReleaseKey != "alt-workstation" || u.Arch != "x86-64" {
		t.Fatalf("unexpected update: %+v", u)
	}
	if u.Version != "9" || u.Status != "" || u.Board != "PC" {
		t.Fatalf("defaults not applied: %+v", u)
	}

	// The second entry has no arch field; it comes from the file name.
	u = doc.Entries[1].Update()
	if u.Arch != "aarch64" {
		t.Fatalf("expected arch from filename, got %q", u.Arch)
	}
	if u.Board != "Raspberry Pi 4" {
		t.Fatalf("explicit board lost: %q", u.Board)
	}
}

func TestEntryUpdateUnknownArch(t *testing.T) {
	t.Parallel()
	e := Entry{Solution: "alt-server", Link: "http://x/plain-name.iso"}
	if u := e.Update(); u.Arch != "unknown" {
		t.Fatalf("unresolvable arch must fall back to unknown, got %q", u.Arch)
	}
}

func TestSetMD5ForLinkRoundTrip(t *testing.T) {
	t.Parallel()
	doc, err := ParseDocument([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	link := doc.Entries[0].Link
	if !doc.SetMD5ForLink(link, "d41d8cd98f") {
		t.Fatalf("link should match")
	}
	if doc.SetMD5ForLink("http://x/other.iso", "ff") {
		t.Fatalf("unrelated link should not match")
	}

	out, err := doc.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := ParseDocument(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if again.Entries[0].MD5 != "d41d8cd98f" {
		t.Fatalf("checksum lost in round trip")
	}
}

func TestParseSections(t *testing.T) {
	t.Parallel()
	raw := []byte(`members:
  - code: alt-workstation
    name_en: ALT Workstation
    name_ru: Рабочая станция
    descr_en: "Desktop&nbsp;edition"
    descr_ru: "Настольная&nbsp;редакция"
    descr_full_en: "Install&colon; burn and boot"
    img: workstation
`)
	s, err := ParseSections(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(s.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(s.Members))
	}

	info := s.Members[0].ReleaseInfo("en")
	if info.Name != "alt-workstation" || info.DisplayName != "ALT Workstation" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.Summary != "Desktop edition" {
		t.Fatalf("entities not cleaned: %q", info.Summary)
	}
	if info.Description != "Install: burn and boot" {
		t.Fatalf("colon entity not cleaned: %q", info.Description)
	}

	ru := s.Members[0].ReleaseInfo("ru")
	if ru.DisplayName != "Рабочая станция" {
		t.Fatalf("russian name not selected: %q", ru.DisplayName)
	}
}

func TestFindMD5(t *testing.T) {
	t.Parallel()
	listing := strings.Join([]string{
		"0123456789abcdef  alt-workstation-9.1-x86_64.iso",
		"fedcba9876543210  alt-server-9.1-x86_64.iso",
	}, "\n")

	sum, ok := FindMD5(listing, "http://getalt.org/images/alt-server-9.1-x86_64.iso")
	if !ok || sum != "fedcba9876543210" {
		t.Fatalf("FindMD5 = %q, %v", sum, ok)
	}

	if _, ok := FindMD5(listing, "http://getalt.org/images/alt-education-9.1.iso"); ok {
		t.Fatalf("missing entry must not match")
	}
}
