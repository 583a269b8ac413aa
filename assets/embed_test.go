package assets

import (
	"testing"

	"mediawriter/internal/feed"
)

func TestSectionsParse(t *testing.T) {
	t.Parallel()
	docs := Sections()
	if len(docs) == 0 {
		t.Fatalf("expected built-in sections documents")
	}
	total := 0
	for _, raw := range docs {
		s, err := feed.ParseSections(raw)
		if err != nil {
			t.Fatalf("built-in sections must parse: %v", err)
		}
		total += len(s.Members)
	}
	if total < 4 {
		t.Fatalf("expected at least 4 release identities, got %d", total)
	}
}

func TestFeedsParse(t *testing.T) {
	t.Parallel()
	names := FeedNames()
	if len(names) != 4 {
		t.Fatalf("expected 4 built-in feeds, got %v", names)
	}
	for _, n := range names {
		raw, ok := Feed(n)
		if !ok {
			t.Fatalf("feed %s missing", n)
		}
		doc, err := feed.ParseDocument(raw)
		if err != nil {
			t.Fatalf("feed %s must parse: %v", n, err)
		}
		if len(doc.Entries) == 0 {
			t.Fatalf("feed %s has no entries", n)
		}
	}
	if _, ok := Feed("nope.yml"); ok {
		t.Fatalf("unknown feed must report missing")
	}
}
