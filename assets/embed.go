// Package assets carries the built-in copies of the sections and entry
// feed documents, used to seed the catalog when no cached copies exist.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:embed sections images
var content embed.FS

// Sections returns every built-in sections document, in file name order.
func Sections() [][]byte {
	entries, err := fs.ReadDir(content, "sections")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	out := make([][]byte, 0, len(names))
	for _, n := range names {
		raw, err := content.ReadFile(path.Join("sections", n))
		if err != nil {
			continue
		}
		out = append(out, raw)
	}
	return out
}

// Feed returns the built-in copy of one entry feed.
func Feed(name string) ([]byte, bool) {
	raw, err := content.ReadFile(path.Join("images", name))
	if err != nil {
		return nil, false
	}
	return raw, true
}

// FeedNames lists the built-in entry feed file names, sorted.
func FeedNames() []string {
	entries, err := fs.ReadDir(content, "images")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
