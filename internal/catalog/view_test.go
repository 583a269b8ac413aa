package catalog

import (
	"testing"

	"mediawriter/internal/arch"
)

func populated() *Catalog {
	c := seeded()
	c.ApplyUpdate(update("workstation", "10", "", "x86-64", "PC", "http://x/ws.iso", 1))
	c.ApplyUpdate(update("server", "10", "", "x86-64", "PC", "http://x/srv.iso", 1))
	c.ApplyUpdate(update("education", "10", "", "aarch64", "Raspberry Pi 4", "http://x/edu.img.xz", 1))
	return c
}

func TestViewFrontPage(t *testing.T) {
	t.Parallel()
	v := NewView(populated())

	got := v.Indices()
	if len(got) != FrontPageRows {
		t.Fatalf("front page must show %d rows, got %v", FrontPageRows, got)
	}
	for i, idx := range got {
		if idx != i {
			t.Fatalf("front page must be the first catalog positions, got %v", got)
		}
	}
}

func TestViewFullListArchFilter(t *testing.T) {
	t.Parallel()
	v := NewView(populated())
	v.SetFrontPage(false)

	// Default filter is the first architecture; education is aarch64 only.
	names := make([]string, 0)
	for _, r := range v.Rows() {
		names = append(names, r.Name)
	}
	want := []string{"alt-workstation", "alt-server", "custom"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}

	v.SetFilterArchitecture(arch.AArch64)
	names = names[:0]
	for _, r := range v.Rows() {
		names = append(names, r.Name)
	}
	want = []string{"custom", "alt-education"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestViewTextFilter(t *testing.T) {
	t.Parallel()
	v := NewView(populated())
	v.SetFrontPage(false)
	v.SetFilterText("work")

	names := make([]string, 0)
	for _, r := range v.Rows() {
		names = append(names, r.Name)
	}
	// The local entry always passes the text filter.
	want := []string{"alt-workstation", "custom"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestViewArchFilterRetargetsSelection(t *testing.T) {
	t.Parallel()
	c := populated()
	c.ApplyUpdate(update("workstation", "10", "", "aarch64", "Raspberry Pi 4", "http://x/ws-rpi.img.xz", 1))
	ver := c.Find("workstation").FindVersion("10")
	if ver.SelectedVariant().Arch != arch.X8664 {
		t.Fatalf("precondition: selection should start on x86-64")
	}

	v := NewView(c)
	v.SetFilterArchitecture(arch.AArch64)
	if ver.SelectedVariant().Arch != arch.AArch64 {
		t.Fatalf("architecture filter must retarget the variant selection")
	}
}

func TestViewInvalidArchIgnored(t *testing.T) {
	t.Parallel()
	v := NewView(populated())
	v.SetFilterArchitecture(arch.Count)
	if v.FilterArchitecture() != arch.X8664 {
		t.Fatalf("invalid filter must be ignored")
	}
}
