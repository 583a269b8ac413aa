package arch

import "testing"

func TestFromAbbreviation(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want ID
		ok   bool
	}{
		{"x86-64", X8664, true},
		{"X86-64", X8664, true},
		{"i586", X86, true},
		{"armh", ARM, true},
		{"aarch64", AArch64, true},
		{"riscv64", RiscV64, true},
		{"ppc64le", PPC64LE, true},
		{"", Unknown, true},
		{"unknown", Unknown, true},
		{"sparc", 0, false},
	}
	for _, c := range cases {
		got, ok := FromAbbreviation(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("FromAbbreviation(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestFromFilename(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want ID
		ok   bool
	}{
		{"alt-workstation-10.1-x86-64.iso", X8664, true},
		{"alt-server-10-AARCH64.img.xz", AArch64, true},
		{"slinux-9.2-e2k.iso", E2K, true},
		{"image-without-arch.iso", 0, false},
	}
	for _, c := range cases {
		got, ok := FromFilename(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("FromFilename(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestIsKnown(t *testing.T) {
	t.Parallel()
	if !IsKnown("x86-64") || !IsKnown("") {
		t.Fatalf("registry abbreviations must be known")
	}
	if IsKnown("sparc") {
		t.Fatalf("sparc is not in the registry")
	}
}

func TestDescriptions(t *testing.T) {
	t.Parallel()
	if X8664.Description() != "AMD 64bit" {
		t.Fatalf("unexpected description: %s", X8664.Description())
	}
	if X8664.Abbreviation() != "x86-64" {
		t.Fatalf("canonical abbreviation must be the first one")
	}
	if got := len(Descriptions()); got != int(Count) {
		t.Fatalf("expected %d descriptions, got %d", Count, got)
	}
}
