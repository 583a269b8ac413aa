package imagetype

import (
	"strings"
	"testing"
)

func TestFromFilename(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want ID
	}{
		{"alt-workstation-10.1-x86_64.iso", ISO},
		{"alt-server-10.dvd", ISO},
		{"rootfs-minimal.tar.xz", TarXz},
		{"backup.tar.gz", TarGz},
		{"raw-disk.img", Img},
		{"alt-rpi4.img.xz", ImgXz},
		{"alt-rpi4.img.gz", ImgGz},
		{"README.txt", Unknown},
	}
	for _, c := range cases {
		if got := FromFilename(c.in); got != c.want {
			t.Fatalf("FromFilename(%q) = %v (%s), want %v (%s)", c.in, got, got.Name(), c.want, c.want.Name())
		}
	}
}

func TestCapabilities(t *testing.T) {
	t.Parallel()
	if !ISO.SupportedForWriting() || !Img.SupportedForWriting() || !ImgXz.SupportedForWriting() {
		t.Fatalf("raw-writable types must support writing")
	}
	if TarGz.SupportedForWriting() || RecoveryTar.SupportedForWriting() || Unknown.SupportedForWriting() {
		t.Fatalf("archive types must not support direct writing")
	}
	if !TarXz.CanWriteWithRootfs() || ISO.CanWriteWithRootfs() {
		t.Fatalf("only lzma tar archives go through the rootfs path")
	}
	if !ISO.CanCheckAfterWrite() || ImgXz.CanCheckAfterWrite() {
		t.Fatalf("only iso images are verifiable after write")
	}
	if !ImgXz.Compressed() || !TarGz.Compressed() || ISO.Compressed() {
		t.Fatalf("compression flags are wrong")
	}
}

func TestFileNameFilters(t *testing.T) {
	t.Parallel()
	filters := FileNameFilters()
	if len(filters) != int(Count) {
		t.Fatalf("expected %d filters, got %d", Count, len(filters))
	}
	if filters[0] != "ISO DVD (*.iso *.dvd)" {
		t.Fatalf("unexpected first filter: %q", filters[0])
	}
	if filters[len(filters)-1] != "All files (*)" {
		t.Fatalf("expected the all-files fallback last, got %q", filters[len(filters)-1])
	}
	for _, f := range filters[:len(filters)-1] {
		if !strings.Contains(f, "(*.") {
			t.Fatalf("filter without extensions: %q", f)
		}
	}
}
