package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mediawriter/internal/cache"
	"mediawriter/internal/catalog"
	"mediawriter/internal/feed"
	"mediawriter/internal/imagetype"
)

func testRef(t *testing.T, url, sum string, size int64) catalog.Ref {
	t.Helper()
	c := catalog.New()
	c.Seed([]catalog.ReleaseInfo{{Name: "alt-workstation", DisplayName: "ALT Workstation"}})
	ok := c.ApplyUpdate(catalog.Update{
		ReleaseKey: "workstation",
		Version:    "10",
		Arch:       "x86-64",
		ImageType:  imagetype.ISO,
		Board:      "PC",
		URL:        url,
		SHA256:     sum,
		Size:       size,
	})
	if !ok {
		t.Fatalf("seed update rejected")
	}
	r := c.Find("workstation")
	v := r.FindVersion("10")
	return catalog.Ref{Release: r, Version: v, Variant: v.SelectedVariant()}
}

func TestDownloadAndVerify(t *testing.T) {
	t.Parallel()
	payload := []byte("alt-workstation-image-payload")
	h := sha256.Sum256(payload)
	sum := hex.EncodeToString(h[:])

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/MD5SUM" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	m := &Manager{Dir: t.TempDir()}
	ref := testRef(t, srv.URL+"/alt-workstation-10-x86_64.iso", sum, int64(len(payload)))

	if err := m.Download(context.Background(), ref, nil); err != nil {
		t.Fatalf("download: %v", err)
	}

	va := ref.Variant
	if va.Status(false) != catalog.Ready {
		t.Fatalf("expected ready, got %v", va.Status(false))
	}
	got, err := os.ReadFile(va.ImagePath())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch")
	}
	if _, err := os.Stat(va.ImagePath() + ".part"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind")
	}
}

func TestDownloadCorruptedImage(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/MD5SUM" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("tampered payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	m := &Manager{Dir: dir}
	wrong := sha256.Sum256([]byte("what the server should have sent"))
	ref := testRef(t, srv.URL+"/alt-workstation-10-x86_64.iso", hex.EncodeToString(wrong[:]), 0)

	if err := m.Download(context.Background(), ref, nil); err == nil {
		t.Fatalf("expected a digest mismatch")
	}
	va := ref.Variant
	if va.Status(false) != catalog.FailedDownload {
		t.Fatalf("expected failed download, got %v", va.Status(false))
	}
	if va.ErrorString() == "" {
		t.Fatalf("expected an error description")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("corrupted file must be removed, found %v", entries)
	}
}

func TestDownloadAlreadyOnDisk(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	payload := []byte("already here")
	if err := os.WriteFile(filepath.Join(dir, "alt-workstation-10-x86_64.iso"), payload, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := &Manager{Dir: dir}
	// Recorded size is wrong on purpose; it must be corrected.
	ref := testRef(t, "http://unreachable.invalid/alt-workstation-10-x86_64.iso", "", 999)

	if err := m.Download(context.Background(), ref, nil); err != nil {
		t.Fatalf("download: %v", err)
	}
	va := ref.Variant
	if va.Status(false) != catalog.Ready {
		t.Fatalf("expected ready, got %v", va.Status(false))
	}
	if va.Size() != int64(len(payload)) {
		t.Fatalf("size not corrected: %d", va.Size())
	}
}

func TestDownloadResume(t *testing.T) {
	t.Parallel()
	payload := []byte("0123456789abcdefghij")
	h := sha256.Sum256(payload)
	sum := hex.EncodeToString(h[:])

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/MD5SUM" {
			http.NotFound(w, r)
			return
		}
		if rng := r.Header.Get("Range"); rng == "bytes=10-" {
			w.Header().Set("Content-Range", "bytes 10-19/20")
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write(payload[10:])
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	// A previous run left half the file behind.
	if err := os.WriteFile(filepath.Join(dir, "alt-workstation-10-x86_64.iso.part"), payload[:10], 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := &Manager{Dir: dir}
	ref := testRef(t, srv.URL+"/alt-workstation-10-x86_64.iso", sum, int64(len(payload)))

	if err := m.Download(context.Background(), ref, nil); err != nil {
		t.Fatalf("download: %v", err)
	}
	got, err := os.ReadFile(ref.Variant.ImagePath())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("resumed payload mismatch: %q", got)
	}
}

func TestDownloadMD5Sidecar(t *testing.T) {
	t.Parallel()
	payload := []byte("image with a sidecar")
	h := sha256.Sum256(payload)
	sum := hex.EncodeToString(h[:])

	var imageURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/MD5SUM" {
			_, _ = w.Write([]byte("abcdef0123456789  alt-workstation-10-x86_64.iso\n"))
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()
	imageURL = srv.URL + "/alt-workstation-10-x86_64.iso"

	store := cache.NewStore(t.TempDir())
	cached := "entries:\n  - solution: alt-workstation\n    link: " + imageURL + "\n    arch: x86-64\n"
	_ = store.Save("workstation.yml", []byte(cached))

	m := &Manager{
		Dir:     t.TempDir(),
		Store:   store,
		Sources: []string{"workstation.yml"},
	}
	ref := testRef(t, imageURL, sum, int64(len(payload)))

	if err := m.Download(context.Background(), ref, nil); err != nil {
		t.Fatalf("download: %v", err)
	}
	if ref.Variant.MD5() != "abcdef0123456789" {
		t.Fatalf("sidecar checksum not recorded: %q", ref.Variant.MD5())
	}

	raw, err := store.Load("workstation.yml")
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}
	doc, err := feed.ParseDocument(raw)
	if err != nil {
		t.Fatalf("parse cache: %v", err)
	}
	if doc.Entries[0].MD5 != "abcdef0123456789" {
		t.Fatalf("cached feed not patched: %+v", doc.Entries[0])
	}
}

func TestErase(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	img := filepath.Join(dir, "alt-workstation-10-x86_64.iso")
	if err := os.WriteFile(img, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := &Manager{Dir: dir}
	ref := testRef(t, "http://x/alt-workstation-10-x86_64.iso", "", 1)
	ref.Variant.SetImagePath(img)

	if err := m.Erase(ref.Variant); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if ref.Variant.ImagePath() != "" {
		t.Fatalf("image path not cleared")
	}
	if _, err := os.Stat(img); !os.IsNotExist(err) {
		t.Fatalf("file still present")
	}
}
