// Package download retrieves variant images over HTTP with resume
// support and checksum verification, driving the variant transfer
// state machine on the way.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"mediawriter/internal/cache"
	"mediawriter/internal/catalog"
	"mediawriter/internal/feed"
	"mediawriter/internal/progress"
)

// maxResumes bounds how often an interrupted transfer is picked up
// before giving up.
const maxResumes = 5

// Manager downloads images into one directory and keeps the metadata
// cache in sync with checksums discovered along the way.
type Manager struct {
	Dir     string
	Client  *http.Client
	Store   *cache.Store
	Sources []string
}

func (m *Manager) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return http.DefaultClient
}

// TargetPath returns where the variant's image lands on disk.
func (m *Manager) TargetPath(v *catalog.Variant) string {
	u, err := url.Parse(v.URL())
	if err != nil || u.Path == "" {
		return filepath.Join(m.Dir, path.Base(v.URL()))
	}
	return filepath.Join(m.Dir, path.Base(u.Path))
}

// Download fetches the variant image, verifies it and leaves the
// variant Ready. Local-only variants short-circuit; images already on
// disk skip the transfer and only correct the recorded size.
func (m *Manager) Download(ctx context.Context, ref catalog.Ref, sink progress.Sink) error {
	if sink == nil {
		sink = progress.NopSink{}
	}
	v := ref.Variant

	if v.URL() == "" && v.ImagePath() != "" {
		v.SetStatus(catalog.Ready)
		return nil
	}
	v.ResetStatus()

	dest := m.TargetPath(v)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return m.fail(v, sink, err)
	}

	if st, err := os.Stat(dest); err == nil {
		v.SetImagePath(dest)
		v.SetStatus(catalog.Ready)
		if st.Size() != v.Size() {
			v.SetSize(st.Size())
		}
		log.Debug("Image is already downloaded", "path", dest)
		sink.Emit(progress.Event{Phase: progress.PhaseCompleted, Message: "image already downloaded", Percent: 100, Done: true})
		return nil
	}

	m.lookupMD5(ctx, v)

	v.SetStatus(catalog.Downloading)
	part := dest + ".part"
	if err := m.fetchWithResume(ctx, v, part, sink); err != nil {
		if errors.Is(err, context.Canceled) {
			v.ResetStatus()
			return err
		}
		return m.fail(v, sink, err)
	}

	v.SetErrorString("")
	v.SetStatus(catalog.DownloadVerifying)
	sink.Emit(progress.Event{Phase: progress.PhaseVerifying, Message: "verifying image digest"})
	if err := m.verify(v, part); err != nil {
		_ = os.Remove(part)
		v.SetErrorString("The downloaded image is corrupted")
		v.SetStatus(catalog.FailedDownload)
		sink.Emit(progress.Event{Phase: progress.PhaseFailed, Message: err.Error(), Err: err, Done: true})
		return err
	}

	if err := os.Rename(part, dest); err != nil {
		v.SetErrorString("Unable to rename the temporary file.")
		v.SetStatus(catalog.FailedDownload)
		return err
	}
	v.SetImagePath(dest)
	v.SetStatus(catalog.Ready)
	if st, err := os.Stat(dest); err == nil && st.Size() != v.Size() {
		v.SetSize(st.Size())
	}
	sink.Emit(progress.Event{Phase: progress.PhaseCompleted, Message: "image ready", Percent: 100, Done: true})
	return nil
}

// Erase removes the variant's downloaded image from disk.
func (m *Manager) Erase(v *catalog.Variant) error {
	img := v.ImagePath()
	if img == "" {
		return nil
	}
	if err := os.Remove(img); err != nil {
		log.Warn("An attempt to delete the image failed", "path", img, "err", err)
		return err
	}
	log.Debug("Deleted image", "path", img)
	v.Erase()
	return nil
}

func (m *Manager) fail(v *catalog.Variant, sink progress.Sink, err error) error {
	v.SetErrorString(err.Error())
	v.SetStatus(catalog.FailedDownload)
	sink.Emit(progress.Event{Phase: progress.PhaseFailed, Message: err.Error(), Err: err, Done: true})
	return err
}

// fetchWithResume streams the image into part, resuming with Range
// requests after interruptions.
func (m *Manager) fetchWithResume(ctx context.Context, v *catalog.Variant, part string, sink progress.Sink) error {
	resumes := 0
	for {
		err := m.fetchOnce(ctx, v, part, sink)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return context.Canceled
		}
		resumes++
		if resumes > maxResumes {
			return fmt.Errorf("download interrupted too many times: %w", err)
		}
		v.SetErrorString("Connection was interrupted, attempting to resume")
		v.SetStatus(catalog.Resuming)
		sink.Emit(progress.Event{Phase: progress.PhaseResuming, Message: "resuming download"})
		v.SetStatus(catalog.Downloading)
	}
}

func (m *Manager) fetchOnce(ctx context.Context, v *catalog.Variant, part string, sink progress.Sink) error {
	existing := int64(0)
	if st, err := os.Stat(part); err == nil {
		existing = st.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.URL(), nil)
	if err != nil {
		return err
	}
	if existing > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", existing))
	}

	resp, err := m.client().Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if resp.StatusCode == http.StatusPartialContent && existing > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
		existing = 0
	}

	file, err := os.OpenFile(part, flags, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	total := v.Size()
	if total <= 0 && resp.ContentLength > 0 {
		total = existing + resp.ContentLength
	}
	v.SetProgress(existing, total)

	writer := newProgressWriter(v, sink, existing, total)
	if _, err := io.Copy(io.MultiWriter(file, writer), resp.Body); err != nil {
		return err
	}
	v.SetProgress(writer.done, total)
	return nil
}

func (m *Manager) verify(v *catalog.Variant, path string) error {
	if v.SHA256() == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	actual := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(actual, v.SHA256()) {
		return fmt.Errorf("sha256 mismatch: expected %s, got %s", v.SHA256(), actual)
	}
	log.Debug("SHA256 check passed", "url", v.URL())
	return nil
}

// lookupMD5 fetches the MD5SUM listing published next to the image and
// records the matching sum on the variant and in the cached feeds.
// Best effort: the listing is often missing.
func (m *Manager) lookupMD5(ctx context.Context, v *catalog.Variant) {
	cut := strings.LastIndex(v.URL(), "/")
	if cut < 0 {
		return
	}
	sumURL := v.URL()[:cut] + "/MD5SUM"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sumURL, nil)
	if err != nil {
		return
	}
	resp, err := m.client().Do(req)
	if err != nil {
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return
	}
	sum, ok := feed.FindMD5(string(raw), v.URL())
	if !ok {
		return
	}
	log.Debug("Downloaded MD5SUM", "url", sumURL)
	v.SetMD5(sum)
	m.patchCachedMD5(v.URL(), sum)
}

// patchCachedMD5 rewrites every cached feed that references the image
// so the sum survives restarts. The variant's source feed is unknown,
// so all of them are scanned.
func (m *Manager) patchCachedMD5(link, sum string) {
	if m.Store == nil {
		return
	}
	for _, src := range m.Sources {
		raw, err := m.Store.Load(src)
		if err != nil {
			continue
		}
		doc, err := feed.ParseDocument(raw)
		if err != nil {
			continue
		}
		if !doc.SetMD5ForLink(link, sum) {
			continue
		}
		out, err := doc.Marshal()
		if err != nil {
			continue
		}
		if err := m.Store.Save(src, out); err != nil {
			log.Warn("Failed to update cached feed", "source", src, "err", err)
		}
	}
}
