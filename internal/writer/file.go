package writer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"mediawriter/internal/imagetype"
	"mediawriter/internal/progress"
)

const copyChunk = 1 << 20

// FileBackend writes images into a regular file or an already opened
// block device node.
type FileBackend struct{}

func (FileBackend) Name() string { return "file" }

func (FileBackend) Probe(ctx context.Context) ProbeResult {
	return ProbeResult{Available: true}
}

// Write streams the source image into the destination, decompressing
// gzip and xz payloads on the fly.
func (FileBackend) Write(ctx context.Context, req WriteRequest, sink progress.Sink) (WriteResult, error) {
	if sink == nil {
		sink = progress.NopSink{}
	}

	src, total, err := openSource(req.SourcePath, req.SourceType)
	if err != nil {
		return WriteResult{}, err
	}
	defer func() {
		_ = src.Close()
	}()

	if err := os.MkdirAll(filepath.Dir(req.DestPath), 0o755); err != nil {
		return WriteResult{}, err
	}
	dst, err := os.OpenFile(req.DestPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return WriteResult{}, err
	}

	written := int64(0)
	buf := make([]byte, copyChunk)
	for {
		if err := ctx.Err(); err != nil {
			_ = dst.Close()
			return WriteResult{BytesWritten: written}, err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				_ = dst.Close()
				return WriteResult{BytesWritten: written}, werr
			}
			written += int64(n)
			sink.Emit(progress.Event{
				Phase:      progress.PhaseWriting,
				Message:    "writing image",
				Percent:    percent(written, total),
				BytesDone:  written,
				BytesTotal: total,
			})
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			_ = dst.Close()
			return WriteResult{BytesWritten: written}, rerr
		}
	}

	if err := dst.Sync(); err != nil {
		_ = dst.Close()
		return WriteResult{BytesWritten: written}, err
	}
	if err := dst.Close(); err != nil {
		return WriteResult{BytesWritten: written}, err
	}
	return WriteResult{BytesWritten: written}, nil
}

// Check reads the written region back and compares it against the
// source image.
func (FileBackend) Check(ctx context.Context, req WriteRequest, written int64, sink progress.Sink) error {
	if sink == nil {
		sink = progress.NopSink{}
	}

	src, _, err := openSource(req.SourcePath, req.SourceType)
	if err != nil {
		return err
	}
	defer func() {
		_ = src.Close()
	}()

	dst, err := os.Open(req.DestPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = dst.Close()
	}()

	want := sha256.New()
	got := sha256.New()
	checked := int64(0)
	for checked < written {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := int64(copyChunk)
		if remaining := written - checked; remaining < chunk {
			chunk = remaining
		}
		if _, err := io.CopyN(want, src, chunk); err != nil {
			return err
		}
		if _, err := io.CopyN(got, dst, chunk); err != nil {
			return err
		}
		checked += chunk
		sink.Emit(progress.Event{
			Phase:      progress.PhaseWriteChecking,
			Message:    "checking written image",
			Percent:    percent(checked, written),
			BytesDone:  checked,
			BytesTotal: written,
		})
	}
	if !bytes.Equal(want.Sum(nil), got.Sum(nil)) {
		return fmt.Errorf("written image does not match the source")
	}
	return nil
}

// openSource opens the image for reading, wrapping compressed payloads
// in the matching decompressor. The returned total is the number of
// bytes Read will produce, or 0 when that is unknown up front.
func openSource(path string, t imagetype.ID) (io.ReadCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}

	switch t {
	case imagetype.ImgGz, imagetype.TarGz:
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, 0, err
		}
		return &wrappedReader{Reader: zr, closers: []io.Closer{zr, f}}, 0, nil
	case imagetype.ImgXz, imagetype.TarXz:
		xr, err := xz.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, 0, err
		}
		return &wrappedReader{Reader: xr, closers: []io.Closer{f}}, 0, nil
	default:
		st, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, 0, err
		}
		return f, st.Size(), nil
	}
}

type wrappedReader struct {
	io.Reader
	closers []io.Closer
}

func (w *wrappedReader) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func percent(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(done) * 100 / float64(total)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
