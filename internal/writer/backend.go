// Package writer puts downloaded images onto target devices and
// verifies the result where the image format allows it.
package writer

import (
	"context"

	"mediawriter/internal/imagetype"
	"mediawriter/internal/progress"
)

// WriteRequest configures one image write.
type WriteRequest struct {
	SourcePath string
	SourceType imagetype.ID
	DestPath   string
}

// WriteResult reports how many bytes landed on the target. For
// compressed images this is the decompressed size.
type WriteResult struct {
	BytesWritten int64
}

// ProbeResult reports backend availability.
type ProbeResult struct {
	Available bool
	Reason    string
}

// Backend is one target-device write implementation.
type Backend interface {
	Name() string
	Probe(ctx context.Context) ProbeResult
	Write(ctx context.Context, req WriteRequest, sink progress.Sink) (WriteResult, error)
	Check(ctx context.Context, req WriteRequest, written int64, sink progress.Sink) error
}
