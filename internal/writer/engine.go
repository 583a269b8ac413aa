package writer

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"mediawriter/internal/catalog"
	"mediawriter/internal/progress"
)

// Engine runs whole write jobs against one backend, walking the
// variant through its write states.
type Engine struct {
	backend Backend
}

func NewEngine(b Backend) *Engine {
	return &Engine{backend: b}
}

// Broken reports whether the backend cannot serve writes at all.
func (e *Engine) Broken(ctx context.Context) bool {
	return !e.backend.Probe(ctx).Available
}

// Write puts the variant's downloaded image onto dest. The variant
// must be Ready; the image type must support direct writing.
func (e *Engine) Write(ctx context.Context, ref catalog.Ref, dest string, sink progress.Sink) error {
	if sink == nil {
		sink = progress.NopSink{}
	}
	v := ref.Variant

	if probe := e.backend.Probe(ctx); !probe.Available {
		v.SetErrorString("Writing is not possible")
		return fmt.Errorf("backend %s unavailable: %s", e.backend.Name(), probe.Reason)
	}
	if v.ImagePath() == "" {
		return errors.New("no image has been downloaded yet")
	}
	if !v.ImageType.SupportedForWriting() {
		return fmt.Errorf("%s images cannot be written directly", v.ImageType.Name())
	}

	req := WriteRequest{
		SourcePath: v.ImagePath(),
		SourceType: v.ImageType,
		DestPath:   dest,
	}

	v.SetErrorString("")
	v.SetStatus(catalog.Writing)
	log.Info("Writing image", "image", v.ImagePath(), "dest", dest, "backend", e.backend.Name())

	res, err := e.backend.Write(ctx, req, sink)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			v.ResetStatus()
			return err
		}
		v.SetErrorString(err.Error())
		v.SetStatus(catalog.Failed)
		sink.Emit(progress.Event{Phase: progress.PhaseFailed, Message: err.Error(), Err: err, Done: true})
		return err
	}
	if res.BytesWritten != v.RealSize() {
		v.SetRealSize(res.BytesWritten)
	}

	if v.ImageType.CanCheckAfterWrite() {
		v.SetStatus(catalog.WriteVerifying)
		if err := e.backend.Check(ctx, req, res.BytesWritten, sink); err != nil {
			if errors.Is(err, context.Canceled) {
				v.ResetStatus()
				return err
			}
			v.SetErrorString("Your drive is probably damaged.")
			v.SetStatus(catalog.FailedVerification)
			sink.Emit(progress.Event{Phase: progress.PhaseFailed, Message: err.Error(), Err: err, Done: true})
			return err
		}
	}

	v.SetStatus(catalog.Finished)
	sink.Emit(progress.Event{Phase: progress.PhaseCompleted, Message: "image written", Percent: 100, Done: true})
	return nil
}
