package download

import (
	"time"

	"mediawriter/internal/catalog"
	"mediawriter/internal/progress"
)

// progressWriter mirrors byte counts into the variant and throttles
// sink events to avoid flooding slow consumers.
type progressWriter struct {
	variant  *catalog.Variant
	sink     progress.Sink
	total    int64
	done     int64
	lastDone int64
	lastTick time.Time
}

func newProgressWriter(v *catalog.Variant, sink progress.Sink, existing, total int64) *progressWriter {
	return &progressWriter{
		variant:  v,
		sink:     sink,
		total:    total,
		done:     existing,
		lastDone: existing,
		lastTick: time.Now(),
	}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	w.done += int64(n)
	now := time.Now()
	if now.Sub(w.lastTick) >= 200*time.Millisecond {
		deltaBytes := w.done - w.lastDone
		deltaSeconds := now.Sub(w.lastTick).Seconds()
		speed := 0.0
		if deltaSeconds > 0 {
			speed = float64(deltaBytes) / deltaSeconds
		}
		eta := time.Duration(0)
		if speed > 0 && w.total > 0 {
			remaining := float64(w.total - w.done)
			if remaining > 0 {
				eta = time.Duration(remaining/speed) * time.Second
			}
		}

		w.variant.SetProgress(w.done, w.total)
		w.sink.Emit(progress.Event{
			Phase:      progress.PhaseDownloading,
			Message:    "downloading image",
			Percent:    percent(w.done, w.total),
			BytesDone:  w.done,
			BytesTotal: w.total,
			SpeedBps:   speed,
			ETA:        eta,
		})
		w.lastTick = now
		w.lastDone = w.done
	}
	return n, nil
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
