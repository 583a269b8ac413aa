package mediawriter

import (
	"time"
)

// Release is the public snapshot of one catalog release.
type Release struct {
	Key         string
	DisplayName string
	Summary     string
	Description string
	Icon        string
	Local       bool
	Versions    []Version
}

// Version is the public snapshot of one release version.
type Version struct {
	Number      string
	Name        string
	Status      string
	ReleaseDate time.Time
	Variants    []Variant
}

// Variant is the public snapshot of one downloadable image.
type Variant struct {
	Arch       string
	Board      string
	Type       string
	URL        string
	SizeBytes  int64
	Status     string
	Error      string
	ImagePath  string
	Downloaded bool
}

// Event is emitted during long-running operations.
type Event struct {
	Kind       string
	Phase      string
	Message    string
	Percent    float64
	BytesDone  int64
	BytesTotal int64
	SpeedBps   float64
	ETA        time.Duration
	Err        error
	Done       bool
}

// EventHandler receives operation events.
type EventHandler func(Event)

// ListOptions filters the release listing.
type ListOptions struct {
	FrontPage bool
	Arch      string
	Filter    string
}

// Selector identifies one variant in the catalog. Version, Arch and
// Board fall back to the catalog's current selection when empty.
type Selector struct {
	Release string
	Version string
	Arch    string
	Board   string
}

// RefreshRequest configures one metadata refresh.
type RefreshRequest struct {
	OnEvent EventHandler
}

// DownloadRequest configures one image download.
type DownloadRequest struct {
	Selector
	OnEvent EventHandler
}

// DownloadResult reports where the image landed.
type DownloadResult struct {
	ImagePath string
}

// WriteRequest configures writing one downloaded image to a target.
type WriteRequest struct {
	Selector
	Dest    string
	OnEvent EventHandler
}

func emit(handler EventHandler, e Event) {
	if handler != nil {
		handler(e)
	}
}
