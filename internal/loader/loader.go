// Package loader orchestrates sequential ingestion of metadata
// sources into the catalog: cached copies first, then remote fetches,
// one source at a time so the catalog stays consistent between merges.
package loader

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"mediawriter/internal/arch"
	"mediawriter/internal/cache"
	"mediawriter/internal/catalog"
	"mediawriter/internal/feed"
	"mediawriter/internal/imagetype"
)

// RetryDelay is the fixed wait between failed ingestion passes. Retry
// is unconditional and unbounded; there is no backoff.
const RetryDelay = 10 * time.Second

// Fetcher retrieves one remote document. It is the transport
// collaborator; the loader never touches the network directly.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches documents over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch implements Fetcher.
func (f HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	return fetchURL(ctx, client, url)
}

// Loader drives the source-by-source ingestion pipeline. The current
// source index is explicit state: only one source is in flight at any
// time, and a fetch failure restarts the whole sequence.
type Loader struct {
	cat     *catalog.Catalog
	store   *cache.Store
	fetcher Fetcher
	baseURL string
	sources []string

	retryDelay   time.Duration
	current      int
	beingUpdated bool
	onUpdating   func(bool)
}

// New builds a loader over the given catalog, cache store and sources.
func New(cat *catalog.Catalog, store *cache.Store, fetcher Fetcher, baseURL string, sources []string) *Loader {
	return &Loader{
		cat:        cat,
		store:      store,
		fetcher:    fetcher,
		baseURL:    baseURL,
		sources:    sources,
		retryDelay: RetryDelay,
	}
}

// SetRetryDelay overrides the retry delay, for tests.
func (l *Loader) SetRetryDelay(d time.Duration) {
	l.retryDelay = d
}

// BeingUpdated reports whether a background ingestion is in progress.
func (l *Loader) BeingUpdated() bool { return l.beingUpdated }

// OnBeingUpdated registers the observer for the being-updated flag.
func (l *Loader) OnBeingUpdated(fn func(bool)) { l.onUpdating = fn }

func (l *Loader) setBeingUpdated(v bool) {
	if l.beingUpdated != v {
		l.beingUpdated = v
		if l.onUpdating != nil {
			l.onUpdating(v)
		}
	}
}

// Seed merges the cached copy of every source when the cache is
// complete, otherwise the built-in copies via builtin. Returns true
// when the cache was used.
func (l *Loader) Seed(builtin func(name string) ([]byte, bool)) bool {
	if l.store.HasAll(l.sources) {
		ok := true
		for _, src := range l.sources {
			raw, err := l.store.Load(src)
			if err != nil {
				ok = false
				break
			}
			l.MergeDocument(raw)
		}
		if ok {
			return true
		}
	}
	if builtin == nil {
		return false
	}
	for _, src := range l.sources {
		if raw, found := builtin(src); found {
			l.MergeDocument(raw)
		}
	}
	return false
}

// MergeDocument parses one entry feed and applies every record to the
// catalog. Classification failures are logged and dropped; they are
// expected noise in the feeds. Returns how many records mutated the
// catalog.
func (l *Loader) MergeDocument(raw []byte) int {
	doc, err := feed.ParseDocument(raw)
	if err != nil {
		log.Warn("Skipping malformed entry feed", "err", err)
		return 0
	}
	applied := 0
	for _, e := range doc.Entries {
		u := e.Update()
		if u.ReleaseKey == "" || u.URL == "" {
			continue
		}
		if !arch.IsKnown(u.Arch) {
			log.Warn("Architecture is not known", "arch", u.Arch, "url", u.URL)
			continue
		}
		if u.ImageType == imagetype.Unknown {
			log.Warn("Image type is not known", "url", u.URL)
			continue
		}
		if l.cat.ApplyUpdate(u) {
			applied++
		}
	}
	return applied
}

// runPass fetches and merges every source in order, caching each
// document after a successful fetch. The first failure aborts the
// pass; earlier sources stay merged.
func (l *Loader) runPass(ctx context.Context) error {
	for l.current = 0; l.current < len(l.sources); l.current++ {
		src := l.sources[l.current]
		raw, err := l.fetcher.Fetch(ctx, l.baseURL+src)
		if err != nil {
			return err
		}
		if err := l.store.Save(src, raw); err != nil {
			log.Warn("Failed to cache releases file", "source", src, "err", err)
		}
		log.Debug("Downloaded releases file", "source", src)
		l.MergeDocument(raw)
	}
	l.current = 0
	return nil
}

// Run performs one full ingestion, retrying the entire sequence after
// the fixed delay for as long as fetches fail. The being-updated flag
// turns on at start and off only when the last source completes.
func (l *Loader) Run(ctx context.Context) error {
	l.setBeingUpdated(true)
	for {
		err := l.runPass(ctx)
		if err == nil {
			l.setBeingUpdated(false)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("Was not able to fetch new releases", "err", err, "retry_in", l.retryDelay)
		select {
		case <-time.After(l.retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Sources returns the configured source identifiers.
func (l *Loader) Sources() []string { return l.sources }
