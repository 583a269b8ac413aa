// Package mediawriter is the public application-layer entrypoint for
// embedding the release catalog, downloader and writer.
package mediawriter

import (
	"context"
	"fmt"
	"os"

	"mediawriter/assets"
	"mediawriter/internal/arch"
	"mediawriter/internal/cache"
	"mediawriter/internal/catalog"
	"mediawriter/internal/config"
	"mediawriter/internal/download"
	"mediawriter/internal/feed"
	"mediawriter/internal/loader"
	"mediawriter/internal/progress"
	"mediawriter/internal/writer"
)

// Service wires the catalog, metadata loader, downloader and writer
// together behind one facade.
type Service struct {
	cfg       config.Config
	cat       *catalog.Catalog
	view      *catalog.View
	store     *cache.Store
	loader    *loader.Loader
	downloads *download.Manager
	engine    *writer.Engine
}

// NewService builds a service from the on-disk configuration, seeding
// the catalog from cached metadata when a complete cache exists and
// from the built-in copies otherwise.
func NewService() (*Service, error) {
	path, err := config.Path()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	return NewServiceWith(cfg)
}

// NewServiceWith builds a service over an explicit configuration.
func NewServiceWith(cfg config.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cacheDir, err := config.CacheDir()
	if err != nil {
		return nil, err
	}
	store := cache.NewStore(cacheDir)

	cat := catalog.New()
	cat.Seed(builtinReleaseInfos(cfg.Language))

	ld := loader.New(cat, store, loader.HTTPFetcher{}, cfg.ImagesBaseURL, cfg.Feeds)
	ld.Seed(assets.Feed)

	return &Service{
		cfg:    cfg,
		cat:    cat,
		view:   catalog.NewView(cat),
		store:  store,
		loader: ld,
		downloads: &download.Manager{
			Dir:     cfg.DownloadDir,
			Store:   store,
			Sources: cfg.Feeds,
		},
		engine: writer.NewEngine(writer.FileBackend{}),
	}, nil
}

// builtinReleaseInfos reads the embedded sections documents into seed
// records for the catalog.
func builtinReleaseInfos(lang string) []catalog.ReleaseInfo {
	var infos []catalog.ReleaseInfo
	for _, raw := range assets.Sections() {
		sections, err := feed.ParseSections(raw)
		if err != nil {
			continue
		}
		for _, m := range sections.Members {
			infos = append(infos, m.ReleaseInfo(lang))
		}
	}
	return infos
}

// Catalog exposes the underlying catalog for observers and UIs.
func (s *Service) Catalog() *catalog.Catalog { return s.cat }

// Loader exposes the metadata loader, mainly for its being-updated flag.
func (s *Service) Loader() *loader.Loader { return s.loader }

// Config returns the active configuration.
func (s *Service) Config() config.Config { return s.cfg }

// Refresh fetches every metadata source and merges it into the
// catalog. It retries indefinitely until the context is cancelled.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) error {
	emit(req.OnEvent, Event{Kind: "refresh.started", Message: "fetching release metadata"})
	if err := s.loader.Run(ctx); err != nil {
		emit(req.OnEvent, Event{Kind: "refresh.failed", Message: err.Error(), Err: err, Done: true})
		return err
	}
	emit(req.OnEvent, Event{Kind: "refresh.completed", Message: "release metadata is up to date", Done: true})
	return nil
}

// ListReleases snapshots the filtered release listing.
func (s *Service) ListReleases(opts ListOptions) []Release {
	s.view.SetFrontPage(opts.FrontPage)
	s.view.SetFilterText(opts.Filter)
	if opts.Arch != "" {
		if a, ok := arch.FromAbbreviation(opts.Arch); ok {
			s.view.SetFilterArchitecture(a)
		}
	}
	rows := s.view.Rows()
	out := make([]Release, 0, len(rows))
	broken := s.engine.Broken(context.Background())
	for _, r := range rows {
		out = append(out, toPublicRelease(r, broken))
	}
	return out
}

// SelectLocalFile points the local release at an image file picked by
// the user.
func (s *Service) SelectLocalFile(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	local := s.cat.LocalRelease()
	if local == nil {
		return fmt.Errorf("catalog has no local release entry")
	}
	local.SetLocalFile(path, st.Size())
	return nil
}

// Download fetches the selected variant's image into the download
// directory, verifying it on the way.
func (s *Service) Download(ctx context.Context, req DownloadRequest) (DownloadResult, error) {
	ref, err := s.resolve(req.Selector)
	if err != nil {
		return DownloadResult{}, err
	}
	sink := forwardSink(req.OnEvent, "download.progress")
	if err := s.downloads.Download(ctx, ref, sink); err != nil {
		return DownloadResult{}, err
	}
	return DownloadResult{ImagePath: ref.Variant.ImagePath()}, nil
}

// Write puts the selected variant's downloaded image onto dest,
// downloading it first when it is not on disk yet.
func (s *Service) Write(ctx context.Context, req WriteRequest) error {
	if req.Dest == "" {
		return fmt.Errorf("destination is required")
	}
	ref, err := s.resolve(req.Selector)
	if err != nil {
		return err
	}
	if ref.Variant.ImagePath() == "" {
		sink := forwardSink(req.OnEvent, "download.progress")
		if err := s.downloads.Download(ctx, ref, sink); err != nil {
			return err
		}
	}
	sink := forwardSink(req.OnEvent, "write.progress")
	return s.engine.Write(ctx, ref, req.Dest, sink)
}

// Erase deletes the selected variant's downloaded image.
func (s *Service) Erase(sel Selector) error {
	ref, err := s.resolve(sel)
	if err != nil {
		return err
	}
	return s.downloads.Erase(ref.Variant)
}

// resolve turns a selector into a concrete catalog reference,
// falling back to the current selections for empty fields.
func (s *Service) resolve(sel Selector) (catalog.Ref, error) {
	if sel.Release == "" {
		ref, ok := s.cat.SelectedRef()
		if !ok {
			return catalog.Ref{}, fmt.Errorf("nothing is selected")
		}
		return ref, nil
	}
	rel := s.cat.Find(sel.Release)
	if rel == nil {
		return catalog.Ref{}, fmt.Errorf("unknown release: %s", sel.Release)
	}
	ver := rel.SelectedVersion()
	if sel.Version != "" {
		if ver = rel.FindVersion(sel.Version); ver == nil {
			return catalog.Ref{}, fmt.Errorf("release %s has no version %s", rel.Name, sel.Version)
		}
	}
	if ver == nil {
		return catalog.Ref{}, fmt.Errorf("release %s has no versions", rel.Name)
	}
	va := ver.SelectedVariant()
	if sel.Arch != "" {
		a, ok := arch.FromAbbreviation(sel.Arch)
		if !ok {
			return catalog.Ref{}, fmt.Errorf("unknown architecture: %s", sel.Arch)
		}
		board := sel.Board
		if board == "" && va != nil {
			board = va.Board
		}
		if va = ver.FindVariant(a, board); va == nil {
			return catalog.Ref{}, fmt.Errorf("no %s image for %s %s", sel.Arch, rel.Name, ver.Number)
		}
	}
	if va == nil {
		return catalog.Ref{}, fmt.Errorf("release %s %s has no images", rel.Name, ver.Number)
	}
	return catalog.Ref{Release: rel, Version: ver, Variant: va}, nil
}

func forwardSink(handler EventHandler, kind string) progress.Sink {
	if handler == nil {
		return progress.NopSink{}
	}
	return progress.FuncSink(func(e progress.Event) {
		emit(handler, Event{
			Kind:       kind,
			Phase:      string(e.Phase),
			Message:    e.Message,
			Percent:    e.Percent,
			BytesDone:  e.BytesDone,
			BytesTotal: e.BytesTotal,
			SpeedBps:   e.SpeedBps,
			ETA:        e.ETA,
			Err:        e.Err,
			Done:       e.Done,
		})
	})
}

func toPublicRelease(r *catalog.Release, writerBroken bool) Release {
	out := Release{
		Key:         r.Name,
		DisplayName: r.DisplayName,
		Summary:     r.Summary,
		Description: r.Description,
		Icon:        r.Icon,
		Local:       r.IsLocal(),
	}
	for _, v := range r.Versions() {
		out.Versions = append(out.Versions, toPublicVersion(v, writerBroken))
	}
	return out
}

func toPublicVersion(v *catalog.Version, writerBroken bool) Version {
	out := Version{
		Number:      v.Number,
		Name:        v.Name(),
		Status:      statusName(v.Status()),
		ReleaseDate: v.ReleaseDate(),
	}
	for _, va := range v.Variants() {
		out.Variants = append(out.Variants, toPublicVariant(va, writerBroken))
	}
	return out
}

func toPublicVariant(va *catalog.Variant, writerBroken bool) Variant {
	return Variant{
		Arch:       va.Arch.Abbreviation(),
		Board:      va.Board,
		Type:       va.ImageType.Name(),
		URL:        va.URL(),
		SizeBytes:  va.Size(),
		Status:     va.Status(writerBroken).String(),
		Error:      va.ErrorString(),
		ImagePath:  va.ImagePath(),
		Downloaded: va.ImagePath() != "",
	}
}

func statusName(s catalog.VersionStatus) string {
	switch s {
	case catalog.Alpha:
		return "alpha"
	case catalog.Beta:
		return "beta"
	case catalog.ReleaseCandidate:
		return "release candidate"
	default:
		return "final"
	}
}
