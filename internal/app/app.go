// Package app coordinates command behavior for the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"mediawriter/internal/ui/tui"
	"mediawriter/pkg/mediawriter"
)

// App coordinates command behavior.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	service *mediawriter.Service
}

func New(stdout, stderr io.Writer) *App {
	return &App{Stdout: stdout, Stderr: stderr}
}

func (a *App) ensureService() (*mediawriter.Service, error) {
	if a.service == nil {
		svc, err := mediawriter.NewService()
		if err != nil {
			return nil, err
		}
		a.service = svc
	}
	return a.service, nil
}

// ListOptions controls `mediawriter list` behavior.
type ListOptions struct {
	All    bool
	Arch   string
	Filter string
}

// SelectOptions identifies one image for download, write or erase.
type SelectOptions struct {
	Release        string
	Version        string
	Arch           string
	Board          string
	NonInteractive bool
}

// WriteOptions controls `mediawriter write` behavior.
type WriteOptions struct {
	SelectOptions
	Dest string
	File string
}

func (a *App) List(opts ListOptions) error {
	svc, err := a.ensureService()
	if err != nil {
		return err
	}
	releases := svc.ListReleases(mediawriter.ListOptions{
		FrontPage: !opts.All && opts.Filter == "" && opts.Arch == "",
		Arch:      opts.Arch,
		Filter:    opts.Filter,
	})

	_, _ = fmt.Fprintln(a.Stdout, "RELEASE\tVERSION\tARCH\tBOARD\tTYPE\tSIZE_MB\tSTATUS")
	for _, r := range releases {
		if r.Local {
			_, _ = fmt.Fprintf(a.Stdout, "%s\t-\t-\t-\t-\t-\tpick a file\n", r.Key)
			continue
		}
		for _, v := range r.Versions {
			for _, va := range v.Variants {
				_, _ = fmt.Fprintf(a.Stdout, "%s\t%s\t%s\t%s\t%s\t%.1f\t%s\n",
					r.Key, v.Name, va.Arch, va.Board, va.Type,
					float64(va.SizeBytes)/1024.0/1024.0, va.Status)
			}
		}
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	svc, err := a.ensureService()
	if err != nil {
		return err
	}
	_, err = a.runTransfer(func(onEvent mediawriter.EventHandler) (string, error) {
		return "", svc.Refresh(ctx, mediawriter.RefreshRequest{OnEvent: onEvent})
	}, false)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.Stdout, "Release metadata is up to date.")
	return nil
}

func (a *App) Download(ctx context.Context, opts SelectOptions) error {
	svc, err := a.ensureService()
	if err != nil {
		return err
	}
	sel, err := a.pickSelector(svc, opts)
	if err != nil {
		return err
	}
	path, err := a.runTransfer(func(onEvent mediawriter.EventHandler) (string, error) {
		res, err := svc.Download(ctx, mediawriter.DownloadRequest{Selector: sel, OnEvent: onEvent})
		return res.ImagePath, err
	}, !opts.NonInteractive)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.Stdout, "Image saved to %s\n", path)
	return nil
}

func (a *App) Write(ctx context.Context, opts WriteOptions) error {
	if opts.Dest == "" {
		return fmt.Errorf("a destination is required, pass --dest")
	}
	svc, err := a.ensureService()
	if err != nil {
		return err
	}

	var sel mediawriter.Selector
	if opts.File != "" {
		if err := svc.SelectLocalFile(opts.File); err != nil {
			return err
		}
		sel = mediawriter.Selector{Release: "custom"}
	} else {
		sel, err = a.pickSelector(svc, opts.SelectOptions)
		if err != nil {
			return err
		}
	}

	_, err = a.runTransfer(func(onEvent mediawriter.EventHandler) (string, error) {
		return "", svc.Write(ctx, mediawriter.WriteRequest{Selector: sel, Dest: opts.Dest, OnEvent: onEvent})
	}, !opts.NonInteractive)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.Stdout, "Image written to %s\n", opts.Dest)
	return nil
}

func (a *App) Erase(opts SelectOptions) error {
	svc, err := a.ensureService()
	if err != nil {
		return err
	}
	sel, err := a.pickSelector(svc, opts)
	if err != nil {
		return err
	}
	return svc.Erase(sel)
}

// pickSelector resolves the release choice, running the interactive
// picker when no release was named and a terminal is attached.
func (a *App) pickSelector(svc *mediawriter.Service, opts SelectOptions) (mediawriter.Selector, error) {
	sel := mediawriter.Selector{
		Release: opts.Release,
		Version: opts.Version,
		Arch:    opts.Arch,
		Board:   opts.Board,
	}
	if sel.Release != "" {
		return sel, nil
	}
	if opts.NonInteractive || !isTerminal() {
		return sel, fmt.Errorf("no release given, pass --release")
	}
	releases := svc.ListReleases(mediawriter.ListOptions{FrontPage: false, Arch: opts.Arch})
	chosen, err := tui.SelectRelease(releases)
	if err != nil {
		return sel, err
	}
	sel.Release = chosen.Key
	return sel, nil
}

// runTransfer drives one long-running operation, rendering its events
// in the TUI when interactive and as log lines otherwise.
func (a *App) runTransfer(op func(mediawriter.EventHandler) (string, error), wantTUI bool) (string, error) {
	interactive := wantTUI && isTerminal()
	events := make(chan mediawriter.Event, 64)
	resultCh := make(chan struct {
		out string
		err error
	}, 1)

	go func() {
		out, err := op(func(e mediawriter.Event) {
			events <- e
		})
		if err != nil {
			events <- mediawriter.Event{Phase: "failed", Message: err.Error(), Err: err, Done: true}
		}
		close(events)
		resultCh <- struct {
			out string
			err error
		}{out: out, err: err}
	}()

	if interactive {
		if err := tui.RunTransfer(events); err != nil {
			return "", err
		}
	} else {
		for e := range events {
			if line := renderEventLine(e); line != "" {
				_, _ = fmt.Fprintln(a.Stdout, line)
			}
		}
	}

	result := <-resultCh
	return result.out, result.err
}

func renderEventLine(e mediawriter.Event) string {
	parts := []string{}
	if e.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Phase))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.BytesTotal > 0 {
		parts = append(parts, fmt.Sprintf("%0.1f%%", e.Percent))
	}
	return strings.Join(parts, " ")
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
