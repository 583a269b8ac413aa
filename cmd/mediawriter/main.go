package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mediawriter/internal/app"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	a := app.New(os.Stdout, os.Stderr)
	if len(args) == 0 {
		printRootHelp()
		return nil
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		var all bool
		var archName string
		var filter string
		fs.BoolVar(&all, "all", false, "list every release, not just the front page")
		fs.StringVar(&archName, "arch", "", "only releases with images for this architecture")
		fs.StringVar(&filter, "filter", "", "filter releases by name")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.List(app.ListOptions{All: all, Arch: archName, Filter: filter})
	case "refresh":
		fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.Refresh(ctx)
	case "download":
		fs := flag.NewFlagSet("download", flag.ContinueOnError)
		opts := selectFlags(fs)
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.Download(ctx, *opts)
	case "write":
		fs := flag.NewFlagSet("write", flag.ContinueOnError)
		opts := selectFlags(fs)
		var dest string
		var file string
		fs.StringVar(&dest, "dest", "", "target device or file to write to")
		fs.StringVar(&file, "file", "", "write a local image file instead of a catalog release")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.Write(ctx, app.WriteOptions{SelectOptions: *opts, Dest: dest, File: file})
	case "erase":
		fs := flag.NewFlagSet("erase", flag.ContinueOnError)
		opts := selectFlags(fs)
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.Erase(*opts)
	case "help", "--help", "-h":
		printRootHelp()
		return nil
	default:
		printRootHelp()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func selectFlags(fs *flag.FlagSet) *app.SelectOptions {
	opts := &app.SelectOptions{}
	fs.StringVar(&opts.Release, "release", "", "release name, e.g. alt-workstation")
	fs.StringVar(&opts.Version, "version", "", "version number, latest when empty")
	fs.StringVar(&opts.Arch, "arch", "", "architecture abbreviation, e.g. x86-64")
	fs.StringVar(&opts.Board, "board", "", "board name, e.g. PC")
	fs.BoolVar(&opts.NonInteractive, "non-interactive", false, "disable the TUI")
	return opts
}

func printRootHelp() {
	fmt.Print(`mediawriter - download operating system images and write them to drives

Usage:
  mediawriter list [--all] [--arch ...] [--filter ...]   List available images
  mediawriter refresh                                    Update release metadata
  mediawriter download [flags]                           Download an image
  mediawriter write --dest <path> [flags]                Write an image to a drive
  mediawriter erase [flags]                              Delete a downloaded image

Common flags:
  --release <name> --version <number> --arch <abbr> --board <name>
`)
}
