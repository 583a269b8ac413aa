package main

import (
	"context"
	"testing"
)

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()
	if err := run(context.Background(), []string{"bogus"}); err == nil {
		t.Fatalf("expected an error for an unknown command")
	}
}

func TestRunHelp(t *testing.T) {
	t.Parallel()
	if err := run(context.Background(), []string{"help"}); err != nil {
		t.Fatalf("help must not fail: %v", err)
	}
	if err := run(context.Background(), nil); err != nil {
		t.Fatalf("bare invocation prints help: %v", err)
	}
}

func TestWriteRequiresDest(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := run(context.Background(), []string{"write", "--release", "workstation", "--non-interactive"}); err == nil {
		t.Fatalf("write without --dest must fail")
	}
}
