package main

import (
	"os"
	"testing"
)

func TestRun_Help(t *testing.T) {
	old := os.Args
	defer func() { os.Args = old }()

	os.Args = []string{"engage", "--help"}
	if code := run(); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRun_NoWorkspace(t *testing.T) {
	old := os.Args
	defer func() { os.Args = old }()
	t.Setenv("ENGAGE_FEED_URL", "")

	os.Args = []string{"engage", "status", "--path", t.TempDir()}
	if code := run(); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}
