package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadWorkspace_FromCwd(t *testing.T) {
	dir, cleanup := withTempDir(t)
	defer cleanup()

	if err := os.WriteFile(filepath.Join(dir, "tasks.csv"), []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	t.Setenv("ENGAGE_FEED_URL", "tasks.csv")

	old := projectPath
	defer func() { projectPath = old }()
	projectPath = ""

	ws, err := loadWorkspace(context.Background())
	if err != nil {
		t.Fatalf("load workspace: %v", err)
	}
	if len(ws.LocalFiles) != 1 || !strings.HasSuffix(ws.LocalFiles[0], "tasks.csv") {
		t.Fatalf("expected local feed file, got %v", ws.LocalFiles)
	}
	if _, err := os.Stat(filepath.Join(dir, ".engage")); err != nil {
		t.Fatalf("expected .engage directory: %v", err)
	}
}

func TestLoadChecklist_SelectsGroup(t *testing.T) {
	dir, cleanup := withTempDir(t)
	defer cleanup()

	if err := os.WriteFile(filepath.Join(dir, "tasks.csv"), []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	t.Setenv("ENGAGE_FEED_URL", "tasks.csv")

	old := projectPath
	defer func() { projectPath = old }()
	projectPath = ""

	ws, err := loadChecklist(context.Background(), "default")
	if err != nil {
		t.Fatalf("load checklist: %v", err)
	}
	defer ws.Close()
	if got := len(ws.Checklist.Snapshot().Tasks); got != 3 {
		t.Fatalf("expected 3 tasks, got %d", got)
	}

	if _, err := loadChecklist(context.Background(), "missing"); err == nil {
		t.Fatal("expected unknown group error")
	}
}

func TestGetProjectRoot_DefaultToCwd(t *testing.T) {
	old := projectPath
	defer func() { projectPath = old }()
	projectPath = ""

	got, err := getProjectRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cwd, _ := os.Getwd()
	if got != cwd {
		t.Fatalf("expected %s, got %s", cwd, got)
	}
}

func TestGetProjectRoot_WithFlag(t *testing.T) {
	tmpDir := t.TempDir()

	old := projectPath
	defer func() { projectPath = old }()
	projectPath = tmpDir

	got, err := getProjectRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	abs, _ := filepath.Abs(tmpDir)
	if got != abs {
		t.Fatalf("expected %s, got %s", abs, got)
	}
}

func TestGetProjectRoot_InvalidPath(t *testing.T) {
	old := projectPath
	defer func() { projectPath = old }()
	projectPath = "/nonexistent/path/that/does/not/exist"

	_, err := getProjectRoot()
	if err == nil {
		t.Fatal("expected error for nonexistent path")
	}
	if !strings.Contains(err.Error(), "project path") {
		t.Fatalf("expected 'project path' in error, got: %v", err)
	}
}

func TestGetProjectRoot_NotADirectory(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "notadir.txt")
	if err := os.WriteFile(filePath, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	old := projectPath
	defer func() { projectPath = old }()
	projectPath = filePath

	if _, err := getProjectRoot(); err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("expected not a directory error, got %v", err)
	}
}
