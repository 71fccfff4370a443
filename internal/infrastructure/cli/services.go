package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/felixgeelhaar/engage/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/spf13/cobra"
)

// workspaceOptions is replaced in tests to stub the clipboard and opener.
var workspaceOptions = func() wiring.Options {
	return wiring.Options{Logger: stderrLogger()}
}

func getProjectRoot() (string, error) {
	if projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("invalid project path %q: %w", projectPath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("project path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

func loadWorkspace(ctx context.Context) (*wiring.Workspace, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	return wiring.NewWorkspace(ctx, root, workspaceOptions())
}

// checklistSession is a workspace loaded for one command. It remembers an
// achievement fired at any point, including the startup refresh.
type checklistSession struct {
	*wiring.Workspace
	celebrated atomic.Bool
}

// announce prints the achievement banner once if it fired during the
// command. Machine-readable output keeps stdout clean.
func (s *checklistSession) announce(cmd *cobra.Command, machine bool) {
	if !s.celebrated.Load() {
		return
	}
	out := cmd.OutOrStdout()
	if machine {
		out = cmd.ErrOrStderr()
	}
	printAchievement(out, s.Checklist.Translator(), s.Checklist.Snapshot())
}

// loadChecklist loads the workspace, fetches every group and selects group
// when it is set. Achievement events are captured from before the first
// refresh.
func loadChecklist(ctx context.Context, group string) (*checklistSession, error) {
	ws, err := loadWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	session := &checklistSession{Workspace: ws}
	ws.Checklist.OnAchievement(func(checklist.AchievementEvent) {
		session.celebrated.Store(true)
	})

	if err := ws.Checklist.Refresh(ctx); err != nil {
		ws.Close()
		return nil, err
	}
	if group != "" {
		if err := ws.Checklist.SetActiveGroup(checklist.GroupKey(group)); err != nil {
			ws.Close()
			return nil, err
		}
	}
	return session, nil
}
