package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixgeelhaar/engage/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/felixgeelhaar/engage/pkg/i18n"
)

func newTestDashboard(t *testing.T, env *testEnv, pageSize int) dashboardModel {
	t.Helper()
	ws, err := wiring.NewWorkspace(context.Background(), env.dir, workspaceOptions())
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	m := newDashboardModel(context.Background(), ws.Checklist, checklist.CaptionHashtags, pageSize)

	// Run the initial refresh synchronously.
	next, _ := m.Update(m.refreshCmd()())
	return next.(dashboardModel)
}

func press(t *testing.T, m dashboardModel, key string) dashboardModel {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(dashboardModel)
}

func TestDashboard_InitialView(t *testing.T) {
	env := newTestEnv(t, sampleCSV)
	m := newTestDashboard(t, env, 30)

	if m.loading {
		t.Fatal("expected loading to finish")
	}
	if len(m.shown) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(m.shown))
	}
	view := m.View()
	for _, want := range []string{"Second post", "day1 0/3", "Hashtags to use: #two"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestDashboard_ToggleDone(t *testing.T) {
	env := newTestEnv(t, sampleCSV)
	m := newTestDashboard(t, env, 30)

	m = press(t, m, " ")
	if !m.shown[0].Done || m.snap.Counts.Done != 1 {
		t.Fatalf("expected first task done, counts %+v", m.snap.Counts)
	}
	m = press(t, m, "d")
	if m.shown[0].Done {
		t.Fatal("expected first task pending again")
	}
}

func TestDashboard_FilterAndHide(t *testing.T) {
	env := newTestEnv(t, sampleCSV)
	m := newTestDashboard(t, env, 30)

	m = press(t, m, "p")
	if m.snap.Filter == nil || *m.snap.Filter != checklist.PlatformX || len(m.shown) != 1 {
		t.Fatalf("expected x filter, got %v with %d rows", m.snap.Filter, len(m.shown))
	}
	m = press(t, m, " ")
	m = press(t, m, "h")
	if m.snap.ShowCompleted || len(m.shown) != 0 {
		t.Fatalf("expected done task hidden, got %d rows", len(m.shown))
	}
	if !strings.Contains(m.View(), "All done!") {
		t.Error("expected all-done message for the filtered view")
	}
}

func TestDashboard_CopyOpenAndMode(t *testing.T) {
	env := newTestEnv(t, sampleCSV)
	m := newTestDashboard(t, env, 30)

	m = press(t, m, "c")
	if env.clipboard.text != "#two" {
		t.Fatalf("clipboard = %q", env.clipboard.text)
	}
	if m.snap.CopiedID != "https://instagram.com/p/2" {
		t.Fatalf("expected copied indicator, got %q", m.snap.CopiedID)
	}

	m = press(t, m, "m")
	if m.mode != checklist.CaptionMessage {
		t.Fatalf("mode = %s", m.mode)
	}

	m = press(t, m, "down")
	m = press(t, m, "o")
	if env.opener.url != "https://tiktok.com/v/3" {
		t.Fatalf("opened %q", env.opener.url)
	}
}

func TestDashboard_LanguageAndQuit(t *testing.T) {
	env := newTestEnv(t, sampleCSV)
	m := newTestDashboard(t, env, 30)

	m = press(t, m, "l")
	if m.snap.Language != i18n.Thai {
		t.Fatalf("language = %s", m.snap.Language)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestDashboard_PagingLoadsMore(t *testing.T) {
	env := newTestEnv(t, sampleCSV)
	m := newTestDashboard(t, env, 1)

	if len(m.shown) != 1 {
		t.Fatalf("expected one row, got %d", len(m.shown))
	}
	if !strings.Contains(m.View(), "Scroll to load more...") {
		t.Error("expected scroll hint")
	}
	m = press(t, m, "down")
	if len(m.shown) != 2 {
		t.Fatalf("expected a second page, got %d rows", len(m.shown))
	}
}

func TestDashboard_AchievementBanner(t *testing.T) {
	env := newTestEnv(t, sampleCSV)
	m := newTestDashboard(t, env, 30)

	for i := 0; i < 3; i++ {
		m = press(t, m, " ")
		m = press(t, m, "down")
	}

	msg := waitForAchievement(m.events)()
	next, _ := m.Update(msg)
	m = next.(dashboardModel)
	if !m.celebrate || !strings.Contains(m.View(), "True Engagement Champion!") {
		t.Fatal("expected achievement banner")
	}

	m = press(t, m, "x")
	if m.celebrate {
		t.Fatal("expected banner dismissed")
	}
}
