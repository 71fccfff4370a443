package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/engage/pkg/application"
	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/felixgeelhaar/engage/pkg/i18n"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI checklist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		defer ws.Close()
		if os.Getenv("ENGAGE_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}

		mode, err := checklist.ParseCaptionMode(ws.Config.CopyMode)
		if err != nil {
			return err
		}
		m := newDashboardModel(cmd.Context(), ws.Checklist, mode, ws.Config.PageSize)
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dashboardCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var achievementStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#1A1A1A")).
	Background(lipgloss.Color("#F4C542")).
	Padding(1, 3).
	Align(lipgloss.Center)

var activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)
var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

var statusDone = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var statusWIP = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
var statusErr = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

// platformCycle is the order the filter key steps through; nil shows all.
var platformCycle = []*checklist.Platform{
	nil,
	platformPtr(checklist.PlatformX),
	platformPtr(checklist.PlatformInstagram),
	platformPtr(checklist.PlatformFacebook),
	platformPtr(checklist.PlatformTikTok),
}

func platformPtr(p checklist.Platform) *checklist.Platform {
	return &p
}

type refreshDoneMsg struct{ err error }

type achievementMsg struct{ event checklist.AchievementEvent }

type copiedResetMsg struct{}

type dashboardModel struct {
	ctx      context.Context
	svc      *application.ChecklistService
	events   chan checklist.AchievementEvent
	table    table.Model
	spinner  spinner.Model
	mode     checklist.CaptionMode
	pageSize int

	snap       application.Snapshot
	tr         *i18n.Translator
	shown      []application.TaskView
	visible    int
	filterIdx  int
	loading    bool
	celebrate  bool
	flash      string
	flashIsErr bool
}

func newDashboardModel(ctx context.Context, svc *application.ChecklistService, mode checklist.CaptionMode, pageSize int) dashboardModel {
	if pageSize <= 0 {
		pageSize = 30
	}

	events := make(chan checklist.AchievementEvent, 4)
	svc.OnAchievement(func(e checklist.AchievementEvent) {
		select {
		case events <- e:
		default:
		}
	})

	columns := []table.Column{
		{Title: "", Width: 2},
		{Title: "Platform", Width: 8},
		{Title: "Title", Width: 40},
		{Title: "Hashtags", Width: 30},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))

	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))

	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := dashboardModel{
		ctx:      ctx,
		svc:      svc,
		events:   events,
		table:    t,
		spinner:  sp,
		mode:     mode,
		pageSize: pageSize,
		visible:  pageSize,
		loading:  true,
	}
	m.sync()
	return m
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd(), waitForAchievement(m.events))
}

func (m dashboardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: m.svc.Refresh(m.ctx)}
	}
}

func waitForAchievement(events <-chan checklist.AchievementEvent) tea.Cmd {
	return func() tea.Msg {
		return achievementMsg{event: <-events}
	}
}

// sync copies the service state into the table. Only the first visible
// tasks are rendered; moving past the last row loads another page.
func (m *dashboardModel) sync() {
	m.snap = m.svc.Snapshot()
	m.tr = i18n.New(m.snap.Language)
	m.shown = checklist.Page(m.snap.Tasks, 0, m.visible)

	rows := make([]table.Row, 0, len(m.shown))
	for _, t := range m.shown {
		rows = append(rows, table.Row{
			statusMark(t.Done, t.ID == m.snap.CopiedID),
			t.Platform.Label(),
			truncate(displayTitle(m.tr, t.Task), 40),
			truncate(t.Hashtags, 30),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); len(rows) > 0 && c >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m dashboardModel) selected() (application.TaskView, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.shown) {
		return application.TaskView{}, false
	}
	return m.shown[c], true
}

func (m *dashboardModel) setFlash(msg string, isErr bool) {
	m.flash = msg
	m.flashIsErr = isErr
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.setFlash(msg.err.Error(), true)
		} else {
			m.setFlash("", false)
		}
		m.sync()
		return m, nil

	case achievementMsg:
		m.celebrate = true
		return m, waitForAchievement(m.events)

	case copiedResetMsg:
		m.sync()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.celebrate {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			}
			// Any key dismisses the banner.
			m.celebrate = false
			return m, nil
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ", "enter", "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		var err error
		if task.Done {
			_, err = m.svc.Unmark(m.ctx, task.ID)
		} else {
			err = m.svc.MarkComplete(m.ctx, task.ID)
		}
		if err != nil {
			m.setFlash(err.Error(), true)
		}
		m.sync()
		return m, nil

	case "c":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		res, err := m.svc.Copy(m.ctx, task.ID, m.mode)
		switch {
		case err != nil:
			m.setFlash(err.Error(), true)
		case res.Text == "":
			m.setFlash(m.tr.T(i18n.NoHashtags), false)
		case !res.OK:
			m.setFlash(res.Text, false)
		default:
			m.setFlash(copiedLabel(m.tr, m.mode), false)
		}
		m.sync()
		return m, tea.Tick(application.DefaultCopiedDuration+100*time.Millisecond, func(time.Time) tea.Msg {
			return copiedResetMsg{}
		})

	case "m":
		m.mode = nextCaptionMode(m.mode)
		m.setFlash(captionModeLabel(m.tr, m.mode), false)
		return m, nil

	case "o":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		res, err := m.svc.Open(m.ctx, task.ID)
		switch {
		case err != nil:
			m.setFlash(err.Error(), true)
		case !res.OK:
			m.setFlash(res.Text, false)
		default:
			m.setFlash(m.tr.T(i18n.GoPost), false)
		}
		return m, nil

	case "p":
		m.filterIdx = (m.filterIdx + 1) % len(platformCycle)
		m.svc.SetFilter(platformCycle[m.filterIdx])
		m.visible = m.pageSize
		m.table.SetCursor(0)
		m.sync()
		return m, nil

	case "h":
		m.svc.SetShowCompleted(!m.snap.ShowCompleted)
		m.sync()
		return m, nil

	case "tab", "g":
		next := nextGroup(m.snap)
		if err := m.svc.SetActiveGroup(next); err != nil {
			m.setFlash(err.Error(), true)
		}
		m.visible = m.pageSize
		m.table.SetCursor(0)
		m.sync()
		return m, nil

	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.refreshCmd())

	case "l":
		lang := i18n.English
		if m.snap.Language == i18n.English {
			lang = i18n.Thai
		}
		if err := m.svc.SetLanguage(lang); err != nil {
			m.setFlash(err.Error(), true)
		}
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() >= len(m.shown)-1 && len(m.shown) < len(m.snap.Tasks) {
		m.visible += m.pageSize
		m.sync()
	}
	return m, cmd
}

func nextGroup(snap application.Snapshot) checklist.GroupKey {
	for i, g := range snap.Groups {
		if g.Key == snap.Active {
			return snap.Groups[(i+1)%len(snap.Groups)].Key
		}
	}
	return snap.Active
}

func nextCaptionMode(mode checklist.CaptionMode) checklist.CaptionMode {
	switch mode {
	case checklist.CaptionHashtags:
		return checklist.CaptionMessage
	case checklist.CaptionMessage:
		return checklist.CaptionBoth
	}
	return checklist.CaptionHashtags
}

func captionModeLabel(tr *i18n.Translator, mode checklist.CaptionMode) string {
	switch mode {
	case checklist.CaptionMessage:
		return tr.T(i18n.CopyMessageOnly)
	case checklist.CaptionBoth:
		return tr.T(i18n.CopyBoth)
	}
	return tr.T(i18n.CopyHashtagsOnly)
}

func (m dashboardModel) View() string {
	tr := m.tr
	header := headerStyle.Render(tr.T(i18n.AppTitle))

	tabs := make([]string, 0, len(m.snap.Groups))
	for _, g := range m.snap.Groups {
		label := fmt.Sprintf("%s %d/%d", g.Key, g.Done, g.Pending+g.Done)
		if g.Complete {
			label = statusDone.Render(label + " ✓")
		}
		if g.Key == m.snap.Active {
			label = activeTabStyle.Render(label)
		}
		tabs = append(tabs, label)
	}

	filter := tr.T(i18n.All)
	if m.snap.Filter != nil {
		filter = m.snap.Filter.Label()
	}
	toggle := tr.T(i18n.Hide)
	if !m.snap.ShowCompleted {
		toggle = tr.T(i18n.Show)
	}
	progress := fmt.Sprintf("%s  [%s]  [%s]  %s: %d/%d",
		countsLine(tr, m.snap.Active, m.snap.Counts),
		filter, toggle,
		tr.T(i18n.Progress), m.snap.Progress.Done, m.snap.Progress.Total())

	// The empty-state message follows the platform filter.
	inView := m.snap.Counts
	if m.snap.Filter != nil {
		inView = m.snap.PlatformCounts[*m.snap.Filter]
	}

	var body string
	switch {
	case m.loading && len(m.snap.Tasks) == 0:
		body = m.spinner.View() + " " + tr.T(i18n.Loading)
	case len(m.snap.Tasks) == 0 && inView.Total() > 0 && inView.Pending == 0:
		body = statusDone.Render(tr.T(i18n.AllDone))
	case len(m.snap.Tasks) == 0:
		body = tr.T(i18n.NoTasks)
	default:
		body = m.table.View()
		if len(m.shown) < len(m.snap.Tasks) {
			body += "\n" + helpStyle.Render(tr.T(i18n.ScrollToLoad))
		}
	}

	detail := ""
	if task, ok := m.selected(); ok {
		hashtags := task.Hashtags
		if hashtags == "" {
			hashtags = tr.T(i18n.NoHashtags)
		}
		detail = tr.T(i18n.HashtagsLabel) + " " + hashtags
	}

	var status string
	switch {
	case m.loading:
		status = m.spinner.View() + " " + tr.T(i18n.Loading)
	case m.flash != "" && m.flashIsErr:
		status = statusErr.Render(tr.T(i18n.Error) + "\n" + m.flash)
	case m.flash != "":
		status = statusWIP.Render(m.flash)
	}

	parts := []string{header, strings.Join(tabs, "  "), progress, "", body, detail}
	if m.celebrate {
		parts = append(parts, "", achievementStyle.Render(tr.T(i18n.AchievementTitle)+"\n"+tr.T(i18n.AchievementDesc)))
	}
	parts = append(parts, status,
		helpStyle.Render("[space] done  [c] copy  [m] mode  [o] open  [p] platform  [h] hide  [tab] group  [r] refresh  [l] lang  [q] quit"))

	return baseStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)) + "\n"
}
