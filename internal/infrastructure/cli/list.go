package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/felixgeelhaar/engage/pkg/application"
	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/felixgeelhaar/engage/pkg/i18n"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Flag variables for list command
var (
	listPlatform string
	listHideDone bool
	listGroup    string
	listLimit    int
	listOffset   int
	listOutput   string
)

const maxTitleWidth = 40

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the tasks of a group",
	Long: `List the tasks of a group, focus tasks first and newest first.

Examples:
  engage list
  engage list --platform instagram --hide-done
  engage list --group day2 --offset 30
  engage list --output json`,
	RunE: runListCmd,
}

// listOutputDoc is the json and yaml shape of the list command.
type listOutputDoc struct {
	Group  checklist.GroupKey     `json:"group" yaml:"group"`
	Counts checklist.Counts       `json:"counts" yaml:"counts"`
	Total  int                    `json:"total" yaml:"total"`
	Offset int                    `json:"offset" yaml:"offset"`
	Tasks  []application.TaskView `json:"tasks" yaml:"tasks"`
}

func runListCmd(cmd *cobra.Command, args []string) error {
	switch listOutput {
	case "table", "json", "yaml":
	default:
		return NewCLIError(fmt.Sprintf("unknown output format %q", listOutput), "Use --output table, json or yaml", nil)
	}

	ws, err := loadChecklist(cmd.Context(), listGroup)
	if err != nil {
		return MapError(err)
	}
	defer ws.Close()
	defer ws.announce(cmd, listOutput != "table")
	svc := ws.Checklist

	if listPlatform != "" {
		p, _ := checklist.ParsePlatform(listPlatform)
		svc.SetFilter(&p)
	}
	svc.SetShowCompleted(!listHideDone)

	limit := listLimit
	if limit < 0 {
		limit = ws.Config.PageSize
	}

	snap := svc.Snapshot()
	doc := listOutputDoc{
		Group:  snap.Active,
		Counts: snap.Counts,
		Total:  len(snap.Tasks),
		Offset: listOffset,
		Tasks:  checklist.Page(snap.Tasks, listOffset, limit),
	}
	if doc.Tasks == nil {
		doc.Tasks = []application.TaskView{}
	}

	out := cmd.OutOrStdout()
	switch listOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(doc)
	}

	tr := i18n.New(snap.Language)
	renderTaskTable(out, tr, doc.Tasks, snap.CopiedID)
	if doc.Offset+len(doc.Tasks) < doc.Total {
		fmt.Fprintf(out, "%s (--offset %d)\n", tr.T(i18n.ScrollToLoad), doc.Offset+len(doc.Tasks))
	}
	fmt.Fprintln(out, countsLine(tr, snap.Active, snap.Counts))
	return nil
}

func renderTaskTable(w io.Writer, tr *i18n.Translator, tasks []application.TaskView, copiedID string) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, tr.T(i18n.NoTasks))
		return
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			statusMark(t.Done, t.ID == copiedID),
			t.Platform.Label(),
			truncate(displayTitle(tr, t.Task), maxTitleWidth),
			truncate(t.Hashtags, maxTitleWidth),
			t.ID,
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("", "PLATFORM", "TITLE", "HASHTAGS", "ID").
		Rows(rows...)
	fmt.Fprintln(w, tbl.Render())
}

func statusMark(done, copied bool) string {
	switch {
	case copied:
		return "⧉"
	case done:
		return "✓"
	}
	return "○"
}

func displayTitle(tr *i18n.Translator, t checklist.Task) string {
	if t.Title == "" {
		return tr.T(i18n.NoTitle)
	}
	return t.Title
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func countsLine(tr *i18n.Translator, group checklist.GroupKey, c checklist.Counts) string {
	return fmt.Sprintf("%s: %s %d · %s %d (%.0f%%)",
		group, tr.T(i18n.Pending), c.Pending, tr.T(i18n.Done), c.Done, c.Percent())
}

func init() {
	listCmd.Flags().StringVarP(&listPlatform, "platform", "p", "", "Show only one platform (x, instagram, facebook, tiktok)")
	listCmd.Flags().BoolVar(&listHideDone, "hide-done", false, "Hide completed tasks")
	listCmd.Flags().StringVarP(&listGroup, "group", "g", "", "Task group (defaults to the first configured group)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", -1, "Maximum tasks to show (defaults to page_size)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Skip the first n tasks")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format: table, json or yaml")
	RootCmd.AddCommand(listCmd)
}
