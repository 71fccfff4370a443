package cli

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/engage/pkg/application"
	"github.com/felixgeelhaar/engage/pkg/i18n"
	"github.com/spf13/cobra"
)

var doneGroup string

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as posted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadChecklist(cmd.Context(), doneGroup)
		if err != nil {
			return MapError(err)
		}
		defer ws.Close()
		svc := ws.Checklist

		if err := svc.MarkComplete(cmd.Context(), args[0]); err != nil {
			return MapError(err)
		}

		snap := svc.Snapshot()
		tr := i18n.New(snap.Language)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", tr.T(i18n.Completed), args[0])
		fmt.Fprintln(out, countsLine(tr, snap.Active, snap.Counts))
		ws.announce(cmd, false)
		return nil
	},
}

var undoGroup string

var undoCmd = &cobra.Command{
	Use:   "undo <task-id>",
	Short: "Mark a posted task as pending again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadChecklist(cmd.Context(), undoGroup)
		if err != nil {
			return MapError(err)
		}
		defer ws.Close()

		changed, err := ws.Checklist.Unmark(cmd.Context(), args[0])
		if err != nil {
			return MapError(err)
		}

		snap := ws.Checklist.Snapshot()
		tr := i18n.New(snap.Language)
		out := cmd.OutOrStdout()
		if changed {
			fmt.Fprintf(out, "%s %s\n", tr.T(i18n.Pending), args[0])
		} else {
			fmt.Fprintf(out, "%s %s\n", tr.T(i18n.NotMarkedDone), args[0])
		}
		fmt.Fprintln(out, countsLine(tr, snap.Active, snap.Counts))
		ws.announce(cmd, false)
		return nil
	},
}

func printAchievement(out io.Writer, tr *i18n.Translator, snap application.Snapshot) {
	banner := achievementStyle.Render(tr.T(i18n.AchievementTitle) + "\n" + tr.T(i18n.AchievementDesc))
	fmt.Fprintln(out, banner)
	fmt.Fprintf(out, "%s %d/%d\n", tr.T(i18n.Progress), snap.Progress.Done, snap.Progress.Total())
}

func init() {
	doneCmd.Flags().StringVarP(&doneGroup, "group", "g", "", "Task group (defaults to the first configured group)")
	undoCmd.Flags().StringVarP(&undoGroup, "group", "g", "", "Task group (defaults to the first configured group)")
	RootCmd.AddCommand(doneCmd)
	RootCmd.AddCommand(undoCmd)
}
