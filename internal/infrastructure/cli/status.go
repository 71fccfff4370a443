package cli

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/felixgeelhaar/engage/pkg/application"
	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/felixgeelhaar/engage/pkg/i18n"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show progress across every task group",
	Long: `Show progress across every task group.

Examples:
  engage status
  engage status --json`,
	RunE: runStatusCmd,
}

// statusJSONOutput represents the JSON output format for status
type statusJSONOutput struct {
	Language       i18n.Language                           `json:"language"`
	Groups         []application.GroupSummary              `json:"groups"`
	Progress       checklist.Counts                        `json:"progress"`
	Percent        float64                                 `json:"percent"`
	PlatformCounts map[checklist.Platform]checklist.Counts `json:"platform_counts"`
	Achievement    checklist.AchievementState              `json:"achievement"`
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	ws, err := loadChecklist(cmd.Context(), "")
	if err != nil {
		return MapError(err)
	}
	defer ws.Close()
	defer ws.announce(cmd, statusJSON)
	snap := ws.Checklist.Snapshot()

	if statusJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statusJSONOutput{
			Language:       snap.Language,
			Groups:         snap.Groups,
			Progress:       snap.Progress,
			Percent:        snap.Progress.Percent(),
			PlatformCounts: snap.PlatformCounts,
			Achievement:    snap.Achievement,
		})
	}

	outputStatusText(cmd, snap)
	return nil
}

func outputStatusText(cmd *cobra.Command, snap application.Snapshot) {
	tr := i18n.New(snap.Language)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, headerStyle.Render(tr.T(i18n.AppTitle)))
	for _, g := range snap.Groups {
		mark := " "
		if g.Complete {
			mark = "✓"
		}
		fmt.Fprintf(out, "%s %s\n", mark, countsLine(tr, g.Key, checklist.Counts{Pending: g.Pending, Done: g.Done}))
	}

	fmt.Fprintf(out, "\n%s: %.1f%% (%d/%d)\n", tr.T(i18n.Progress), snap.Progress.Percent(), snap.Progress.Done, snap.Progress.Total())

	platforms := orderedPlatforms(snap.PlatformCounts)
	if len(platforms) > 0 {
		fmt.Fprintln(out)
		for _, p := range platforms {
			c := snap.PlatformCounts[p]
			fmt.Fprintf(out, "- %-4s %d/%d\n", p.Label(), c.Done, c.Total())
		}
	}

	if snap.Achievement.Unlocked {
		fmt.Fprintln(out)
		fmt.Fprintln(out, achievementStyle.Render(tr.T(i18n.AchievementTitle)+"\n"+tr.T(i18n.AllDone)))
	}
}

// orderedPlatforms returns known platforms in display order followed by any
// other platform seen in the feed.
func orderedPlatforms(counts map[checklist.Platform]checklist.Counts) []checklist.Platform {
	var out []checklist.Platform
	for _, p := range checklist.KnownPlatforms {
		if _, ok := counts[p]; ok {
			out = append(out, p)
		}
	}
	var extra []checklist.Platform
	for p := range counts {
		if !p.IsKnown() {
			extra = append(extra, p)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(statusCmd)
}
