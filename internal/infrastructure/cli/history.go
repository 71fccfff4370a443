package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/engage/pkg/storage"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historySince time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent checklist activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		defer ws.Close()

		var entries []*storage.Entry
		if historySince > 0 {
			entries, err = ws.Journal.LoadSince(time.Now().Add(-historySince))
			if err == nil && historyLimit >= 0 && len(entries) > historyLimit {
				entries = entries[len(entries)-historyLimit:]
			}
		} else {
			entries, err = ws.Journal.Tail(historyLimit)
		}
		if err != nil {
			return fmt.Errorf("failed to read journal: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No activity recorded yet.")
			return nil
		}
		for _, e := range entries {
			line := fmt.Sprintf("%s  %-22s", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Type)
			if e.Group != "" {
				line += " " + e.Group
			}
			if e.TaskID != "" {
				line += " " + e.TaskID
			}
			if len(e.Metadata) > 0 {
				keys := make([]string, 0, len(e.Metadata))
				for k := range e.Metadata {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				pairs := make([]string, 0, len(keys))
				for _, k := range keys {
					pairs = append(pairs, k+"="+e.Metadata[k])
				}
				line += " " + strings.Join(pairs, " ")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "Only show entries newer than this, e.g. 24h")
	RootCmd.AddCommand(historyCmd)
}
