package cli

import (
	"fmt"

	"github.com/felixgeelhaar/engage/pkg/i18n"
	"github.com/spf13/cobra"
)

var openGroup string

var openCmd = &cobra.Command{
	Use:   "open <task-id>",
	Short: "Open a task's post in the browser",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadChecklist(cmd.Context(), openGroup)
		if err != nil {
			return MapError(err)
		}
		defer ws.Close()
		defer ws.announce(cmd, false)

		res, err := ws.Checklist.Open(cmd.Context(), args[0])
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		if !res.OK {
			// Print the url so it can be opened by hand.
			fmt.Fprintln(out, res.Text)
			return nil
		}
		fmt.Fprintf(out, "%s: %s\n", ws.Checklist.Translator().T(i18n.GoPost), res.Text)
		return nil
	},
}

func init() {
	openCmd.Flags().StringVarP(&openGroup, "group", "g", "", "Task group (defaults to the first configured group)")
	RootCmd.AddCommand(openCmd)
}
