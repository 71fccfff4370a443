package cli

import (
	"fmt"

	"github.com/felixgeelhaar/engage/pkg/domain/checklist"
	"github.com/felixgeelhaar/engage/pkg/i18n"
	"github.com/spf13/cobra"
)

var (
	copyMode  string
	copyGroup string
)

var copyCmd = &cobra.Command{
	Use:   "copy <task-id>",
	Short: "Copy a task's hashtags or caption to the clipboard",
	Long: `Copy a task's hashtags or caption to the clipboard.

When no clipboard is available the text is printed instead.

Modes:
  hashtags  the hashtags column (default)
  message   the caption
  both      caption and hashtags separated by a blank line`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadChecklist(cmd.Context(), copyGroup)
		if err != nil {
			return MapError(err)
		}
		defer ws.Close()
		defer ws.announce(cmd, true)

		raw := copyMode
		if raw == "" {
			raw = ws.Config.CopyMode
		}
		mode, err := checklist.ParseCaptionMode(raw)
		if err != nil {
			return NewCLIError(err.Error(), "Use --mode hashtags, message or both", err)
		}

		res, err := ws.Checklist.Copy(cmd.Context(), args[0], mode)
		if err != nil {
			return MapError(err)
		}

		tr := ws.Checklist.Translator()
		out := cmd.OutOrStdout()
		if res.Text == "" {
			fmt.Fprintln(out, tr.T(i18n.NoHashtags))
			return nil
		}
		if !res.OK {
			fmt.Fprintln(out, res.Text)
			return nil
		}
		fmt.Fprintln(out, copiedLabel(tr, mode))
		return nil
	},
}

func copiedLabel(tr *i18n.Translator, mode checklist.CaptionMode) string {
	switch mode {
	case checklist.CaptionMessage:
		return tr.T(i18n.CopiedMessage)
	case checklist.CaptionBoth:
		return tr.T(i18n.CopiedBoth)
	}
	return tr.T(i18n.CopiedHashtags)
}

func init() {
	copyCmd.Flags().StringVarP(&copyMode, "mode", "m", "", "What to copy: hashtags, message or both (defaults to copy_mode)")
	copyCmd.Flags().StringVarP(&copyGroup, "group", "g", "", "Task group (defaults to the first configured group)")
	RootCmd.AddCommand(copyCmd)
}
