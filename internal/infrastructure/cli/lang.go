package cli

import (
	"fmt"

	"github.com/felixgeelhaar/engage/pkg/i18n"
	"github.com/spf13/cobra"
)

var langCmd = &cobra.Command{
	Use:       "lang [th|en]",
	Short:     "Show or change the interface language",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(i18n.Thai), string(i18n.English)},
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		defer ws.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(out, ws.Checklist.Language())
			return nil
		}

		lang, err := i18n.Parse(args[0])
		if err != nil {
			return NewCLIError(err.Error(), "Use 'engage lang th' or 'engage lang en'", err)
		}
		if err := ws.Checklist.SetLanguage(lang); err != nil {
			return err
		}
		fmt.Fprintf(out, "Language set to %s\n", lang)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(langCmd)
}
