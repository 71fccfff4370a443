package cli

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/engage/internal/infrastructure/config"
	"github.com/felixgeelhaar/engage/pkg/i18n"
	"github.com/felixgeelhaar/engage/pkg/storage"
	"github.com/spf13/cobra"
)

var (
	initURL   string
	initGroup string
	initLang  string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new engage workspace",
	Long: `Initialize a new engage workspace in the current directory.

The feed url may be a published Google Sheets CSV export, a local CSV file
or sheets://<spreadsheet-id>/<range> for the Sheets API. More groups can be
added to .engage/config.yaml afterwards.

Examples:
  engage init --url "https://docs.google.com/spreadsheets/d/<id>/export?format=csv"
  engage init --url tasks.csv --group day1 --lang en`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}

		repo := storage.NewFilesystemRepository(root)
		cfgPath, err := repo.ResolvePath(storage.ConfigFile)
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfgPath); err == nil {
			return NewCLIError("workspace already initialized", "Edit "+cfgPath+" to change the feed", nil)
		}

		cfg := config.Default(initGroup, initURL)
		if initLang != "" {
			lang, err := i18n.Parse(initLang)
			if err != nil {
				return err
			}
			cfg.Language = string(lang)
		}

		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}
		if err := config.Save(root, cfg); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Successfully initialized engage workspace with group %q\n", cfg.Groups[0].Key)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initURL, "url", "", "Feed url (CSV export, local file or sheets://)")
	initCmd.Flags().StringVar(&initGroup, "group", "", "Key of the first task group (default \"default\")")
	initCmd.Flags().StringVar(&initLang, "lang", "", "Interface language (th or en)")
	_ = initCmd.MarkFlagRequired("url")
	RootCmd.AddCommand(initCmd)
}
