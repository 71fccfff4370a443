package cli

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [shell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for engage.

Examples:
  engage completion bash > /etc/bash_completion.d/engage
  engage completion zsh > "${fpath[1]}/_engage"
  engage completion fish > ~/.config/fish/completions/engage.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
}

func completionRunner(gen func(cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return gen(cmd)
	}
}

func init() {
	completionCmd.AddCommand(&cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		RunE: completionRunner(func(cmd *cobra.Command) error {
			return RootCmd.GenBashCompletionV2(cmd.OutOrStdout(), true)
		}),
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:   "zsh",
		Short: "Generate zsh completion script",
		RunE: completionRunner(func(cmd *cobra.Command) error {
			return RootCmd.GenZshCompletion(cmd.OutOrStdout())
		}),
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		RunE: completionRunner(func(cmd *cobra.Command) error {
			return RootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		}),
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:   "powershell",
		Short: "Generate powershell completion script",
		RunE: completionRunner(func(cmd *cobra.Command) error {
			return RootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		}),
	})
	RootCmd.AddCommand(completionCmd)
}
