package main

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for mov2mp4.

To load completions:

Bash:
  $ source <(mov2mp4 completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ mov2mp4 completion bash > /etc/bash_completion.d/mov2mp4
  # macOS:
  $ mov2mp4 completion bash > $(brew --prefix)/etc/bash_completion.d/mov2mp4

Zsh:
  $ source <(mov2mp4 completion zsh)
  # To load completions for each session, execute once:
  $ mov2mp4 completion zsh > "${fpath[1]}/_mov2mp4"

Fish:
  $ mov2mp4 completion fish | source
  # To load completions for each session, execute once:
  $ mov2mp4 completion fish > ~/.config/fish/completions/mov2mp4.fish

PowerShell:
  PS> mov2mp4 completion powershell | Out-String | Invoke-Expression
  # To load completions for each session, execute once:
  PS> mov2mp4 completion powershell > mov2mp4.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
