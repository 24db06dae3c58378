package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for c4puml.

Bash:
  $ source <(c4puml completion bash)

  # Persist for new shells:
  $ c4puml completion bash > /etc/bash_completion.d/c4puml

Zsh:
  # compinit must be enabled in ~/.zshrc.
  $ c4puml completion zsh > "${fpath[1]}/_c4puml"

Fish:
  $ c4puml completion fish | source

  $ c4puml completion fish > ~/.config/fish/completions/c4puml.fish

PowerShell:
  PS> c4puml completion powershell | Out-String | Invoke-Expression

  PS> c4puml completion powershell > c4puml.ps1  # then source it from $PROFILE
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}
