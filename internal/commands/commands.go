// Package commands implements the places subcommands.
package commands

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

// All returns every subcommand registered on the root command.
func All() []*cobra.Command {
	return []*cobra.Command{
		NewFetchCmd(),
		NewBrowseCmd(),
		NewConfigCmd(),
		NewVersionCmd(),
	}
}

// isInteractive reports whether the command's stdin and stdout are both
// terminals.
func isInteractive(cmd *cobra.Command) bool {
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(out.Fd()) && term.IsTerminal(os.Stdin.Fd())
}
