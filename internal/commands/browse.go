package commands

import (
	"github.com/spf13/cobra"

	"github.com/basecamp/places-cli/internal/appctx"
	"github.com/basecamp/places-cli/internal/output"
	"github.com/basecamp/places-cli/internal/tui"
)

// NewBrowseCmd creates the interactive browse command.
func NewBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the collection interactively",
		Long: `Open a full-screen list of the collection.

The list loads on start. Use j/k or the arrow keys to move, r to reload and
q to quit. Requires an interactive terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if !isInteractive(cmd) {
				return output.ErrUsageHint("browse requires an interactive terminal",
					"Use: places fetch")
			}

			app.SilenceLogs()
			return tui.Browse(cmd.Context(), app.Loader, app.Resource.Name())
		},
	}
}
