package commands

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/basecamp/places-cli/internal/appctx"
	"github.com/basecamp/places-cli/internal/loader"
	"github.com/basecamp/places-cli/internal/output"
	"github.com/basecamp/places-cli/internal/resource"
	"github.com/basecamp/places-cli/internal/tui"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the collection once and print it",
		Long: `Fetch the configured endpoint once and print the decoded collection.

The exit status reflects the outcome: 0 on success (including an empty
collection), 6 when the endpoint is unreachable, 7 for a non-success status
and 9 when the response cannot be decoded.`,
		Args: cobra.NoArgs,
		RunE: runFetch,
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	app := appctx.FromContext(cmd.Context())
	state := fetchWithProgress(cmd.Context(), app)

	if err := state.Err(); err != nil {
		return err
	}

	items, _ := state.Data()
	return app.OK(items,
		output.WithSummary(output.DetectLocale().CountSummary(len(items), app.Resource.Name())),
		output.WithMeta("source", resource.ScrubURL(app.Config.Endpoint)),
	)
}

// fetchWithProgress runs the loader to completion, showing a spinner on
// stderr when it is attached to a terminal.
func fetchWithProgress(ctx context.Context, app *appctx.App) loader.FetchState[[]resource.Item] {
	if !showProgress(app) {
		return app.Loader.Run(ctx)
	}

	var state loader.FetchState[[]resource.Item]
	done := make(chan struct{})
	spinner := tui.NewSpinner("Loading " + app.Resource.Name() + "...")
	err := spinner.Run(func() {
		state = app.Loader.Run(ctx)
		close(done)
	})
	switch {
	case errors.Is(err, tui.ErrCanceled):
		return loader.Failed[[]resource.Item](err)
	case err != nil:
		app.Logger.Debug("spinner stopped", zap.Error(err))
	}
	<-done
	return state
}

func showProgress(app *appctx.App) bool {
	if app.Flags.Quiet || app.Flags.JQ != "" {
		return false
	}
	return term.IsTerminal(os.Stderr.Fd())
}
