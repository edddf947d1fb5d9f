// Package appctx provides application context helpers.
package appctx

import (
	"context"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/basecamp/places-cli/internal/config"
	"github.com/basecamp/places-cli/internal/loader"
	"github.com/basecamp/places-cli/internal/observability"
	"github.com/basecamp/places-cli/internal/output"
	"github.com/basecamp/places-cli/internal/resource"
)

// contextKey is a private type for context keys.
type contextKey string

const appKey contextKey = "app"

// App holds the shared application context for all commands.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Resource *resource.Client
	Loader   *loader.Loader[[]resource.Item]
	Output   *output.Writer

	// Observability
	Collector *observability.SessionCollector
	Hooks     *observability.LoaderHooks

	// Flags holds the global flag values
	Flags GlobalFlags
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	// Output format flags
	JSON    bool
	YAML    bool
	Quiet   bool
	Styled  bool
	IDsOnly bool
	Count   bool
	JQ      string

	// Resource flags
	Endpoint   string
	Collection string
	Resource   string

	// Behavior flags
	Verbose int // 0=warnings, 1=fetch results, 2=transitions+requests
	Stats   bool
}

// Options configures NewApp.
type Options struct {
	Stdout     io.Writer
	Stderr     io.Writer
	HTTPClient *http.Client
}

// NewApp wires the loader, resource client, logging and output for cfg.
func NewApp(cfg *config.Config, flags GlobalFlags, opts Options) (*App, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	verbose := cfg.Verbose
	if flags.Verbose > verbose {
		verbose = flags.Verbose
	}
	logger := observability.NewLoggerTo(opts.Stderr, verbose)

	format, err := resolveFormat(cfg.Format, flags)
	if err != nil {
		return nil, err
	}

	collector := observability.NewSessionCollector()
	hooks := observability.NewLoaderHooks(logger.Named("loader"), collector)

	client := resource.NewClient(resource.Config{
		URL:        cfg.Endpoint,
		Collection: cfg.Collection,
		Name:       cfg.Resource,
	}, resource.WithHTTPClient(opts.HTTPClient), resource.WithLogger(logger.Named("http")))

	return &App{
		Config:    cfg,
		Logger:    logger,
		Resource:  client,
		Loader:    loader.New(cfg.Resource, client.FetchFunc(), loader.WithHooks[[]resource.Item](hooks)),
		Output:    output.New(output.Options{Format: format, Writer: opts.Stdout, JQ: flags.JQ}),
		Collector: collector,
		Hooks:     hooks,
		Flags:     flags,
	}, nil
}

// resolveFormat applies format flags over the configured format.
func resolveFormat(configured string, flags GlobalFlags) (output.Format, error) {
	switch {
	case flags.Quiet:
		return output.FormatQuiet, nil
	case flags.IDsOnly:
		return output.FormatIDs, nil
	case flags.Count:
		return output.FormatCount, nil
	case flags.JSON:
		return output.FormatJSON, nil
	case flags.YAML:
		return output.FormatYAML, nil
	case flags.Styled:
		return output.FormatStyled, nil
	}
	return output.ParseFormat(configured)
}

// OK outputs a success response, appending session stats with --stats.
func (a *App) OK(data any, opts ...output.ResponseOption) error {
	if a.Flags.Stats {
		opts = append(opts, output.WithMeta("stats", a.Collector.Summary().Map()))
	}
	return a.Output.OK(data, opts...)
}

// Err outputs an error response and returns the error for exit handling.
func (a *App) Err(err error) error {
	if writeErr := a.Output.Err(err); writeErr != nil {
		return writeErr
	}
	return err
}

// SilenceLogs discards all further log output, for full-screen views
// where stderr writes would tear the display.
func (a *App) SilenceLogs() {
	nop := zap.NewNop()
	a.Logger = nop
	a.Hooks.SetLogger(nop)
	a.Resource.SetLogger(nop)
}

// WithApp stores the app in the context.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext retrieves the app from the context.
func FromContext(ctx context.Context) *App {
	if ctx == nil {
		return nil
	}
	app, _ := ctx.Value(appKey).(*App)
	return app
}
