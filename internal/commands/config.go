package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/basecamp/places-cli/internal/appctx"
	"github.com/basecamp/places-cli/internal/config"
	"github.com/basecamp/places-cli/internal/output"
	"github.com/basecamp/places-cli/internal/resource"
)

// NewConfigCmd creates the config command for inspecting configuration.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect places configuration.

Configuration is loaded from multiple sources with the following precedence:
  flags > env > local > global > defaults

Config locations:
  - Global: ~/.config/places/config.json
  - Local:  .places/config.json (cannot set endpoint)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  "Display the current effective configuration with source information.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}
}

// configRow is one resolved key with the layer it came from.
type configRow struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

func runConfigShow(cmd *cobra.Command) error {
	app := appctx.FromContext(cmd.Context())
	cfg := app.Config

	rows := []configRow{
		{"endpoint", resource.ScrubURL(cfg.Endpoint), cfg.Sources["endpoint"]},
		{"collection", cfg.Collection, cfg.Sources["collection"]},
		{"resource", cfg.Resource, cfg.Sources["resource"]},
		{"format", cfg.Format, cfg.Sources["format"]},
		{"verbose", strconv.Itoa(cfg.Verbose), cfg.Sources["verbose"]},
	}

	return app.OK(rows,
		output.WithSummary("Effective configuration"),
		output.WithMeta("global_config", config.GlobalConfigDir()),
	)
}
