// Package commands implements the pricecatalog command-line interface.
package commands

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pricecatalog/config"
	"pricecatalog/observability"
)

// app is the state shared by every subcommand once the root has loaded the
// configuration.
type app struct {
	cfgFile  string
	logLevel string
	jsonLogs bool
	noColor  bool

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCmd builds the command tree. Log output goes to logOut.
func NewRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pricecatalog",
		Short: "Compose paginated price-list documents",
		Long: `pricecatalog reads a price-list file (CSV or XLSX) with one row per quantity
break, groups the items by category and class, and renders a paginated catalogue
as PDF, XLSX, HTML or plain text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, logOut)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path (YAML)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.jsonLogs, "json-logs", false, "emit JSON logs")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newRenderCmd(a), newDemoCmd(a), newColumnsCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command, logOut io.Writer) error {
	if a.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.Log.JSON = a.jsonLogs
	}
	a.cfg = cfg
	a.log = observability.NewLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Output: logOut,
	})
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context, logOut io.Writer) error {
	return NewRootCmd(logOut).ExecuteContext(ctx)
}
