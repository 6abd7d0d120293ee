package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pricecatalog/catalog"
	"pricecatalog/services"
)

func newColumnsCmd(a *app) *cobra.Command {
	var input, column string
	var details, demo bool

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Show the resolved price columns of every class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("column") {
				a.cfg.Column = column
			}
			if cmd.Flags().Changed("details") {
				a.cfg.Details = details
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("validate options: %w", err)
			}

			var cat catalog.Catalogue
			switch {
			case demo:
				cat = catalog.DemoCatalogue()
			case input != "":
				imported, err := a.importCatalogue(input, "")
				if err != nil {
					return err
				}
				cat = *imported
			default:
				return fmt.Errorf("either --input or --demo is required")
			}

			printColumns(cmd, services.DescribeColumns(cat, a.cfg.ComposeOptions()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "price-list file, .csv or .xlsx")
	cmd.Flags().BoolVar(&demo, "demo", false, "use the built-in demo catalogue")
	cmd.Flags().StringVar(&column, "column", "", "selected price column code")
	cmd.Flags().BoolVar(&details, "details", false, "show the cost column")
	return cmd
}

func printColumns(cmd *cobra.Command, classes []services.ClassColumns) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	lastCategory := ""
	for _, c := range classes {
		if c.Category != lastCategory {
			bold.Fprintln(out, c.Category)
			lastCategory = c.Category
		}
		labels := make([]string, len(c.Display))
		for i, code := range c.Display {
			labels[i] = services.AbbreviateColumnName(code)
			if code == c.Selected {
				labels[i] = color.CyanString(labels[i] + "*")
			}
		}
		fmt.Fprintf(out, "  %s: %s %s\n", c.Class, strings.Join(labels, " "),
			dim.Sprintf("($/%s)", c.CommonUnit))
	}
}
