package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pricecatalog/catalog"
	"pricecatalog/services"
)

// renderFlags are the document options shared by render and demo.
type renderFlags struct {
	output  string
	format  string
	column  string
	details bool
	title   string
	locale  string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (required)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: pdf, xlsx, html or txt (default from the output extension)")
	cmd.Flags().StringVar(&f.column, "column", "", "selected price column code, e.g. 05-GROS")
	cmd.Flags().BoolVar(&f.details, "details", false, "show the cost column and margins")
	cmd.Flags().StringVar(&f.title, "title", "", "document title")
	cmd.Flags().StringVar(&f.locale, "locale", "", "display locale: fr or en")
	_ = cmd.MarkFlagRequired("output")
}

// apply overlays the flags the user set on top of the loaded configuration.
func (f *renderFlags) apply(cmd *cobra.Command, a *app) {
	if cmd.Flags().Changed("column") {
		a.cfg.Column = f.column
	}
	if cmd.Flags().Changed("details") {
		a.cfg.Details = f.details
	}
	if cmd.Flags().Changed("title") {
		a.cfg.Title = f.title
	}
	if cmd.Flags().Changed("locale") {
		a.cfg.Locale = f.locale
	}
}

// outputFormat picks the explicit format, else the output extension, else the
// configured default.
func (f *renderFlags) outputFormat(a *app) (services.OutputFormat, error) {
	if f.format != "" {
		return services.ParseOutputFormat(f.format)
	}
	if format, err := services.ParseOutputFormat(f.output); err == nil {
		return format, nil
	}
	return services.ParseOutputFormat(a.cfg.Format)
}

func newRenderCmd(a *app) *cobra.Command {
	var flags renderFlags
	var input, errorsReport string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a price-list file into a paginated document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a)
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("validate options: %w", err)
			}
			cat, err := a.importCatalogue(input, errorsReport)
			if err != nil {
				return err
			}
			return a.render(cmd, *cat, flags)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "price-list file, .csv or .xlsx (required)")
	cmd.Flags().StringVar(&errorsReport, "errors-report", "", "write rejected rows to this .xlsx file")
	_ = cmd.MarkFlagRequired("input")
	flags.register(cmd)
	return cmd
}

func newDemoCmd(a *app) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render the built-in demo catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a)
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("validate options: %w", err)
			}
			return a.render(cmd, catalog.DemoCatalogue(), flags)
		},
	}
	flags.register(cmd)
	return cmd
}

// importCatalogue parses a price-list file. Rejected rows are logged and,
// when reportPath is set, written to an XLSX report; they never abort the run.
func (a *app) importCatalogue(path, reportPath string) (*catalog.Catalogue, error) {
	log := a.log.With().Str("component", "import").Str("file", path).Logger()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	cat, result, err := catalog.ParseCatalogueFile(f, path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}

	log.Info().
		Int("rows", result.TotalRows).
		Int("valid_rows", result.ValidRows).
		Int("items", len(cat.Items)).
		Int("ranges", cat.RangeCount()).
		Msg("price list imported")

	for _, e := range result.Errors {
		log.Warn().Int("row", e.Row).Str("field", e.Field).Msg(e.Message)
	}

	if reportPath != "" && len(result.Errors) > 0 {
		report, err := catalog.GenerateErrorReport(result.Errors)
		if err != nil {
			return nil, fmt.Errorf("build error report: %w", err)
		}
		if err := os.WriteFile(reportPath, report, 0o644); err != nil {
			return nil, fmt.Errorf("write error report: %w", err)
		}
		log.Info().Str("report", reportPath).Int("errors", len(result.Errors)).Msg("error report written")
	}
	return cat, nil
}

// renderResult summarises one rendered document.
type renderResult struct {
	Path     string
	Format   services.OutputFormat
	Pages    int
	Blocks   int
	Size     int
	Duration time.Duration
}

func (a *app) render(cmd *cobra.Command, cat catalog.Catalogue, flags renderFlags) error {
	format, err := flags.outputFormat(a)
	if err != nil {
		return err
	}

	res, err := a.renderTo(cmd.Context(), cat, flags.output, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (%s, %s, %s)\n",
		color.GreenString("✓"),
		res.Path,
		res.Format,
		pagesLabel(res.Pages),
		humanize.Bytes(uint64(res.Size)),
	)
	return nil
}

func (a *app) renderTo(ctx context.Context, cat catalog.Catalogue, path string, format services.OutputFormat) (renderResult, error) {
	log := a.log.With().Str("component", "render").Str("format", string(format)).Logger()
	start := time.Now()

	opts := a.cfg.ComposeOptions()
	blocks := services.ComposeDocument(cat, opts)
	for _, b := range blocks {
		if b.Oversized {
			log.Warn().Str("item", string(b.ItemID)).Int("page", b.Page).Msg("item taller than a page")
		}
	}

	if err := ctx.Err(); err != nil {
		return renderResult{}, err
	}

	w, err := services.NewPageWriter(format)
	if err != nil {
		return renderResult{}, err
	}
	doc := services.Document{
		Title:       a.cfg.Title,
		GeneratedAt: start,
		DocumentID:  uuid.NewString(),
		Locale:      opts.Locale,
		Blocks:      blocks,
	}
	data, err := services.RenderDocument(doc, w)
	if err != nil {
		return renderResult{}, fmt.Errorf("render %s: %w", format, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return renderResult{}, fmt.Errorf("write output: %w", err)
	}

	res := renderResult{
		Path:     path,
		Format:   format,
		Pages:    services.PageCount(blocks),
		Blocks:   len(blocks),
		Size:     len(data),
		Duration: time.Since(start),
	}
	log.Info().
		Str("document_id", doc.DocumentID).
		Str("output", path).
		Int("pages", res.Pages).
		Int("blocks", res.Blocks).
		Str("size", humanize.Bytes(uint64(res.Size))).
		Dur("duration", res.Duration).
		Msg("document rendered")
	return res, nil
}

func pagesLabel(n int) string {
	if n == 1 {
		return "1 page"
	}
	return humanize.Comma(int64(n)) + " pages"
}
