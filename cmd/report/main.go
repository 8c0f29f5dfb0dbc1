// Command report renders the dashboard for one file without a server. It
// writes every chart as SVG, an index.html that shows them in the
// dashboard grid, and the full table as CSV.
//
//	report -in records.csv -out ./dashboard -city Boston -city Denver
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"hospitalpulse/internal/charts"
	"hospitalpulse/internal/config"
	"hospitalpulse/internal/dataset"
	"hospitalpulse/internal/infrastructure"
	"hospitalpulse/internal/services"
	"hospitalpulse/internal/validation"
	"hospitalpulse/pkg/contracts"
)

// cityFlags collects repeated -city values
type cityFlags []string

func (c *cityFlags) String() string { return strings.Join(*c, ",") }

func (c *cityFlags) Set(v string) error {
	*c = append(*c, v)
	return nil
}

type options struct {
	in       string
	out      string
	encoding string
	cities   cityFlags
	xlsx     bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "report:", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	cfg := config.Default()
	var opts options

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "file to analyze (.csv, .tsv, .txt or .xlsx)")
	fs.StringVar(&opts.out, "out", "dashboard", "output directory")
	fs.StringVar(&opts.encoding, "encoding", cfg.Ingest.Encoding, "encoding of delimited text: iso-8859-1, windows-1252 or utf-8")
	fs.Var(&opts.cities, "city", "city to include; repeat for several, omit for all")
	fs.BoolVar(&opts.xlsx, "xlsx", false, "also write the table as a spreadsheet")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.in == "" {
		fs.Usage()
		return opts, errors.New("-in is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg := config.Default()
	ctx = infrastructure.EnsureTraceID(ctx)
	logger := infrastructure.WithComponent(infrastructure.NewLogger(stderr, cfg.Logging.Level), "report")

	svc := services.NewDashboardService(services.DashboardOptions{
		Ingest: dataset.IngestOptions{Encoding: opts.encoding},
		Charts: charts.Options{
			Width:         cfg.Dashboard.ChartWidth,
			Height:        cfg.Dashboard.ChartHeight,
			HistogramBins: cfg.Dashboard.HistogramBins,
		},
		Logger: logger,
	})

	files := validation.NewFileValidator(logger)
	if err := files.ValidateInputFile(opts.in); err != nil {
		return err
	}

	f, err := os.Open(opts.in)
	if err != nil {
		return err
	}
	info, err := svc.Load(ctx, f, filepath.Base(opts.in))
	f.Close()
	if err != nil {
		return err
	}

	rendered, err := svc.RenderDashboard(ctx, opts.cities)
	if err != nil {
		return err
	}

	if err := files.ValidateOutputDirectory(opts.out); err != nil {
		return err
	}

	var failed int
	for _, c := range rendered.Charts {
		if c.Err != nil {
			failed++
			logger.WarnContext(ctx, "Chart could not be drawn",
				slog.String("chart", c.Summary.ID),
				slog.String("error", c.Err.Error()))
			continue
		}
		if err := os.WriteFile(filepath.Join(opts.out, c.Summary.ID+".svg"), c.SVG, 0o644); err != nil {
			return err
		}
	}

	if err := writeIndex(filepath.Join(opts.out, "index.html"), rendered); err != nil {
		return err
	}

	exportName := cfg.Dashboard.ExportFilename
	if err := writeFile(filepath.Join(opts.out, exportName), func(w io.Writer) error { return svc.Export(ctx, w) }); err != nil {
		return err
	}
	if opts.xlsx {
		name := strings.TrimSuffix(exportName, filepath.Ext(exportName)) + ".xlsx"
		if err := writeFile(filepath.Join(opts.out, name), func(w io.Writer) error { return svc.ExportXLSX(ctx, w) }); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "Dashboard written",
		slog.String("dataset", info.Name),
		slog.Int("rows", rendered.Rows),
		slog.Int("of", info.Rows),
		slog.Any("cities", rendered.Selection),
		slog.Int("charts", len(rendered.Charts)-failed),
		slog.String("out", opts.out))
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Hospital Data Dashboard</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, Arial, sans-serif; margin: 24px; color: #333; }
  .row { display: grid; gap: 16px; margin-bottom: 16px; }
  .cols-1 { grid-template-columns: 1fr; }
  .cols-2 { grid-template-columns: repeat(2, 1fr); }
  .cols-3 { grid-template-columns: repeat(3, 1fr); }
  img { width: 100%; border: 1px solid #e3e6ea; }
</style>
</head>
<body>
<h1>Hospital Data Dashboard</h1>
<p>{{.Name}}: {{.Rows}} of {{.Total}} rows{{if .Cities}} in {{.Cities}}{{end}} · version {{.Version}}</p>
{{range .Grid}}<div class="row cols-{{len .}}">{{range .}}
  <img src="{{.ID}}.svg" alt="{{.Title}}">{{end}}
</div>
{{end}}<p><a href="{{.Export}}">Download Data</a></p>
</body>
</html>
`))

type tile struct {
	ID    string
	Title string
}

func writeIndex(path string, d *services.RenderedDashboard) error {
	var drawn []services.RenderedChart
	for _, c := range d.Charts {
		if c.Err == nil {
			drawn = append(drawn, c)
		}
	}

	var grid [][]tile
	for _, row := range charts.Rows(drawn) {
		cells := make([]tile, len(row))
		for i, c := range row {
			cells[i] = tile{ID: c.Summary.ID, Title: c.Summary.Title}
		}
		grid = append(grid, cells)
	}

	return writeFile(path, func(w io.Writer) error {
		return indexTemplate.Execute(w, map[string]interface{}{
			"Name":    d.Dataset.Name,
			"Rows":    d.Rows,
			"Total":   d.Dataset.Rows,
			"Cities":  strings.Join(d.Selection, ", "),
			"Version": contracts.Version,
			"Grid":    grid,
			"Export":  config.Default().Dashboard.ExportFilename,
		})
	})
}
