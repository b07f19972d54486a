package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"penguins/adapters/excel"
	"penguins/adapters/gochart"
	"penguins/adapters/palmer"
	"penguins/adapters/plotly"
	"penguins/domain/penguins"
	"penguins/internal/inputs"
	"penguins/internal/migration"
	"penguins/internal/views"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// filterFlags are the dashboard inputs exposed as flags
type filterFlags struct {
	dataFile  string
	dsn       string
	table     string
	species   []string
	attribute string
	bins      int
	showSex   bool
}

func main() {
	// Same .env the server reads; absence is fine
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "penguins-cli",
		Short:         "Offline summaries, charts and exports of the Palmer penguins dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSummaryCmd(),
		newHistogramCmd(),
		newExportCmd(),
		newMigrateCmd(),
	)
	return rootCmd
}

func (f *filterFlags) register(cmd *cobra.Command, withHistogram bool) {
	cmd.Flags().StringVar(&f.dataFile, "data", os.Getenv("PENGUINS_DATA_FILE"), "CSV or XLSX file to use instead of the bundled dataset")
	cmd.Flags().StringVar(&f.dsn, "database-url", os.Getenv("PENGUINS_DATABASE_URL"), "PostgreSQL connection string to read the dataset from")
	cmd.Flags().StringVar(&f.table, "table", palmer.DefaultTable, "PostgreSQL table holding the dataset")
	cmd.Flags().StringSliceVar(&f.species, "species", nil, "Species to include (default all)")
	if withHistogram {
		cmd.Flags().StringVar(&f.attribute, "attribute", string(penguins.BillLengthMM), "Measurement to bin")
		cmd.Flags().IntVar(&f.bins, "bins", 40, "Number of bins, 0 for automatic")
		cmd.Flags().BoolVar(&f.showSex, "show-sex", false, "Split histograms by sex")
	}
}

// state maps the flags onto an Input State through the same widget rules the
// dashboard applies
func (f *filterFlags) state(cmd *cobra.Command) inputs.State {
	q := url.Values{}
	if cmd.Flags().Changed("species") {
		q[inputs.SelectedSpeciesList] = f.species
		if len(f.species) == 0 {
			q[inputs.SelectedSpeciesList] = []string{""}
		}
	}
	if f.attribute != "" {
		q.Set(inputs.SelectedAttribute, f.attribute)
	}
	bins := strconv.Itoa(f.bins)
	q.Set(inputs.PlotlyBinCount, bins)
	q.Set(inputs.SeabornBinCount, bins)
	if f.showSex {
		q.Set(inputs.ShowSex, "true")
	}
	return inputs.NewRegistry().ParseQuery(q)
}

func (f *filterFlags) validate() error {
	if f.dataFile != "" && f.dsn != "" {
		return fmt.Errorf("--data and --database-url are mutually exclusive")
	}
	if f.attribute != "" {
		if _, ok := penguins.ParseAttribute(f.attribute); !ok {
			return fmt.Errorf("unknown attribute %q (want one of %s)", f.attribute, joinAttributes())
		}
	}
	for _, s := range f.species {
		if _, ok := penguins.ParseSpecies(s); !ok {
			return fmt.Errorf("unknown species %q", s)
		}
	}
	return nil
}

func (f *filterFlags) dataset(ctx context.Context) (*penguins.Dataset, error) {
	switch {
	case f.dsn != "":
		return palmer.LoadPostgres(ctx, f.dsn, f.table)
	case f.dataFile != "":
		return palmer.LoadFile(f.dataFile)
	default:
		return palmer.Load()
	}
}

func newSummaryCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print histogram statistics for a measurement",
		Long: `Print count, mean, median, standard deviation and range of a measurement,
overall and per histogram series.

Example: penguins-cli summary --species Adelie,Gentoo --attribute body_mass_g --show-sex`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			ds, err := flags.dataset(cmd.Context())
			if err != nil {
				return err
			}
			h := views.PlotlyHistogram(ds, flags.state(cmd))
			return writeSummary(cmd.OutOrStdout(), h)
		},
	}
	flags.register(cmd, true)
	return cmd
}

func writeSummary(w io.Writer, h views.Histogram) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n\n", h.Title)
	fmt.Fprintf(tw, "records\t%d\n", h.Records)
	fmt.Fprintf(tw, "count\t%d\n", h.Summary.Count)
	if !h.Empty() {
		fmt.Fprintf(tw, "mean\t%.2f\n", h.Summary.Mean)
		fmt.Fprintf(tw, "median\t%.2f\n", h.Summary.Median)
		fmt.Fprintf(tw, "std dev\t%.2f\n", h.Summary.StdDev)
		fmt.Fprintf(tw, "min\t%.2f\n", h.Summary.Min)
		fmt.Fprintf(tw, "max\t%.2f\n", h.Summary.Max)
		fmt.Fprintf(tw, "q25\t%.2f\n", h.Summary.Shape.Q25)
		fmt.Fprintf(tw, "q75\t%.2f\n", h.Summary.Shape.Q75)
		fmt.Fprintf(tw, "skewness\t%.3f\n", h.Summary.Shape.Skewness)
		fmt.Fprintf(tw, "kurtosis\t%.3f\n", h.Summary.Shape.Kurtosis)
		fmt.Fprintf(tw, "outliers\t%d\n", h.Summary.Shape.Outliers)
	}
	fmt.Fprintf(tw, "bins\t%d\n", h.BinCount)
	if h.SplitBySex {
		fmt.Fprintln(tw)
		for _, s := range h.Series {
			fmt.Fprintf(tw, "%s\t%d\n", s.Name, len(s.Values))
		}
	}
	return tw.Flush()
}

func newHistogramCmd() *cobra.Command {
	var flags filterFlags
	var backend, out string
	var width, height int

	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Render a histogram as Plotly JSON or PNG",
		Long: `Render a histogram with one of the dashboard's two backends.

Example: penguins-cli histogram --backend seaborn --species Gentoo --bins 10 --out gentoo.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			ds, err := flags.dataset(cmd.Context())
			if err != nil {
				return err
			}
			st := flags.state(cmd)

			var payload []byte
			switch backend {
			case "plotly":
				payload, err = plotly.HistogramFigure(views.PlotlyHistogram(ds, st)).JSON()
			case "seaborn":
				payload, err = gochart.RenderHistogramPNG(views.SeabornHistogram(ds, st), width, height)
			default:
				return fmt.Errorf("unknown backend %q (want plotly or seaborn)", backend)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, payload)
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVar(&backend, "backend", "plotly", "Rendering backend: plotly (JSON) or seaborn (PNG)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&width, "width", gochart.DefaultWidth, "PNG width in pixels")
	cmd.Flags().IntVar(&height, "height", gochart.DefaultHeight, "PNG height in pixels")
	return cmd
}

func newExportCmd() *cobra.Command {
	var flags filterFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the species-filtered table to XLSX",
		Long: `Export every column of the filtered dataset to an XLSX workbook.

Example: penguins-cli export --species Chinstrap --out chinstrap.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			ds, err := flags.dataset(cmd.Context())
			if err != nil {
				return err
			}
			filtered := penguins.FilterBySpecies(ds, flags.state(cmd).SelectedSpeciesList)

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := excel.WriteRecords(f, filtered.Records()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", filtered.Len(), out)
			return nil
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output .xlsx file")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var dsn, table, dataFile string
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the PostgreSQL penguins table and optionally seed it",
		Long: `Create the penguins table used by --database-url and PENGUINS_DATABASE_URL.
With --seed the table is replaced by the bundled dataset, or by --data.

Example: penguins-cli migrate --database-url postgres://localhost/palmer --seed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("--database-url is required")
			}
			runner, err := migration.NewRunner(table)
			if err != nil {
				return err
			}

			db, err := sqlx.ConnectContext(cmd.Context(), "postgres", dsn)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer db.Close()

			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema %s applied to %s\n", runner.Version(), table)
			if !seed {
				return nil
			}

			src := filterFlags{dataFile: dataFile}
			ds, err := src.dataset(cmd.Context())
			if err != nil {
				return err
			}
			n, err := runner.Seed(cmd.Context(), db, ds.Records())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rows\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "database-url", os.Getenv("PENGUINS_DATABASE_URL"), "PostgreSQL connection string")
	cmd.Flags().StringVar(&table, "table", palmer.DefaultTable, "Table to create")
	cmd.Flags().StringVar(&dataFile, "data", os.Getenv("PENGUINS_DATA_FILE"), "CSV or XLSX file to seed from instead of the bundled dataset")
	cmd.Flags().BoolVar(&seed, "seed", false, "Replace the table contents with the dataset")
	return cmd
}

func writeOutput(stdout io.Writer, path string, payload []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(payload)
		return err
	}
	return os.WriteFile(path, payload, 0644)
}

func joinAttributes() string {
	names := make([]string, 0, 4)
	for _, a := range penguins.AllAttributes() {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}
