package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"pspicdash/adapters/excel"
	"pspicdash/internal/catalog"
	"pspicdash/internal/config"
	"pspicdash/internal/container"
	"pspicdash/internal/dashboard"
	"pspicdash/internal/errors"
	"pspicdash/internal/navigation"
	"pspicdash/internal/render"

	"github.com/spf13/cobra"
)

// stateFlags are the page state options shared by the data commands
type stateFlags struct {
	tab     string
	unique  bool
	filters []string
}

func (f *stateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tab, "tab", dashboard.TabTodo, "Participant tab: todo, acciones or procesos")
	cmd.Flags().BoolVar(&f.unique, "unique", false, "Count each identification number once")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "Filter as field=value (repeatable)")
}

func (f *stateFlags) state(d *catalog.Dashboard) (dashboard.State, error) {
	q := url.Values{}
	q.Set("tab", f.tab)
	if f.unique {
		q.Set("unique", "true")
	}
	allowed := d.FilterFields()
	for _, kv := range f.filters {
		field, value, ok := strings.Cut(kv, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return dashboard.State{}, errors.Validation(fmt.Sprintf("filter %q must look like field=value", kv))
		}
		if !contains(allowed, field) {
			return dashboard.State{}, errors.Validation(fmt.Sprintf("%s filters on %s", d.Kind, strings.Join(allowed, ", ")))
		}
		q.Set("f."+field, value)
	}
	return dashboard.ParseState(q, d), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// openDashboards builds the services without a preference database
func openDashboards() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	c.InitInMemory()
	if err := c.InitDashboards(); err != nil {
		return nil, err
	}
	return c, nil
}

// resolveSection accepts a dashboard kind or a 2025 menu identifier
func resolveSection(c *catalog.Catalog, arg string) (*catalog.Dashboard, error) {
	if section, year, ok := navigation.ParseSectionID(arg); ok {
		if year != navigation.DataYear {
			return nil, errors.NotFound("data for " + arg)
		}
		arg = section
	}
	return c.Dashboard(arg)
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "List the dashboards and the published sheets behind them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openDashboards()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, kind := range c.Catalog.Kinds() {
				d := c.Catalog.Dashboards[kind]
				fmt.Fprintf(out, "%s: %s\n", kind, d.Title)
				for _, ref := range d.Sheets {
					fmt.Fprintf(out, "  %-16s %s\n", ref.Key, ref.URL(c.Config.Sheets.BaseURL))
				}
			}
			return nil
		},
	}
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <section>",
		Short: "Download the sheets of a section and report their size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openDashboards()
			if err != nil {
				return err
			}
			d, err := resolveSection(c.Catalog, args[0])
			if err != nil {
				return err
			}
			tables, err := c.Loader.Load(cmd.Context(), d.Sheets...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, ref := range d.Sheets {
				t := tables[ref.Key]
				fmt.Fprintf(out, "%s: %d rows, %d columns\n", ref.Key, t.Len(), len(t.Headers))
			}
			return nil
		},
	}
}

func newAggregateCmd() *cobra.Command {
	var flags stateFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "aggregate <section> <field>",
		Short: "Group the filtered records of a section by one field",
		Long: `Group the filtered records of a section by one field.

Example: pspic-cli aggregate participantes sexo --tab procesos --unique --filter "Zona=Ladera"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openDashboards()
			if err != nil {
				return err
			}
			d, err := resolveSection(c.Catalog, args[0])
			if err != nil {
				return err
			}
			st, err := flags.state(d)
			if err != nil {
				return err
			}
			agg, err := c.Dashboards.Aggregate(cmd.Context(), d.Kind, args[1], st)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(agg)
			}
			for _, b := range agg.Buckets {
				fmt.Fprintf(out, "%-40s %6d  %5.1f%%\n", b.Label, b.Count, agg.Percent(b))
			}
			fmt.Fprintf(out, "Total: %d\n", agg.Total)
			if agg.Invalid > 0 {
				fmt.Fprintf(out, "%d sin dato (%.1f%%)\n", agg.Invalid, agg.InvalidPercent())
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the aggregation as JSON")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export charts, reports and tables to files",
	}
	cmd.AddCommand(newExportChartCmd(), newExportPDFCmd(), newExportXLSXCmd())
	return cmd
}

// writeOutput writes to path, or to name in the working directory when path is empty
func writeOutput(cmd *cobra.Command, path, name string, write func(io.Writer) error) error {
	if path == "" {
		path = name
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Export("failed to create "+path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Export("failed to write "+path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

type exportTarget struct {
	flags  stateFlags
	output string
}

func (e *exportTarget) register(cmd *cobra.Command) {
	e.flags.register(cmd)
	cmd.Flags().StringVarP(&e.output, "output", "o", "", "Output file (default: derived from the title)")
}

func (e *exportTarget) open(section string) (*container.Container, *catalog.Dashboard, dashboard.State, error) {
	c, err := openDashboards()
	if err != nil {
		return nil, nil, dashboard.State{}, err
	}
	d, err := resolveSection(c.Catalog, section)
	if err != nil {
		return nil, nil, dashboard.State{}, err
	}
	st, err := e.flags.state(d)
	return c, d, st, err
}

func newExportChartCmd() *cobra.Command {
	var target exportTarget
	var format string

	cmd := &cobra.Command{
		Use:   "chart <section> <field>",
		Short: "Draw one chart of a section as PNG or SVG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			c, d, st, err := target.open(args[0])
			if err != nil {
				return err
			}
			view, err := c.Dashboards.ChartData(cmd.Context(), d.Kind, args[1], st)
			if err != nil {
				return err
			}
			return writeOutput(cmd, target.output, render.FileName(view.Title, string(f)), func(w io.Writer) error {
				return render.Draw(w, view.Chart(), f)
			})
		},
	}
	target.register(cmd)
	cmd.Flags().StringVar(&format, "format", "png", "png or svg")
	return cmd
}

func newExportPDFCmd() *cobra.Command {
	var target exportTarget
	var cover bool

	cmd := &cobra.Command{
		Use:   "pdf <section>",
		Short: "Write the report of a section as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, d, st, err := target.open(args[0])
			if err != nil {
				return err
			}
			report, err := c.Dashboards.Report(cmd.Context(), d.Kind, st, cover)
			if err != nil {
				return err
			}
			return writeOutput(cmd, target.output, report.FileName(), report.Write)
		},
	}
	target.register(cmd)
	cmd.Flags().BoolVar(&cover, "cover", true, "Start the report with a cover page")
	return cmd
}

func newExportXLSXCmd() *cobra.Command {
	var target exportTarget

	cmd := &cobra.Command{
		Use:   "xlsx <section>",
		Short: "Write the filtered table of a section as a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, d, st, err := target.open(args[0])
			if err != nil {
				return err
			}
			headers, rows, err := c.Dashboards.Rows(cmd.Context(), d.Kind, st)
			if err != nil {
				return err
			}
			return writeOutput(cmd, target.output, render.FileName(d.Title, "xlsx"), func(w io.Writer) error {
				return excel.WriteTable(w, d.Title, headers, rows)
			})
		},
	}
	target.register(cmd)
	return cmd
}
