package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rpggio/ganttline/internal/domain/chart"
	"github.com/rpggio/ganttline/internal/exchange"
	"github.com/rpggio/ganttline/internal/render"
	"github.com/rpggio/ganttline/internal/timeline"
	"github.com/spf13/cobra"
)

var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

type viewFlags struct {
	granularity        string
	weekStart          string
	columnWidth        float64
	projectColumnWidth float64
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ganttline",
		Short:         "Compute Gantt timelines from exported chart documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBucketsCmd(), newPositionsCmd(), newRenderCmd())
	return root
}

func addViewFlags(cmd *cobra.Command, f *viewFlags) {
	cmd.Flags().StringVarP(&f.granularity, "granularity", "g", "", "day, week, month, quarter or year (default: the document's time scale, else week)")
	cmd.Flags().StringVar(&f.weekStart, "week-start", "sunday", "first day of week buckets")
	cmd.Flags().Float64Var(&f.columnWidth, "column-width", 0, "pixels per bucket (default: the document's, else 100)")
	cmd.Flags().Float64Var(&f.projectColumnWidth, "project-column-width", 0, "pixels for the project column (default: the document's, else 200)")
}

func newBucketsCmd() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "buckets FILE",
		Short: "Print the bucket sequence of an exported chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := loadView(args[0], flags)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, b := range view.Layout.Buckets {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i, b.Date.Format(time.DateOnly), b.Label)
			}
			return tw.Flush()
		},
	}
	addViewFlags(cmd, &flags)
	return cmd
}

func newPositionsCmd() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "positions FILE",
		Short: "Print each project's bucket range and pixel placement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := loadView(args[0], flags)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSTART\tEND\tLEFT\tWIDTH")
			for i, p := range view.Projects {
				bar := view.Layout.Bars[i]
				fmt.Fprintf(tw, "%s\t%d\t%d\t%g\t%g\n", p.Name, bar.Range.StartIndex, bar.Range.EndIndex, bar.Left, bar.Width)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, w := range view.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			return nil
		},
	}
	addViewFlags(cmd, &flags)
	return cmd
}

func newRenderCmd() *cobra.Command {
	var (
		flags     viewFlags
		output    string
		stylePath string
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render an exported chart as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := loadView(args[0], flags)
			if err != nil {
				return err
			}
			style := render.DefaultConfig()
			if stylePath != "" {
				if style, err = render.LoadConfig(stylePath); err != nil {
					return err
				}
			}

			if output == "" || output == "-" {
				return render.SVG(cmd.OutOrStdout(), view.RenderChart(), style)
			}
			f, err := createOutput(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := render.SVG(f, view.RenderChart(), style); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}
			return nil
		},
	}
	addViewFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "SVG output file")
	cmd.Flags().StringVar(&stylePath, "style", "", "YAML render style file")
	return cmd
}

// loadView reads an exported chart and lays it out. Flags override the
// document's settings, which override the built-in defaults.
func loadView(path string, flags viewFlags) (*chart.View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chart: %w", err)
	}
	defer f.Close()

	doc, err := exchange.Decode(f)
	if err != nil {
		return nil, err
	}
	projects, err := doc.ProjectList()
	if err != nil {
		return nil, err
	}

	settings, err := viewSettings(doc.Settings, flags)
	if err != nil {
		return nil, err
	}

	return chart.ComputeView(projects, settings)
}

func viewSettings(docSettings *exchange.Settings, flags viewFlags) (chart.Settings, error) {
	settings := chart.DefaultSettings()
	if docSettings != nil {
		g, ok, err := docSettings.Granularity()
		if err != nil {
			return chart.Settings{}, err
		}
		if ok {
			settings.Granularity = g
		}
		if docSettings.ColumnWidth != 0 {
			settings.ColumnWidth = docSettings.ColumnWidth
		}
		if docSettings.ProjectColumnWidth != 0 {
			settings.ProjectColumnWidth = docSettings.ProjectColumnWidth
		}
	}

	if flags.granularity != "" {
		g, err := timeline.ParseGranularity(flags.granularity)
		if err != nil {
			return chart.Settings{}, err
		}
		settings.Granularity = g
	}
	if flags.weekStart != "" {
		wd, err := timeline.ParseWeekStart(flags.weekStart)
		if err != nil {
			return chart.Settings{}, err
		}
		settings.WeekStart = strings.ToLower(wd.String())
	}
	if flags.columnWidth != 0 {
		settings.ColumnWidth = flags.columnWidth
	}
	if flags.projectColumnWidth != 0 {
		settings.ProjectColumnWidth = flags.projectColumnWidth
	}
	return settings, settings.Validate()
}
