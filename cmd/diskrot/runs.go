package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/diskrot/internal/config"
	"github.com/san-kum/diskrot/internal/export"
	"github.com/san-kum/diskrot/internal/logging"
	"github.com/san-kum/diskrot/internal/storage"
	"github.com/san-kum/diskrot/internal/viz"
)

var exportOut string

// maxPlots caps the number of columns `show` charts.
const maxPlots = 6

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tCURVE\tTIME\tROWS\tVCIRC_SUN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\n",
			run.ID,
			run.Kind,
			run.Curve,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows,
			run.VcircSun,
		)
	}
	return w.Flush()
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarise and plot a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadTable(runID)
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("run %s has no data", runID)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.TitleStyle.Render(meta.ID))
	fmt.Fprintf(out, "kind: %s  curve: %s  rows: %d\n", meta.Kind, meta.Curve, meta.Rows)
	fmt.Fprintf(out, "sun: %v kpc  pec: %v km/s  vcirc_sun: %.3f km/s\n\n", meta.SunPosition, meta.PeculiarVelocity, meta.VcircSun)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tN\tMEAN\tSTD\tMIN\tMAX")
	for _, name := range table.Columns {
		s, ok := meta.Summary[name]
		if !ok {
			fmt.Fprintf(w, "%s\t0\t-\t-\t-\t-\n", name)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\n", name, s.Count, s.Mean, s.StdDev, s.Min, s.Max)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	// The first column is the abscissa of every run kind; field runs are
	// flattened grids and chart as raster order.
	columns := table.Columns[1:]
	if len(columns) > maxPlots {
		columns = columns[:maxPlots]
	}
	for _, name := range columns {
		data, _ := table.Column(name)
		fmt.Fprintln(out, viz.Chart(data, viz.ChartOptions{
			Caption: fmt.Sprintf("%s vs %s", name, table.Columns[0]),
			Height:  10,
			Width:   80,
		}))
		fmt.Fprintln(out)
	}
	return nil
}

func newExportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default stdout)")
	return cmd
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadTable(runID)
	if err != nil {
		return err
	}

	if exportOut == "" {
		return export.WriteJSON(cmd.OutOrStdout(), meta, table)
	}
	if err := export.ExportJSON(exportOut, meta, table); err != nil {
		return err
	}
	logger.Info(cmd.Context(), "run exported", logging.String("run", runID), logging.String("path", exportOut))
	fmt.Fprintf(cmd.OutOrStdout(), "exported: %s\n", exportOut)
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCURVE\tVCIRC\tSUN\tPEC")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%.1f\t%v\t%v\n", name, p.Curve.Kind, p.Curve.Vcirc, p.Sun.Position, p.Sun.PeculiarVelocity)
			}
			return w.Flush()
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file from the defaults or --preset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "diskrot.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
