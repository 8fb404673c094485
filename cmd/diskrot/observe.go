package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/diskrot/internal/astrometry"
	"github.com/san-kum/diskrot/internal/diskmodel"
	"github.com/san-kum/diskrot/internal/export"
	"github.com/san-kum/diskrot/internal/logging"
	"github.com/san-kum/diskrot/internal/rotcurve"
	"github.com/san-kum/diskrot/internal/storage"
	"github.com/san-kum/diskrot/internal/viz"
)

var (
	obsL        []float64
	obsB        []float64
	obsDistance []float64
	obsInput    string

	fieldQuantity string
	fieldOut      string
	fieldNX       int
	fieldNY       int
	fieldZ        float64

	curveRMin float64
	curveRMax float64
	curveN    int

	lonQuantity string
	lonDistance float64
	lonB        float64
	lonStep     float64
)

func newObserveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observe",
		Short: "proper motions and radial velocities of stars on circular orbits",
		Long: "Stars are given with --distance/--l/--b (kpc, degrees) or read from a CSV " +
			"file with columns distance_kpc,l_deg,b_deg.",
		RunE: runObserve,
	}
	cmd.Flags().Float64SliceVar(&obsDistance, "distance", nil, "heliocentric distances (kpc)")
	cmd.Flags().Float64SliceVar(&obsL, "l", nil, "galactic longitudes (deg)")
	cmd.Flags().Float64SliceVar(&obsB, "b", nil, "galactic latitudes (deg)")
	cmd.Flags().StringVar(&obsInput, "input", "", "CSV file of distance_kpc,l_deg,b_deg")
	return cmd
}

func runObserve(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	distance, lDeg, bDeg := obsDistance, obsL, obsB
	if obsInput != "" {
		f, err := os.Open(obsInput)
		if err != nil {
			return err
		}
		defer f.Close()
		distance, lDeg, bDeg, err = readStars(f)
		if err != nil {
			return fmt.Errorf("%s: %w", obsInput, err)
		}
	}
	if len(distance) == 0 {
		return errors.New("no stars: use --distance/--l/--b or --input")
	}

	l, b := astrometry.Degrees(lDeg), astrometry.Degrees(bDeg)
	start := time.Now()
	obs, err := s.model.Observables(distance, l, b)
	if err != nil {
		return err
	}
	collector.ObserveStars(obs.Len(), time.Since(start))
	logger.Debug(cmd.Context(), "observables computed", logging.Int("stars", obs.Len()), logging.Any("elapsed", time.Since(start)))

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "D_KPC\tL_DEG\tB_DEG\tPML\tPMB\tVRAD\t")
	for i := range distance {
		fmt.Fprintf(w, "%.3f\t%.2f\t%.2f\t%.4f\t%.4f\t%.3f\t\n",
			distance[i], lDeg[i], bDeg[i], obs.PML[i], obs.PMB[i], obs.VRad[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return s.save(cmd, "observe", export.ObservablesTable(distance, l, b, obs))
}

// readStars parses distance_kpc,l_deg,b_deg records. A first row whose
// leading field is not a number is taken as a header and skipped.
func readStars(r io.Reader) (distance, l, b []float64, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) > 0 && !isNumber(records[0][0]) {
		records = records[1:]
	}
	for _, rec := range records {
		var vals [3]float64
		for j, field := range rec {
			v, perr := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if perr != nil {
				return nil, nil, nil, fmt.Errorf("record %v: %w", rec, perr)
			}
			vals[j] = v
		}
		distance = append(distance, vals[0])
		l = append(l, vals[1])
		b = append(b, vals[2])
	}
	return distance, l, b, nil
}

func isNumber(field string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	return err == nil
}

func newFieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "evaluate the differential velocity field on an x/y grid",
		RunE:  runField,
	}
	cmd.Flags().StringVar(&fieldQuantity, "quantity", "vrad", fmt.Sprintf("quantity to render %v", export.Quantities))
	cmd.Flags().StringVar(&fieldOut, "out", "", "heat map path (png, svg, pdf); default field_<quantity>.png")
	cmd.Flags().IntVar(&fieldNX, "nx", 0, "grid cells along x (default from config)")
	cmd.Flags().IntVar(&fieldNY, "ny", 0, "grid cells along y (default from config)")
	cmd.Flags().Float64Var(&fieldZ, "z", 0, "height of the grid plane (kpc)")
	return cmd
}

func runField(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	g := s.cfg.Grid
	if cmd.Flags().Changed("nx") {
		g.NX = fieldNX
	}
	if cmd.Flags().Changed("ny") {
		g.NY = fieldNY
	}
	if cmd.Flags().Changed("z") {
		g.Z = fieldZ
	}
	if g.NX < 1 || g.NY < 1 {
		return fmt.Errorf("grid needs at least one cell per axis, got %dx%d", g.NX, g.NY)
	}

	x, y := diskmodel.Meshgrid(diskmodel.GridAxis(g.XMin, g.XMax, g.NX), diskmodel.GridAxis(g.YMin, g.YMax, g.NY))
	start := time.Now()
	f, err := s.model.DifferentialVelocityField(x, y, g.Z)
	if err != nil {
		return err
	}
	collector.ObserveGrid(g.NX*g.NY, time.Since(start))

	q, err := export.FieldQuantity(f, fieldQuantity)
	if err != nil {
		return err
	}
	vals := q.RawMatrix().Data
	fmt.Fprintf(cmd.OutOrStdout(), "grid: %dx%d cells, x [%g, %g], y [%g, %g], z %g kpc\n",
		g.NX, g.NY, g.XMin, g.XMax, g.YMin, g.YMax, g.Z)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: min %.4f max %.4f\n", fieldQuantity, floats.Min(vals), floats.Max(vals))

	path := fieldOut
	if path == "" {
		path = fmt.Sprintf("field_%s.png", fieldQuantity)
	}
	if g.NX >= 2 && g.NY >= 2 {
		opts := export.DefaultHeatmapOptions()
		if err := export.SaveHeatmap(path, x, y, f, fieldQuantity, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "heat map: %s\n", path)
	} else {
		logger.Warn(cmd.Context(), "grid too small for a heat map", logging.Int("nx", g.NX), logging.Int("ny", g.NY))
	}

	return s.save(cmd, "field", export.FieldTable(x, y, f))
}

func newCurveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "plot the rotation curve",
		RunE:  runCurve,
	}
	cmd.Flags().Float64Var(&curveRMin, "rmin", 0, "inner radius (kpc)")
	cmd.Flags().Float64Var(&curveRMax, "rmax", 20, "outer radius (kpc)")
	cmd.Flags().IntVar(&curveN, "n", 81, "number of samples")
	return cmd
}

func runCurve(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if curveN < 2 || !(curveRMax > curveRMin) || curveRMin < 0 {
		return fmt.Errorf("need 0 <= rmin < rmax and n >= 2, got [%g, %g] n=%d", curveRMin, curveRMax, curveN)
	}

	radii := diskmodel.GridAxis(curveRMin, curveRMax, curveN)
	start := time.Now()
	v, err := rotcurve.Sample(s.curve, radii)
	if err != nil {
		return err
	}
	collector.ObserveCurve(time.Since(start))

	rs := s.cfg.SolarRadius()
	slope, err := rotcurve.SlopeAt(s.curve, rs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Chart(v, viz.ChartOptions{
		Caption: fmt.Sprintf("%s: V(R) km/s, R in [%g, %g] kpc", s.cfg.Curve.Kind, curveRMin, curveRMax),
		Height:  12,
		Width:   80,
	}))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %.3f kpc\n", viz.MetricLabel.Render("R_sun    "), rs)
	fmt.Fprintf(out, "%s %.3f km/s\n", viz.MetricLabel.Render("V(R_sun) "), s.model.SolarCircularSpeed())
	fmt.Fprintf(out, "%s %.4f km/s/kpc\n", viz.MetricLabel.Render("dV/dR    "), slope)
	if bp, ok := s.curve.(*rotcurve.BrunettiPfenniger); ok {
		fmt.Fprintf(out, "%s %.3f km/s\n", viz.MetricLabel.Render("V0       "), bp.V0())
	}

	table := &storage.Table{Columns: []string{"r_kpc", "vcirc"}, Rows: make([][]float64, len(radii))}
	for i := range radii {
		table.Rows[i] = []float64{radii[i], v[i]}
	}
	return s.save(cmd, "curve", table)
}

func newLongitudeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "longitude",
		Short: "observables against galactic longitude at fixed distance",
		RunE:  runLongitude,
	}
	addSweepFlags(cmd)
	cmd.Flags().StringVar(&lonQuantity, "quantity", "pml", fmt.Sprintf("quantity to plot %v", viz.SweepQuantities))
	return cmd
}

func addSweepFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&lonDistance, "distance", 0, "heliocentric distance (kpc, default from config)")
	cmd.Flags().Float64Var(&lonB, "b", 0, "galactic latitude (deg, default from config)")
	cmd.Flags().Float64Var(&lonStep, "step", 0, "longitude step (deg, default from config)")
}

func sweepSettings(cmd *cobra.Command, s *session) (distance, b, step float64) {
	lc := s.cfg.Longitude
	distance, b, step = lc.Distance, lc.B, lc.Step
	if cmd.Flags().Changed("distance") {
		distance = lonDistance
	}
	if cmd.Flags().Changed("b") {
		b = lonB
	}
	if cmd.Flags().Changed("step") {
		step = lonStep
	}
	return distance, b, step
}

func runLongitude(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	distance, b, step := sweepSettings(cmd, s)

	start := time.Now()
	sweep, err := viz.LongitudeSweep(s.model, distance, b, step)
	if err != nil {
		return err
	}
	collector.ObserveStars(sweep.Obs.Len(), time.Since(start))

	vals, err := sweep.Quantity(lonQuantity)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.Chart(vals, viz.ChartOptions{
		Caption: fmt.Sprintf("%s vs l in [0, 360) deg, d = %g kpc, b = %g deg", lonQuantity, distance, b),
		Height:  12,
		Width:   90,
	}))

	table := &storage.Table{
		Columns: []string{"l_deg", "pml", "pmb", "vrad"},
		Rows:    make([][]float64, len(sweep.LDeg)),
	}
	for i, l := range sweep.LDeg {
		table.Rows[i] = []float64{l, sweep.Obs.PML[i], sweep.Obs.PMB[i], sweep.Obs.VRad[i]}
	}
	return s.save(cmd, "longitude", table)
}

func newExploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive longitude sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			distance, b, step := sweepSettings(cmd, s)
			return viz.RunExplorer(s.model, viz.ExplorerConfig{
				Distance: distance,
				BDeg:     b,
				StepDeg:  step,
				Title:    fmt.Sprintf("DISKROT %s", strings.ToUpper(s.cfg.Curve.Kind)),
			})
		},
	}
	addSweepFlags(cmd)
	return cmd
}
