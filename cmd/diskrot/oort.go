package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/diskrot/internal/analysis"
	"github.com/san-kum/diskrot/internal/rotcurve"
	"github.com/san-kum/diskrot/internal/viz"
)

var (
	oortDistance float64
	oortStep     float64
)

func newOortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oort",
		Short: "estimate the Oort constants from a longitude sweep of nearby stars",
		RunE:  runOort,
	}
	cmd.Flags().Float64Var(&oortDistance, "distance", 0.1, "distance of the sample stars (kpc)")
	cmd.Flags().Float64Var(&oortStep, "step", 1, "longitude step (deg)")
	return cmd
}

func runOort(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	sweep, err := viz.LongitudeSweep(s.model, oortDistance, 0, oortStep)
	if err != nil {
		return err
	}
	collector.ObserveStars(sweep.Obs.Len(), time.Since(start))

	o, err := analysis.EstimateOort(sweep.LDeg, sweep.Obs.PML, sweep.Obs.VRad, oortDistance)
	if err != nil {
		return err
	}
	slope, err := rotcurve.SlopeAt(s.curve, s.cfg.SolarRadius())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	row := func(label, format string, v float64) {
		fmt.Fprintf(out, "%s %s\n", viz.MetricLabel.Render(fmt.Sprintf("%-14s", label)), viz.MetricValue.Render(fmt.Sprintf(format, v)))
	}
	fmt.Fprintln(out, viz.TitleStyle.Render(fmt.Sprintf("oort constants, %s curve, d = %g kpc, step %g deg", s.cfg.Curve.Kind, oortDistance, sweep.StepDeg)))
	row("A", "%.3f km/s/kpc", o.A)
	row("B", "%.3f km/s/kpc", o.B)
	row("A (vrad)", "%.3f km/s/kpc", o.AFromVrad)
	row("Omega = A-B", "%.3f km/s/kpc", o.Omega())
	row("dV/dR = -(A+B)", "%.4f km/s/kpc", o.Slope())
	row("dV/dR (curve)", "%.4f km/s/kpc", slope)
	return nil
}
