package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/diskrot/internal/config"
	"github.com/san-kum/diskrot/internal/diskmodel"
	"github.com/san-kum/diskrot/internal/logging"
	"github.com/san-kum/diskrot/internal/metrics"
	"github.com/san-kum/diskrot/internal/registry"
	"github.com/san-kum/diskrot/internal/rotcurve"
	"github.com/san-kum/diskrot/internal/storage"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string
	metricsOut string
	noSave     bool

	// Model overrides, applied only when set on the command line.
	curveKind   string
	vcirc       float64
	rsun        float64
	scaleLength float64
	exponent    float64
	sunPos      []float64
	sunPec      []float64

	logger    logging.Logger = logging.Noop()
	collector *metrics.Collector
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "diskrot",
		Short:             "milky way disk kinematics",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return flushMetrics(cmd.Context())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".diskrot", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to $LOG_LEVEL")
	pf.StringVar(&logFormat, "log-format", "", "log format (text, json); defaults to $LOG_FORMAT")
	pf.StringVar(&metricsOut, "metrics-out", "", "write prometheus metrics to this file on exit")
	pf.BoolVar(&noSave, "no-save", false, "do not record the run in the data directory")

	pf.StringVar(&curveKind, "curve", config.CurveFlat, fmt.Sprintf("rotation curve %v", config.CurveKinds))
	pf.Float64Var(&vcirc, "vcirc", config.DefaultVcirc, "circular speed at the Sun (km/s)")
	pf.Float64Var(&rsun, "rsun", 0, "solar radius for the curve (kpc), 0 uses the Sun's position")
	pf.Float64Var(&scaleLength, "scale-length", config.DefaultBPScale, "bp scale length h (kpc)")
	pf.Float64Var(&exponent, "exponent", config.DefaultBPExp, "bp exponent p")
	pf.Float64SliceVar(&sunPos, "sun", nil, "solar position x,y,z (kpc)")
	pf.Float64SliceVar(&sunPec, "pec", nil, "solar peculiar velocity u,v,w (km/s)")

	rootCmd.AddCommand(
		newObserveCmd(),
		newFieldCmd(),
		newCurveCmd(),
		newLongitudeCmd(),
		newExploreCmd(),
		newListCmd(),
		newShowCmd(),
		newExportJSONCmd(),
		newPresetsCmd(),
		newOortCmd(),
		newInitCmd(),
	)
	return rootCmd
}

func setup(cmd *cobra.Command, args []string) error {
	logger = logging.NewFromEnv(logLevel, logFormat)

	c, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return err
	}
	collector = c
	return nil
}

func flushMetrics(ctx context.Context) error {
	if metricsOut == "" || collector == nil {
		return nil
	}
	if err := collector.WriteTextfile(metricsOut); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	logger.Debug(ctx, "metrics written", logging.String("path", metricsOut))
	return nil
}

// loadConfig resolves preset, config file and flag overrides, in that order
// of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("curve") {
		cfg.Curve.Kind = curveKind
	}
	if flags.Changed("vcirc") {
		cfg.Curve.Vcirc = vcirc
	}
	if flags.Changed("rsun") {
		cfg.Curve.Rsun = rsun
	}
	if flags.Changed("scale-length") {
		cfg.Curve.ScaleLength = scaleLength
	}
	if flags.Changed("exponent") {
		cfg.Curve.Exponent = exponent
	}
	if flags.Changed("sun") {
		cfg.Sun.Position = sunPos
	}
	if flags.Changed("pec") {
		cfg.Sun.PeculiarVelocity = sunPec
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type session struct {
	cfg   *config.Config
	model *diskmodel.Model
	curve rotcurve.Curve
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	m, curve, err := registry.NewRegistry().BuildModel(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info(cmd.Context(), "model ready",
		logging.String("curve", cfg.Curve.Kind),
		logging.Float("vcirc_sun", m.SolarCircularSpeed()),
		logging.Any("sun", cfg.Sun.Position),
	)
	return &session{cfg: cfg, model: m, curve: curve}, nil
}

func (s *session) save(cmd *cobra.Command, kind string, table *storage.Table) error {
	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.Run{
		Kind:             kind,
		Curve:            s.cfg.Curve.Kind,
		SunPosition:      s.cfg.Sun.Position,
		PeculiarVelocity: s.cfg.Sun.PeculiarVelocity,
		VcircSun:         s.model.SolarCircularSpeed(),
		Table:            table,
	})
	if err != nil {
		return err
	}
	logger.Info(cmd.Context(), "run saved", logging.String("run", runID), logging.Int("rows", len(table.Rows)))
	fmt.Fprintf(cmd.OutOrStdout(), "\nsaved: %s\n", runID)
	return nil
}
