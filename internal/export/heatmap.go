package export

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/diskrot/internal/diskmodel"
)

var (
	ErrUnknownQuantity = errors.New("export: unknown field quantity")
	ErrGridTooSmall    = errors.New("export: heat map needs at least 2x2 cells")
)

// Quantities names the per-cell grids of a diskmodel.Field that can be
// rendered or tabulated.
var Quantities = []string{"pml", "pmb", "vrad", "vtan", "distance", "l", "b"}

var quantityUnits = map[string]string{
	"pml":      "mas/yr",
	"pmb":      "mas/yr",
	"vrad":     "km/s",
	"vtan":     "km/s",
	"distance": "kpc",
	"l":        "rad",
	"b":        "rad",
}

func FieldQuantity(f *diskmodel.Field, name string) (*mat.Dense, error) {
	switch name {
	case "pml":
		return f.PML, nil
	case "pmb":
		return f.PMB, nil
	case "vrad":
		return f.VRad, nil
	case "vtan":
		return f.VTan, nil
	case "distance":
		return f.Distance, nil
	case "l":
		return f.L, nil
	case "b":
		return f.B, nil
	}
	return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownQuantity, name, Quantities)
}

// fieldGrid adapts meshgrid-shaped matrices to plotter.GridXYZ. Column c of
// the heat map is grid row c (constant x), heat map row r is grid column r.
type fieldGrid struct {
	x, y, z *mat.Dense
}

func (g fieldGrid) Dims() (c, r int)   { return g.z.Dims() }
func (g fieldGrid) Z(c, r int) float64 { return g.z.At(c, r) }
func (g fieldGrid) X(c int) float64    { return g.x.At(c, 0) }
func (g fieldGrid) Y(r int) float64    { return g.y.At(0, r) }

type HeatmapOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	Colors int
}

func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{
		Width:  8 * vg.Inch,
		Height: 8 * vg.Inch,
		Colors: 64,
	}
}

// NewHeatmap builds a plot of one field quantity over the x/y grid used to
// evaluate it.
func NewHeatmap(x, y *mat.Dense, f *diskmodel.Field, quantity string, opts HeatmapOptions) (*plot.Plot, error) {
	z, err := FieldQuantity(f, quantity)
	if err != nil {
		return nil, err
	}
	nx, ny := z.Dims()
	if nx < 2 || ny < 2 {
		return nil, ErrGridTooSmall
	}
	if r, c := x.Dims(); r != nx || c != ny {
		return nil, diskmodel.ErrShapeMismatch
	}
	if r, c := y.Dims(); r != nx || c != ny {
		return nil, diskmodel.ErrShapeMismatch
	}
	if opts.Colors < 2 {
		opts.Colors = 2
	}

	hm := plotter.NewHeatMap(fieldGrid{x: x, y: y, z: z}, palette.Heat(opts.Colors, 1))
	switch {
	case hm.Min > hm.Max:
		// No finite cells.
		hm.Min, hm.Max = -1, 1
	case hm.Min == hm.Max:
		hm.Min, hm.Max = hm.Min-1, hm.Max+1
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("%s [%s]", quantity, quantityUnits[quantity])
	}
	p.X.Label.Text = "x [kpc]"
	p.Y.Label.Text = "y [kpc]"
	p.Add(hm)

	return p, nil
}

// SaveHeatmap renders the heat map to path; the image format follows the
// file extension.
func SaveHeatmap(path string, x, y *mat.Dense, f *diskmodel.Field, quantity string, opts HeatmapOptions) error {
	p, err := NewHeatmap(x, y, f, quantity, opts)
	if err != nil {
		return err
	}
	return p.Save(opts.Width, opts.Height, path)
}
