package viz

import (
	"github.com/guptarohit/asciigraph"
)

type ChartOptions struct {
	Caption string
	Height  int
	Width   int
}

// Chart plots values as an ASCII line graph. Empty input renders nothing.
func Chart(values []float64, opts ChartOptions) string {
	if len(values) == 0 {
		return ""
	}
	if opts.Height <= 0 {
		opts.Height = 10
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	return asciigraph.Plot(values,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(opts.Caption),
	)
}
