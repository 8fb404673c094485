package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.ObserveStars(10, 5*time.Millisecond)
	c.ObserveStars(5, time.Millisecond)
	c.ObserveGrid(400, 20*time.Millisecond)
	c.ObserveCurve(time.Millisecond)

	assert.Equal(t, 15.0, testutil.ToFloat64(c.Stars))
	assert.Equal(t, 400.0, testutil.ToFloat64(c.GridCells))
	assert.Equal(t, 3, testutil.CollectAndCount(c.Durations))
}

func TestCollectorReRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewCollector(reg)
	require.NoError(t, err)
	b, err := NewCollector(reg)
	require.NoError(t, err)

	a.ObserveStars(2, 0)
	assert.Equal(t, 2.0, testutil.ToFloat64(b.Stars))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.ObserveStars(1, time.Second)
	c.ObserveGrid(1, time.Second)
	c.ObserveCurve(time.Second)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	c.ObserveGrid(9, time.Millisecond)

	path := filepath.Join(t.TempDir(), "diskrot.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "diskrot_grid_cells_evaluated_total 9")
	assert.Contains(t, string(data), `diskrot_evaluation_duration_seconds_count{operation="field"} 1`)
}
