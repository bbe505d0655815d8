package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaugeOps(t *testing.T) {
	var g Gauge
	assert.Zero(t, g.Get())

	g.Set(1.5)
	assert.Equal(t, 1.5, g.Get())
	assert.Equal(t, 2.0, g.Add(0.5))

	assert.Equal(t, 3.0, g.Max(3))
	assert.Equal(t, 3.0, g.Max(2))
	assert.Equal(t, 3.0, g.Get())
}

func TestGaugeConcurrentAdd(t *testing.T) {
	var g Gauge
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				g.Add(0.5)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 4000.0, g.Get())
}

func TestMetricMapCachesPointer(t *testing.T) {
	m := NewMetricMap[Gauge]()
	a := m.Get("x")
	b := m.Get("x")
	require.Same(t, a, b)
	assert.True(t, m.Has("x"))
	assert.False(t, m.Has("y"))
	assert.Equal(t, 1, m.Count())
}

func TestRegistrySnapshotAndLines(t *testing.T) {
	r := NewRegistry()
	r.Counter(Steps).Add(3)
	r.Counter(Frames).Add(5)
	r.Gauge(MaxStretch).Set(1.25)

	snap := r.Snapshot()
	assert.Equal(t, map[string]float64{Steps: 3, Frames: 5, MaxStretch: 1.25}, snap)

	assert.Equal(t, []string{
		"loop.frames=5",
		"sim.steps=3",
		"sim.max_stretch=1.250",
	}, r.Lines())
}
