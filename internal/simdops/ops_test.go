package simdops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_ReturnsMatchingTable(t *testing.T) {
	assert.Same(t, Float32Ops(), For[float32]())
	assert.Same(t, Float64Ops(), For[float64]())
}

func TestOps_Basic(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := []float64{9, 8, 7, 6, 5, 4, 3, 2, 1}

	ops := For[float64]()
	assert.InDelta(t, 165.0, ops.DotProductUnsafe(a, b), 1e-12)
	assert.InDelta(t, 45.0, ops.Sum(a), 1e-12)

	dst := make([]float64, len(a))
	ops.Scale(dst, a, 0.5)
	for i := range a {
		assert.InDelta(t, a[i]*0.5, dst[i], 1e-12)
	}
}

func TestScaleClamp(t *testing.T) {
	tests := []struct {
		name  string
		in    []float32
		scale float32
		want  []float32
	}{
		{"within range", []float32{0.1, -0.2, 0.3}, 2, []float32{0.2, -0.4, 0.6}},
		{"clips both ends", []float32{0.6, -0.9, 0.25}, 4, []float32{1, -1, 1}},
		{"NaN becomes zero", []float32{float32(math.NaN()), 0.5}, 1, []float32{0, 0.5}},
		{"empty", []float32{}, 3, []float32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]float32, len(tt.in))
			ScaleClamp(dst, tt.in, tt.scale, -1, 1)
			require.Len(t, dst, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], dst[i], 1e-6, "index %d", i)
			}
		})
	}
}

func TestScaleClamp_InPlace(t *testing.T) {
	buf := []float64{0.25, -0.5, 1}
	ScaleClamp(buf, buf, 3, -1, 1)
	assert.Equal(t, []float64{0.75, -1, 1}, buf)
}
