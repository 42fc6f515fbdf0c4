package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/sim"
)

func TestSVGTracesEachBody(t *testing.T) {
	samples := []sim.Sample{
		{T: 1, IDs: []body.ID{0, 1}, Pos: []float64{0, 0, 10, 10}},
		{T: 2, IDs: []body.ID{0, 1}, Pos: []float64{1, 1, 9, 9}},
		{T: 3, IDs: []body.ID{0, 1}, Pos: []float64{2, 2, 8, 8}},
	}

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, samples, 2, 400, 400))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Equal(t, 2, strings.Count(out, "<path"), "one polyline per body")
	assert.Equal(t, 2, strings.Count(out, "<circle"), "final position markers")
}

func TestSVGEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, SVG(&buf, nil, 2, 400, 400))
}
