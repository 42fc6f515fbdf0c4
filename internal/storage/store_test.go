package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Times:       []float64{1, 2},
		StepsTaken:  2,
		EnergyDrift: 1.5e-9,
		Removed:     []body.ID{3},
		Metrics:     map[string]float64{"bodies": 2},
		Samples: []sim.Sample{
			{
				T:      1,
				IDs:    []body.ID{0, 1},
				Pos:    []float64{0, 0, 0, 100, 0, 0},
				Vel:    []float64{1, 0, 0, -1, 0, 0},
				Mass:   []float64{1e14, 2e14},
				Radius: []float64{1995, 2513},
				Temp:   []float64{300, 410},
			},
			{
				T:      2,
				IDs:    []body.ID{0, 1},
				Pos:    []float64{1, 0, 0, 99, 0, 0},
				Vel:    []float64{1, 0, 0, -1, 0, 0},
				Mass:   []float64{1e14, 2e14},
				Radius: []float64{1995, 2513},
				Temp:   []float64{299, 409},
			},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{
		Scenario:      "two-body",
		Solver:        "direct",
		Dt:            1,
		Duration:      2,
		Dim:           3,
		InitialBodies: 3,
		FinalBodies:   2,
	}, sampleResult())
	require.NoError(t, err)
	assert.Contains(t, runID, "two-body_")

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "direct", meta.Solver)
	assert.Equal(t, 1, meta.RemovedBodies)
	assert.Equal(t, 1.5e-9, meta.EnergyDrift)
	assert.Equal(t, 2.0, meta.Metrics["bodies"])
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save(RunMetadata{Scenario: "ring", Dim: 3}, sampleResult())
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "ring", runs[0].Scenario)
}

func TestListMissingDir(t *testing.T) {
	runs, err := New("/nonexistent/accrete-test").List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadSnapshotsRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	want := sampleResult()
	runID, err := st.Save(RunMetadata{Scenario: "two-body", Dim: 3}, want)
	require.NoError(t, err)

	samples, err := st.LoadSnapshots(runID, 3)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	got := samples[0]
	assert.Equal(t, 1.0, got.T)
	assert.Equal(t, want.Samples[0].IDs, got.IDs)
	assert.Equal(t, want.Samples[0].Pos, got.Pos)
	assert.Equal(t, want.Samples[0].Mass, got.Mass)
	assert.Equal(t, want.Samples[0].Temp, got.Temp)
	assert.Equal(t, 2.0, samples[1].T)
}
