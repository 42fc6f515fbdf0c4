package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/sim"
)

type Data struct {
	Scenario    string             `json:"scenario"`
	Solver      string             `json:"solver"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
	Removed     []body.ID          `json:"removed"`
	Samples     []sim.Sample       `json:"samples,omitempty"`
}

func build(scenario, solver string, dt, duration float64, result *sim.Result) Data {
	return Data{
		Scenario:    scenario,
		Solver:      solver,
		Dt:          dt,
		Duration:    duration,
		Steps:       result.StepsTaken,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
		Removed:     result.Removed,
		Samples:     result.Samples,
	}
}

// JSON writes a run result as indented JSON to w.
func JSON(w io.Writer, scenario, solver string, dt, duration float64, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(build(scenario, solver, dt, duration, result))
}

// JSONFile writes a run result to the given path.
func JSONFile(path, scenario, solver string, dt, duration float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return JSON(file, scenario, solver, dt, duration, result)
}
