package config

var Presets = map[string]map[string]*Config{
	"two-body": {
		"approach": {
			Scenario: "two-body", Solver: "direct", Dim: 3, Dt: 1, Duration: 86400,
		},
	},
	"ring": {
		"stable": {
			Scenario: "ring", Solver: "tree", Dim: 3, Bodies: 128, Dt: 1, Duration: 7200,
		},
		"dense": {
			Scenario: "ring", Solver: "tree", Dim: 3, Bodies: 1024, Dt: 0.5, Duration: 3600,
		},
	},
	"disk": {
		"small": {
			Scenario: "disk", Solver: "tree", Dim: 3, Bodies: 256, Dt: 1, Duration: 3600,
		},
		"large": {
			Scenario: "disk", Solver: "tree", Dim: 3, Bodies: 4096, Dt: 1, Duration: 3600,
		},
		"flat": {
			Scenario: "disk", Solver: "tree", Dim: 2, Bodies: 1024, Dt: 1, Duration: 3600,
		},
	},
	"cluster": {
		"collapse": {
			Scenario: "cluster", Solver: "direct", Dim: 3, Bodies: 256, Dt: 1, Duration: 7200,
		},
	},
	"collision-course": {
		"headon": {
			Scenario: "collision-course", Solver: "direct", Dim: 3, Dt: 1, Duration: 600,
		},
	},
}

func GetPreset(scenario, name string) *Config {
	group, ok := Presets[scenario]
	if !ok {
		return nil
	}
	return group[name]
}

func ListPresets(scenario string) []string {
	group, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for n := range group {
		names = append(names, n)
	}
	return names
}
