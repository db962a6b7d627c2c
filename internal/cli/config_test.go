package cli

import (
	"testing"

	"github.com/akmonengine/rig"
)

func TestLoadSolverConfig(t *testing.T) {
	path := writeFile(t, "solver.toml", `
[solver]
step_scale = 0.25
max_iterations = 40
damping = 0.1
workers = 4
`)

	s := rig.NewSolver(nil)
	if err := loadSolverConfig(path, s); err != nil {
		t.Fatalf("loadSolverConfig() error = %v", err)
	}

	if s.StepScale != 0.25 || s.MaxIterations != 40 || s.Damping != 0.1 || s.Workers != 4 {
		t.Errorf("solver = %+v", s)
	}
	// keys left out keep their defaults
	if s.ToleranceSquared != rig.DEFAULT_TOLERANCE_SQUARED || s.Perturbation != rig.DefaultPerturbation {
		t.Errorf("defaults overwritten: tolerance %v, perturbation %v", s.ToleranceSquared, s.Perturbation)
	}
}

func TestLoadSolverConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[solver]\nlearning_rate = 1.0\n"},
		{"wrong type", "[solver]\nmax_iterations = \"many\"\n"},
		{"malformed", "[solver\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "solver.toml", tt.content)
			if err := loadSolverConfig(path, rig.NewSolver(nil)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		input   string
		name    string
		values  []float64
		wantErr bool
	}{
		{"elbow=0.5", "elbow", []float64{0.5}, false},
		{"neck=0.1, 0.2,0.3", "neck", []float64{0.1, 0.2, 0.3}, false},
		{"elbow", "", nil, true},
		{"=1", "", nil, true},
		{"elbow=fast", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, values, err := parseAssignment(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAssignment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.name || len(values) != len(tt.values) {
				t.Fatalf("parseAssignment(%q) = %q, %v", tt.input, name, values)
			}
			for i := range values {
				if values[i] != tt.values[i] {
					t.Errorf("value %d = %v, want %v", i, values[i], tt.values[i])
				}
			}
		})
	}
}
