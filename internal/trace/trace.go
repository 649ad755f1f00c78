// Package trace stores sequences of states (and optional actions) to be
// turned into feature vectors.
package trace

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"rbfrl/internal/fa"
)

// Sample is one state, optionally paired with an action
type Sample struct {
	State  []float64 `json:"state"`
	Action *int      `json:"action,omitempty"`
}

// Vector returns the state as a gonum vector sharing its storage.
func (s Sample) Vector() *mat.VecDense {
	return mat.NewVecDense(len(s.State), s.State)
}

// Trace is a recorded sequence of samples over a bounded state space
type Trace struct {
	Dim     int      `json:"dim"`
	Min     float64  `json:"min_val"`
	Max     float64  `json:"max_val"`
	Samples []Sample `json:"samples"`
}

// New creates an empty trace
func New(dim int, min, max float64) *Trace {
	return &Trace{
		Dim:     dim,
		Min:     min,
		Max:     max,
		Samples: make([]Sample, 0, 256),
	}
}

// Record appends a state-only sample
func (t *Trace) Record(state []float64) {
	t.Samples = append(t.Samples, Sample{State: cloneState(state)})
}

// RecordAction appends a state-action sample
func (t *Trace) RecordAction(state []float64, action int) {
	a := action
	t.Samples = append(t.Samples, Sample{State: cloneState(state), Action: &a})
}

// Len returns the number of samples
func (t *Trace) Len() int {
	return len(t.Samples)
}

// Save writes the trace to a file
func (t *Trace) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "create trace dir")
		}
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode trace")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write trace")
}

// Load reads a trace from a file
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read trace")
	}
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrapf(err, "decode trace %s", path)
	}
	return &t, nil
}

// GridSweep covers [min, max]^dim with steps points per dimension, in
// the same order as the RBF center grid. With numActions > 0 every point
// is recorded once per action; otherwise state-only samples are recorded.
func GridSweep(dim, steps int, min, max float64, numActions int) *Trace {
	t := New(dim, min, max)
	for _, p := range fa.BuildCenters(dim, steps, min, max) {
		state := mat.Col(nil, 0, p)
		if numActions <= 0 {
			t.Record(state)
			continue
		}
		for a := 0; a < numActions; a++ {
			t.RecordAction(state, a)
		}
	}
	return t
}

func cloneState(src []float64) []float64 {
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}
