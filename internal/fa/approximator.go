// Package fa provides linear function approximation features for
// reinforcement-learning agents.
package fa

import "gonum.org/v1/gonum/mat"

// Approximator produces feature vectors for a linear value or policy
// estimator. The estimator owns one weight per entry of the vector
// returned by EvaluateStateAction, so it sizes its storage with Size.
type Approximator interface {
	// NumFeatures is the length of a state-only feature vector.
	NumFeatures() int
	// NumActions is the number of discrete actions.
	NumActions() int
	// Size is NumFeatures * NumActions, the length of a state-action
	// feature vector.
	Size() int

	// Evaluate returns the NumFeatures-long feature vector of state s.
	Evaluate(s mat.Vector) *mat.VecDense
	// EvaluateStateAction returns the Size-long feature vector of s
	// under action a.
	EvaluateStateAction(s mat.Vector, a int) *mat.VecDense
}

// base holds the shape shared by every approximator
type base struct {
	numFeatures int
	numActions  int
}

// NumFeatures returns resolution^dim for grid approximators.
func (b base) NumFeatures() int { return b.numFeatures }

// NumActions returns the number of discrete actions.
func (b base) NumActions() int { return b.numActions }

// Size returns NumFeatures * NumActions.
func (b base) Size() int { return b.numFeatures * b.numActions }
