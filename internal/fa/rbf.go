package fa

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Defaults used by NewRBF when no option overrides them.
const (
	DefaultBeta = 40.0
	DefaultMin  = 0.0
	DefaultMax  = 1.0
)

var (
	// ErrDimension is returned when a state has the wrong number of coordinates
	ErrDimension = errors.New("state dimension mismatch")
	// ErrOutOfBounds is returned when a state coordinate lies outside [min, max]
	ErrOutOfBounds = errors.New("state coordinate out of bounds")
	// ErrAction is returned when an action index is outside [0, NumActions)
	ErrAction = errors.New("action out of range")
)

// RBF is a radial basis function approximator. It places resolution^dim
// Gaussian kernels on a uniform grid over [min, max]^dim and reports the
// activation of every kernel for a given state.
//
// An RBF is immutable once built and safe for concurrent use.
type RBF struct {
	base

	dim        int
	resolution int
	beta       float64
	min, max   float64

	shape   gridShape
	centers []*mat.VecDense
}

// Option configures an RBF
type Option func(*RBF)

// WithBeta sets the kernel bandwidth. Larger values give narrower kernels.
func WithBeta(beta float64) Option {
	return func(r *RBF) {
		r.beta = beta
	}
}

// WithBounds sets the lower and upper bound shared by every dimension.
func WithBounds(min, max float64) Option {
	return func(r *RBF) {
		r.min = min
		r.max = max
	}
}

// NewRBF builds the center grid once. Invalid parameters are programming
// errors and panic.
func NewRBF(dim, resolution, numActions int, opts ...Option) *RBF {
	r := &RBF{
		dim:        dim,
		resolution: resolution,
		beta:       DefaultBeta,
		min:        DefaultMin,
		max:        DefaultMax,
	}
	for _, opt := range opts {
		opt(r)
	}

	if numActions < 1 {
		panic(fmt.Sprintf("fa: number of actions must be positive, got %d", numActions))
	}
	if !(r.beta > 0) {
		panic(fmt.Sprintf("fa: beta must be positive, got %v", r.beta))
	}

	r.shape = newGridShape(dim, resolution)
	r.centers = r.shape.centers(Segmentation(resolution, r.min, r.max))
	r.base = base{numFeatures: r.shape.size(), numActions: numActions}
	return r
}

// Dim returns the dimensionality of the state space.
func (r *RBF) Dim() int { return r.dim }

// Resolution returns the number of centers per dimension.
func (r *RBF) Resolution() int { return r.resolution }

// Beta returns the kernel bandwidth.
func (r *RBF) Beta() float64 { return r.beta }

// Bounds returns the shared lower and upper bound of the input space.
func (r *RBF) Bounds() (min, max float64) { return r.min, r.max }

// Center returns a copy of center ci.
func (r *RBF) Center(ci int) *mat.VecDense {
	return mat.VecDenseCopyOf(r.centers[ci])
}

// CenterIndex returns the feature slot of the center whose coordinate
// along axis d is segment value sub[d].
func (r *RBF) CenterIndex(sub []int) int {
	return r.shape.index(sub)
}

// Kernel evaluates a Gaussian kernel centered at c at the point x:
// exp(-beta * ||c - x||^2).
func Kernel(c, x mat.Vector, beta float64) float64 {
	var diff mat.VecDense
	return kernel(c, x, beta, &diff)
}

// kernel reuses diff as scratch space across calls.
func kernel(c, x mat.Vector, beta float64, diff *mat.VecDense) float64 {
	if c.Len() != x.Len() {
		panic(fmt.Sprintf("fa: kernel dimension mismatch: center has %d, point has %d", c.Len(), x.Len()))
	}
	diff.SubVec(c, x)
	return math.Exp(-beta * mat.Dot(diff, diff))
}

// Evaluate returns the activation of every center for state s. Entry ci
// belongs to center ci.
//
// Evaluate panics if s does not satisfy CheckState.
func (r *RBF) Evaluate(s mat.Vector) *mat.VecDense {
	if err := r.CheckState(s); err != nil {
		panic(err)
	}
	fv := mat.NewVecDense(r.numFeatures, nil)
	r.activate(s, fv.RawVector().Data)
	return fv
}

// EvaluateStateAction returns a vector of length Size made of NumActions
// blocks of NumFeatures entries. Block a holds exactly the values
// Evaluate(s) returns; every other block is zero.
//
// EvaluateStateAction panics if s does not satisfy CheckState or a does
// not satisfy CheckAction.
func (r *RBF) EvaluateStateAction(s mat.Vector, a int) *mat.VecDense {
	if err := r.CheckState(s); err != nil {
		panic(err)
	}
	if err := r.CheckAction(a); err != nil {
		panic(err)
	}

	// One row per action, one column per center.
	blocks := mat.NewDense(r.numActions, r.numFeatures, nil)
	r.activate(s, blocks.RawRowView(a))
	return mat.NewVecDense(r.Size(), blocks.RawMatrix().Data)
}

func (r *RBF) activate(s mat.Vector, dst []float64) {
	var diff mat.VecDense
	for ci, c := range r.centers {
		dst[ci] = kernel(c, s, r.beta, &diff)
	}
}

// CheckState reports whether s has Dim coordinates, all within the bounds.
func (r *RBF) CheckState(s mat.Vector) error {
	if s.Len() != r.dim {
		return errors.Wrapf(ErrDimension, "got %d coordinates, want %d", s.Len(), r.dim)
	}
	for i := 0; i < s.Len(); i++ {
		v := s.AtVec(i)
		if !(r.min <= v && v <= r.max) {
			return errors.Wrapf(ErrOutOfBounds, "coordinate %d is %v, bounds [%v, %v]", i, v, r.min, r.max)
		}
	}
	return nil
}

// CheckAction reports whether a is a valid action index.
func (r *RBF) CheckAction(a int) error {
	if a < 0 || a >= r.numActions {
		return errors.Wrapf(ErrAction, "got %d, want [0, %d)", a, r.numActions)
	}
	return nil
}

var _ Approximator = (*RBF)(nil)
