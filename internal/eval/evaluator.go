package eval

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"rbfrl/internal/fa"
	"rbfrl/internal/trace"
)

// Approximator is a feature generator that can validate its input
// before evaluating it.
type Approximator interface {
	fa.Approximator
	CheckState(s mat.Vector) error
	CheckAction(a int) error
}

// Result is the outcome of evaluating one trace sample
type Result struct {
	Index    int // position in the trace
	Action   int // -1 for state-only samples
	Features *mat.VecDense
	Stats    fa.FeatureStats
	Err      error // set when the sample was rejected; Features is nil
}

// Evaluator turns trace samples into feature vectors
type Evaluator struct {
	approx  Approximator
	workers int
	logger  logrus.FieldLogger
}

// NewEvaluator creates a new evaluator. workers <= 0 uses one worker per CPU.
func NewEvaluator(approx Approximator, workers int, logger logrus.FieldLogger) *Evaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Evaluator{
		approx:  approx,
		workers: workers,
		logger:  logger,
	}
}

// EvaluateSample validates and evaluates a single sample
func (e *Evaluator) EvaluateSample(index int, s trace.Sample) Result {
	res := Result{Index: index, Action: -1}
	if s.Action != nil {
		res.Action = *s.Action
	}

	if len(s.State) == 0 {
		res.Err = errors.Wrap(fa.ErrDimension, "empty state")
		return res
	}
	state := s.Vector()
	if err := e.approx.CheckState(state); err != nil {
		res.Err = err
		return res
	}

	if s.Action == nil {
		res.Features = e.approx.Evaluate(state)
	} else {
		if err := e.approx.CheckAction(*s.Action); err != nil {
			res.Err = err
			return res
		}
		res.Features = e.approx.EvaluateStateAction(state, *s.Action)
	}
	res.Stats = fa.Summarize(res.Features)
	return res
}

// EvaluateTrace evaluates every sample of a trace concurrently. Results are
// returned in trace order.
func (e *Evaluator) EvaluateTrace(tr *trace.Trace) []Result {
	results := make([]Result, tr.Len())

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)

	for i, sample := range tr.Samples {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, s trace.Sample) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = e.EvaluateSample(i, s)
		}(i, sample)
	}
	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			e.logger.WithError(r.Err).WithField("sample", r.Index).Warn("rejected sample")
		}
	}
	return results
}

// Summary aggregates a batch of results
type Summary struct {
	Evaluated int
	Rejected  int
	PeakMean  float64
	SumMean   float64
}

// Summarize aggregates the accepted results of a batch
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Err != nil {
			s.Rejected++
			continue
		}
		s.Evaluated++
		s.PeakMean += r.Stats.Peak
		s.SumMean += r.Stats.Sum
	}
	if s.Evaluated > 0 {
		s.PeakMean /= float64(s.Evaluated)
		s.SumMean /= float64(s.Evaluated)
	}
	return s
}
