package eval

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"rbfrl/internal/fa"
	"rbfrl/internal/trace"
)

func TestEvaluateSample(t *testing.T) {
	logger, _ := test.NewNullLogger()
	r := fa.NewRBF(2, 3, 2)
	e := NewEvaluator(r, 1, logger)

	t.Run("state only", func(t *testing.T) {
		res := e.EvaluateSample(4, trace.Sample{State: []float64{0.5, 0.5}})
		require.NoError(t, res.Err)
		assert.Equal(t, 4, res.Index)
		assert.Equal(t, -1, res.Action)
		assert.True(t, mat.Equal(r.Evaluate(mat.NewVecDense(2, []float64{0.5, 0.5})), res.Features))
		assert.Equal(t, r.CenterIndex([]int{1, 1}), res.Stats.PeakIndex)
	})

	t.Run("state action", func(t *testing.T) {
		a := 1
		res := e.EvaluateSample(0, trace.Sample{State: []float64{0, 1}, Action: &a})
		require.NoError(t, res.Err)
		assert.Equal(t, 1, res.Action)
		assert.Equal(t, r.Size(), res.Features.Len())
		assert.Equal(t, r.NumFeatures()+r.CenterIndex([]int{0, 2}), res.Stats.PeakIndex)
	})

	t.Run("rejected", func(t *testing.T) {
		bad := 2
		cases := []struct {
			name   string
			sample trace.Sample
			want   error
		}{
			{"empty", trace.Sample{}, fa.ErrDimension},
			{"wrong dim", trace.Sample{State: []float64{0.5}}, fa.ErrDimension},
			{"out of bounds", trace.Sample{State: []float64{0.5, 1.5}}, fa.ErrOutOfBounds},
			{"bad action", trace.Sample{State: []float64{0.5, 0.5}, Action: &bad}, fa.ErrAction},
		}
		for _, c := range cases {
			res := e.EvaluateSample(0, c.sample)
			assert.True(t, errors.Is(res.Err, c.want), c.name)
			assert.Nil(t, res.Features, c.name)
		}
	})
}

func TestEvaluateTrace(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := fa.NewRBF(2, 4, 3)
	e := NewEvaluator(r, 4, logger)

	tr := trace.GridSweep(2, 4, 0, 1, 3)
	tr.Record([]float64{2, 0})
	results := e.EvaluateTrace(tr)
	require.Len(t, results, tr.Len())

	for i, res := range results[:len(results)-1] {
		require.NoError(t, res.Err)
		assert.Equal(t, i, res.Index)
		// sweep points coincide with centers, so every sample peaks at its own center
		ci := i / 3
		assert.Equal(t, res.Action*r.NumFeatures()+ci, res.Stats.PeakIndex)
		assert.Equal(t, 1.0, res.Stats.Peak)
	}

	last := results[len(results)-1]
	assert.True(t, errors.Is(last.Err, fa.ErrOutOfBounds))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, len(results)-1, hook.LastEntry().Data["sample"])

	s := Summarize(results)
	assert.Equal(t, len(results)-1, s.Evaluated)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 1.0, s.PeakMean)
}

func TestNewEvaluatorDefaultsWorkers(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e := NewEvaluator(fa.NewRBF(1, 2, 1), 0, logger)
	assert.Greater(t, e.workers, 0)
}
