package fa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	fs := Summarize(vec(0, 2, 0, 2))
	assert.Equal(t, 1, fs.PeakIndex)
	assert.Equal(t, 2.0, fs.Peak)
	assert.Equal(t, 4.0, fs.Sum)
	assert.Equal(t, 1.0, fs.Mean)
	assert.Equal(t, 1.0, fs.Std)
	assert.Equal(t, 2, fs.NonZero)
	assert.Equal(t, 4, fs.Len)
}

func TestSummarizeStateAction(t *testing.T) {
	r := NewRBF(2, 3, 3)
	fs := Summarize(r.EvaluateStateAction(vec(1, 1), 2))

	assert.Equal(t, r.Size(), fs.Len)
	assert.Equal(t, r.NumFeatures(), fs.NonZero)
	assert.Equal(t, 2*r.NumFeatures()+r.CenterIndex([]int{2, 2}), fs.PeakIndex)
	assert.Equal(t, 1.0, fs.Peak)
	assert.False(t, math.IsNaN(fs.Std))
}
