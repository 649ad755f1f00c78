package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	tr := New(2, 0, 1)
	state := []float64{0.1, 0.2}
	tr.Record(state)
	tr.RecordAction(state, 3)
	state[0] = 0.9

	require.Equal(t, 2, tr.Len())
	assert.Equal(t, []float64{0.1, 0.2}, tr.Samples[0].State)
	assert.Nil(t, tr.Samples[0].Action)
	require.NotNil(t, tr.Samples[1].Action)
	assert.Equal(t, 3, *tr.Samples[1].Action)
	assert.Equal(t, 0.2, tr.Samples[1].Vector().AtVec(1))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trace.json")

	tr := New(2, -1, 1)
	tr.Record([]float64{-1, 1})
	tr.RecordAction([]float64{0, 0.5}, 1)
	require.NoError(t, tr.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tr, loaded)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read trace")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode trace")
}

func TestGridSweep(t *testing.T) {
	t.Run("state only", func(t *testing.T) {
		tr := GridSweep(2, 3, 0, 1, 0)
		require.Equal(t, 9, tr.Len())
		assert.Equal(t, []float64{0, 0}, tr.Samples[0].State)
		assert.Equal(t, []float64{0, 0.5}, tr.Samples[1].State)
		assert.Equal(t, []float64{1, 1}, tr.Samples[8].State)
		for _, s := range tr.Samples {
			assert.Nil(t, s.Action)
		}
	})

	t.Run("stays inside inexact bounds", func(t *testing.T) {
		for steps := 2; steps < 40; steps++ {
			tr := GridSweep(1, steps, 0, 0.3, 0)
			require.Equal(t, steps, tr.Len())
			assert.Equal(t, 0.0, tr.Samples[0].State[0])
			assert.Equal(t, 0.3, tr.Samples[steps-1].State[0], "steps=%d", steps)
			for _, s := range tr.Samples {
				assert.True(t, s.State[0] >= 0 && s.State[0] <= 0.3, "steps=%d value=%v", steps, s.State[0])
			}
		}
	})

	t.Run("every action per point", func(t *testing.T) {
		tr := GridSweep(1, 2, 0, 1, 3)
		require.Equal(t, 6, tr.Len())
		for i, s := range tr.Samples {
			require.NotNil(t, s.Action)
			assert.Equal(t, i%3, *s.Action)
			assert.Equal(t, float64(i/3), s.State[0])
		}
	})
}
