package animation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhelio/solar-motion/internal/domain"
)

func raggedSeries() []domain.Series {
	return []domain.Series{
		{Region: "Brasil", Values: []float64{-35.5631, -33.4362}},
		{Region: "Alemanha", Values: []float64{36.1693}},
	}
}

func TestNewSequence(t *testing.T) {
	seq, err := NewSequence(raggedSeries())
	require.NoError(t, err)

	assert.Equal(t, 2, seq.FrameCount())
	assert.Equal(t, []float64{0, 180}, seq.Angles())
	assert.Equal(t, []string{"Brasil", "Alemanha"}, seq.Regions())
}

func TestNewSequenceNoSeries(t *testing.T) {
	_, err := NewSequence(nil)
	require.ErrorIs(t, err, domain.ErrNoValidRegions)
}

func TestFrameProgressiveReveal(t *testing.T) {
	seq, err := NewSequence(raggedSeries())
	require.NoError(t, err)

	t.Run("first frame shows one sample per region", func(t *testing.T) {
		frame, err := seq.Frame(0)
		require.NoError(t, err)
		require.Len(t, frame, 2)

		brasil := frame[0]
		assert.Equal(t, "Brasil", brasil.Region)
		assert.Equal(t, []float64{0}, brasil.Angles)
		assert.Equal(t, []float64{-35.5631}, brasil.Values)
		assert.Equal(t, Point{Angle: 0, Value: -35.5631}, brasil.Marker)

		alemanha := frame[1]
		assert.Equal(t, []float64{36.1693}, alemanha.Values)
		assert.Equal(t, Point{Angle: 0, Value: 36.1693}, alemanha.Marker)
	})

	t.Run("exhausted region freezes on its final sample", func(t *testing.T) {
		frame, err := seq.Frame(1)
		require.NoError(t, err)
		require.Len(t, frame, 2)

		brasil := frame[0]
		assert.Equal(t, []float64{0, 180}, brasil.Angles)
		assert.Equal(t, []float64{-35.5631, -33.4362}, brasil.Values)
		assert.Equal(t, Point{Angle: 180, Value: -33.4362}, brasil.Marker)

		alemanha := frame[1]
		assert.Equal(t, []float64{0}, alemanha.Angles)
		assert.Equal(t, Point{Angle: 0, Value: 36.1693}, alemanha.Marker)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := seq.Frame(-1)
		require.Error(t, err)
		_, err = seq.Frame(2)
		require.Error(t, err)
	})
}

func TestFrameIsPure(t *testing.T) {
	seq, err := NewSequence(raggedSeries())
	require.NoError(t, err)

	// Render out of order and repeatedly; every call for the same index must
	// return the same frame.
	last, err := seq.Frame(1)
	require.NoError(t, err)
	first, err := seq.Frame(0)
	require.NoError(t, err)

	lastAgain, err := seq.Frame(1)
	require.NoError(t, err)
	firstAgain, err := seq.Frame(0)
	require.NoError(t, err)

	if diff := cmp.Diff(last, lastAgain); diff != "" {
		t.Errorf("frame 1 changed between calls (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, firstAgain); diff != "" {
		t.Errorf("frame 0 changed between calls (-first +second):\n%s", diff)
	}
}

func TestSequenceDetachedFromCallerSlice(t *testing.T) {
	series := raggedSeries()
	seq, err := NewSequence(series)
	require.NoError(t, err)

	// Reordering the caller's slice must not affect frames already planned.
	series[0], series[1] = series[1], series[0]

	frame, err := seq.Frame(0)
	require.NoError(t, err)
	assert.Equal(t, "Brasil", frame[0].Region)
}
