package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDecoder yields n synthetic 2x2 frames at the given fps. Each frame's
// first byte is its index so tests can tell frames apart.
type stubDecoder struct {
	n       int
	served  int
	rate    float64
	closed  bool
}

func (d *stubDecoder) next(buf []byte) (bool, error) {
	if d.served >= d.n {
		return false, nil
	}
	buf[0] = byte(d.served)
	d.served++
	return true, nil
}

func (d *stubDecoder) width() int   { return 2 }
func (d *stubDecoder) height() int  { return 2 }
func (d *stubDecoder) fps() float64 { return d.rate }
func (d *stubDecoder) close() error {
	d.closed = true
	return nil
}

func TestFrameAtReturnsNearestPreceding(t *testing.T) {
	s := newFrameSource(&stubDecoder{n: 10, rate: 10}) // frames at 0.0, 0.1, ...

	tests := []struct {
		at   float64
		want byte
	}{
		{0.0, 0},
		{0.05, 0},
		{0.1, 1}, // boundary belongs to the new frame
		{0.34, 3},
		{0.35, 3},
		{0.9, 9},
	}
	for _, tt := range tests {
		f, err := s.FrameAt(tt.at)
		require.NoError(t, err)
		require.NotNil(t, f, "at %v", tt.at)
		assert.Equal(t, tt.want, f.Data[0], "at %v", tt.at)
	}
}

func TestFrameAtMonotonicContract(t *testing.T) {
	s := newFrameSource(&stubDecoder{n: 10, rate: 10})

	_, err := s.FrameAt(0.5)
	require.NoError(t, err)

	_, err = s.FrameAt(0.2)
	assert.ErrorIs(t, err, ErrNonMonotonicRead)

	// Equal timestamps are allowed.
	_, err = s.FrameAt(0.5)
	assert.NoError(t, err)
}

func TestFrameTimestampsNeverRegress(t *testing.T) {
	s := newFrameSource(&stubDecoder{n: 30, rate: 30})
	prev := -1.0
	for _, at := range []float64{0, 0.01, 0.2, 0.2, 0.21, 0.5, 0.93, 2.0} {
		f, err := s.FrameAt(at)
		require.NoError(t, err)
		require.NotNil(t, f)
		require.GreaterOrEqual(t, f.Timestamp, prev)
		prev = f.Timestamp
	}
}

func TestFrameAtPastEndKeepsLastFrame(t *testing.T) {
	s := newFrameSource(&stubDecoder{n: 3, rate: 10})
	f, err := s.FrameAt(5)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, byte(2), f.Data[0])
}

func TestEmptyStreamReturnsNil(t *testing.T) {
	s := newFrameSource(&stubDecoder{n: 0, rate: 10})
	f, err := s.FrameAt(0)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestBuffersAreRecycled(t *testing.T) {
	s := newFrameSource(&stubDecoder{n: 20, rate: 10})
	_, err := s.FrameAt(0)
	require.NoError(t, err)
	_, err = s.FrameAt(1.5) // walk through many frames
	require.NoError(t, err)

	// Only current+lookahead stay live; everything else went to the pool
	// and the pool never grows beyond what two in-flight frames need.
	assert.LessOrEqual(t, len(s.free), 2)
}

func TestCloseShutsDecoderAndReleasesFrames(t *testing.T) {
	dec := &stubDecoder{n: 5, rate: 10}
	s := newFrameSource(dec)
	_, err := s.FrameAt(0.2)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.True(t, dec.closed)

	_, err = s.FrameAt(0.3)
	assert.Error(t, err)

	// Idempotent.
	assert.NoError(t, s.Close())
}
