package media

import (
	"errors"
	"fmt"

	vidio "github.com/AlexEidt/Vidio"
)

// ErrNonMonotonicRead is returned when a caller requests a timestamp earlier
// than a previous request. The decoder only runs forward; callers guarantee
// monotonicity (the timeline remapper does).
var ErrNonMonotonicRead = errors.New("media: frame requested before previous request")

// decoder is the sequential decode seam under FrameSource. The production
// implementation pipes frames out of ffmpeg via Vidio; tests substitute a
// synthetic one.
type decoder interface {
	// next fills buf with the next frame in bitstream order and reports
	// false on stream exhaustion.
	next(buf []byte) (bool, error)
	width() int
	height() int
	fps() float64
	close() error
}

// FrameSource turns a stream of sequentially decoded frames into answers to
// "which frame is visible at time t". Requests must be monotonic
// non-decreasing; the source holds at most two decoded frames (current and
// lookahead) and recycles superseded buffers through a free list.
type FrameSource struct {
	dec       decoder
	frameDur  float64
	nextIndex int

	current   *Frame
	lookahead *Frame

	lastReq float64
	primed  bool
	free    [][]byte
	closed  bool
}

// NewFrameSource opens path for sequential decoding.
func NewFrameSource(path string) (*FrameSource, error) {
	v, err := vidio.NewVideo(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	if v.FPS() <= 0 {
		v.Close()
		return nil, fmt.Errorf("open video %s: no frame rate", path)
	}
	return newFrameSource(&vidioDecoder{video: v}), nil
}

func newFrameSource(dec decoder) *FrameSource {
	return &FrameSource{
		dec:      dec,
		frameDur: 1 / dec.fps(),
		lastReq:  -1,
	}
}

// FrameAt returns the frame visible at target: the latest decoded frame
// whose timestamp is at or before target. It decodes forward only as far as
// needed. Returns nil once the stream is exhausted and no earlier frame
// remains, without error.
func (s *FrameSource) FrameAt(target float64) (*Frame, error) {
	if s.closed {
		return nil, errors.New("media: frame source is closed")
	}
	if target < s.lastReq {
		return nil, fmt.Errorf("%w: %.4f after %.4f", ErrNonMonotonicRead, target, s.lastReq)
	}
	s.lastReq = target

	if !s.primed {
		s.primed = true
		f, err := s.pull()
		if err != nil {
			return nil, err
		}
		s.lookahead = f
	}

	for s.lookahead != nil && s.lookahead.Timestamp <= target {
		s.current.Release()
		s.current = s.lookahead
		f, err := s.pull()
		if err != nil {
			return nil, err
		}
		s.lookahead = f
	}

	if s.current != nil {
		return s.current, nil
	}
	// Nothing decoded before target yet; the first frame of the stream (if
	// any) is the nearest thing to show.
	return s.lookahead, nil
}

// Close releases all held frames and shuts the decoder down. Idempotent.
func (s *FrameSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.current.Release()
	s.lookahead.Release()
	s.current, s.lookahead = nil, nil
	s.free = nil
	return s.dec.close()
}

func (s *FrameSource) pull() (*Frame, error) {
	buf := s.buffer()
	ok, err := s.dec.next(buf)
	if err != nil {
		s.recycle(buf)
		return nil, fmt.Errorf("decode frame %d: %w", s.nextIndex, err)
	}
	if !ok {
		s.recycle(buf)
		return nil, nil
	}
	f := &Frame{
		Data:      buf,
		Width:     s.dec.width(),
		Height:    s.dec.height(),
		Timestamp: float64(s.nextIndex) * s.frameDur,
		src:       s,
	}
	s.nextIndex++
	return f, nil
}

func (s *FrameSource) buffer() []byte {
	if n := len(s.free); n > 0 {
		buf := s.free[n-1]
		s.free = s.free[:n-1]
		return buf
	}
	return make([]byte, s.dec.width()*s.dec.height()*4)
}

func (s *FrameSource) recycle(buf []byte) {
	if buf == nil || s.closed {
		return
	}
	s.free = append(s.free, buf)
}

// vidioDecoder adapts a vidio.Video to the decoder seam. Vidio drives an
// ffmpeg rawvideo pipe, so Read blocks until the next frame's bytes arrive
// and frames always come back in bitstream order.
type vidioDecoder struct {
	video *vidio.Video
}

func (d *vidioDecoder) next(buf []byte) (bool, error) {
	d.video.SetFrameBuffer(buf)
	return d.video.Read(), nil
}

func (d *vidioDecoder) width() int    { return d.video.Width() }
func (d *vidioDecoder) height() int   { return d.video.Height() }
func (d *vidioDecoder) fps() float64  { return d.video.FPS() }
func (d *vidioDecoder) close() error {
	d.video.Close()
	return nil
}
