// Package media wraps sequential video decoding behind a timestamp-driven
// frame source. Decoding happens through ffmpeg pipes (Vidio); frames are
// pooled and explicitly released so backpressure upstream never piles up
// decoded pixel buffers.
package media

// Frame is one decoded video frame: interleaved RGBA bytes plus its
// presentation timestamp in seconds.
//
// Ownership is exclusive and sequential: a frame belongs to the FrameSource
// that decoded it until promotion hands it to the caller, and Release must
// be called exactly once when a newer frame supersedes it. The data must not
// be retained after Release.
type Frame struct {
	Data      []byte
	Width     int
	Height    int
	Timestamp float64

	src *FrameSource
}

// Release returns the frame's pixel buffer to its source's pool.
// Safe to call on a nil frame.
func (f *Frame) Release() {
	if f == nil || f.src == nil {
		return
	}
	f.src.recycle(f.Data)
	f.src = nil
	f.Data = nil
}
