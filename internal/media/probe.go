package media

import (
	"fmt"
	"os/exec"
	"strings"

	vidio "github.com/AlexEidt/Vidio"
)

// StreamInfo is the result of probing a media file before export. Probing
// happens once at pipeline setup so the exporter works from a typed
// configuration instead of re-detecting capabilities mid-loop.
type StreamInfo struct {
	Path     string
	Duration float64
	FPS      float64
	Width    int
	Height   int
	HasAudio bool
}

// AspectRatio returns width over height.
func (i StreamInfo) AspectRatio() float64 {
	if i.Height == 0 {
		return 16.0 / 9.0
	}
	return float64(i.Width) / float64(i.Height)
}

// Probe inspects the media file at path. A file without a video stream is an
// error; the exporter treats it as fatal.
func Probe(path string) (StreamInfo, error) {
	v, err := vidio.NewVideo(path)
	if err != nil {
		return StreamInfo{}, fmt.Errorf("probe %s: %w", path, err)
	}
	defer v.Close()

	info := StreamInfo{
		Path:     path,
		Duration: v.Duration(),
		FPS:      v.FPS(),
		Width:    v.Width(),
		Height:   v.Height(),
		HasAudio: hasAudioStream(path),
	}
	if info.Width <= 0 || info.Height <= 0 || info.FPS <= 0 {
		return StreamInfo{}, fmt.Errorf("probe %s: no usable video stream", path)
	}
	return info, nil
}

// hasAudioStream asks ffprobe for audio streams specifically. Vidio's
// HasStreams is true for any non-video stream (subtitles, data tracks), and
// muxing against a file without real audio fails the whole encode, so only
// a positive audio probe counts.
func hasAudioStream(path string) bool {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=codec_type",
		"-of", "csv=p=0",
		path,
	).Output()
	if err != nil {
		return false
	}
	return parseAudioStreams(out)
}

func parseAudioStreams(out []byte) bool {
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) == "audio" {
			return true
		}
	}
	return false
}
