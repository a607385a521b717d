package timeline

import (
	"encoding/json"
	"fmt"
	"os"
)

// Geometry is a rectangle in source pixel space: the region of the screen
// that was captured. Mouse coordinates are normalized against it.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ScreenSize is the full screen dimensions at capture time.
type ScreenSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CursorImage is a raw cursor bitmap recorded by the capture layer.
// Image holds interleaved pixel bytes whose channel order depends on the
// capture platform; see the render package's bitmap preparers.
type CursorImage struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	XHot   int    `json:"xhot"`
	YHot   int    `json:"yhot"`
	Image  []byte `json:"image"`
}

// Metadata is the recorded sidecar file written next to the captured video.
// Event timestamps are stored in milliseconds on disk and converted to
// seconds on load.
type Metadata struct {
	Platform     string                 `json:"platform"`
	ScreenSize   ScreenSize             `json:"screenSize"`
	Geometry     Geometry               `json:"geometry"`
	SyncOffset   float64                `json:"syncOffset"`
	CursorImages map[string]CursorImage `json:"cursorImages"`
	Events       []metadataEvent        `json:"events"`
}

type metadataEvent struct {
	Timestamp float64 `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Type      string  `json:"type"`
	Pressed   bool    `json:"pressed,omitempty"`
	Button    int     `json:"button,omitempty"`
	CursorKey string  `json:"cursorImageKey,omitempty"`
}

// LoadMetadata reads and decodes a recorded metadata file. dpiScale corrects
// geometry and screen size when the capture layer reported logical pixels;
// pass 1 when no correction is needed.
func LoadMetadata(path string, dpiScale float64) (*Metadata, *EventLog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, nil, fmt.Errorf("decode metadata: %w", err)
	}
	if dpiScale <= 0 {
		dpiScale = 1
	}
	meta.Geometry.X *= dpiScale
	meta.Geometry.Y *= dpiScale
	meta.Geometry.Width *= dpiScale
	meta.Geometry.Height *= dpiScale
	meta.ScreenSize.Width *= dpiScale
	meta.ScreenSize.Height *= dpiScale
	if meta.Geometry.Width <= 0 || meta.Geometry.Height <= 0 {
		return nil, nil, fmt.Errorf("metadata: empty capture geometry")
	}

	evs := make([]MouseEvent, 0, len(meta.Events))
	for _, e := range meta.Events {
		evs = append(evs, MouseEvent{
			Time:      e.Timestamp / 1000,
			X:         e.X * dpiScale,
			Y:         e.Y * dpiScale,
			Type:      EventType(e.Type),
			Pressed:   e.Pressed,
			CursorKey: e.CursorKey,
		})
	}
	return &meta, NewEventLog(evs), nil
}

// SaveMetadata encodes meta to path. Used by the capture recorder; the
// rendering core only reads.
func SaveMetadata(path string, meta *Metadata) error {
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// AppendEvent records one event with a millisecond timestamp.
func (m *Metadata) AppendEvent(tMillis, x, y float64, typ EventType, pressed bool, button int, cursorKey string) {
	m.Events = append(m.Events, metadataEvent{
		Timestamp: tMillis,
		X:         x,
		Y:         y,
		Type:      string(typ),
		Pressed:   pressed,
		Button:    button,
		CursorKey: cursorKey,
	})
}
