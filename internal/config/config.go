// Package config holds the render and export settings for screenarc.
// Settings load from a TOML file; a missing file yields the defaults.
package config

// BackgroundKind selects how the canvas behind the framed video is filled.
type BackgroundKind string

const (
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
)

// FrameStyle controls the framed video: padding, corners, border and shadow.
// Colors are hex strings ("#RRGGBB" or "#RRGGBBAA").
type FrameStyle struct {
	Padding       float64        `toml:"padding"` // fraction of output, per side
	CornerRadius  float64        `toml:"corner_radius"`
	BorderWidth   float64        `toml:"border_width"`
	BorderColor   string         `toml:"border_color"`
	ShadowBlur    float64        `toml:"shadow_blur"`
	ShadowOffsetX float64        `toml:"shadow_offset_x"`
	ShadowOffsetY float64        `toml:"shadow_offset_y"`
	ShadowColor   string         `toml:"shadow_color"`
	Background    BackgroundKind `toml:"background"`
	BackgroundA   string         `toml:"background_color_a"`
	BackgroundB   string         `toml:"background_color_b"`
	BackgroundImg string         `toml:"background_image"`
}

// CursorStyle controls cursor replay: visibility, shadow, and the two click
// feedback effects (expanding ripple and scale pulse).
type CursorStyle struct {
	Show           bool    `toml:"show"`
	Shadow         bool    `toml:"shadow"`
	RippleEnabled  bool    `toml:"ripple_enabled"`
	RippleSize     float64 `toml:"ripple_size"` // radius in content px
	RippleDuration float64 `toml:"ripple_duration"`
	RippleColor    string  `toml:"ripple_color"`
	ScaleEnabled   bool    `toml:"scale_enabled"`
	ScaleAmount    float64 `toml:"scale_amount"` // e.g. 0.8 shrinks to 80%
	ScaleDuration  float64 `toml:"scale_duration"`
}

// WebcamShape selects the overlay clip shape.
type WebcamShape string

const (
	WebcamCircle    WebcamShape = "circle"
	WebcamSquare    WebcamShape = "square"
	WebcamRectangle WebcamShape = "rectangle"
)

// WebcamAnchor fixes the overlay to a corner or edge of the output.
type WebcamAnchor string

const (
	AnchorTopLeft      WebcamAnchor = "top-left"
	AnchorTopRight     WebcamAnchor = "top-right"
	AnchorBottomLeft   WebcamAnchor = "bottom-left"
	AnchorBottomRight  WebcamAnchor = "bottom-right"
	AnchorBottomCenter WebcamAnchor = "bottom-center"
)

// WebcamStyle controls the picture-in-picture webcam overlay.
// Size and ZoomSize are fractions of output height.
type WebcamStyle struct {
	Shape        WebcamShape  `toml:"shape"`
	CornerRadius float64      `toml:"corner_radius"`
	Size         float64      `toml:"size"`
	ZoomSize     float64      `toml:"zoom_size"`
	ShadowBlur   float64      `toml:"shadow_blur"`
	ShadowColor  string       `toml:"shadow_color"`
	FlipH        bool         `toml:"flip_horizontal"`
	ScaleOnZoom  bool         `toml:"scale_on_zoom"`
	Anchor       WebcamAnchor `toml:"anchor"`
	Margin       float64      `toml:"margin"` // fraction of output height
}

// Smoothing tunes the camera's cursor tracking.
type Smoothing struct {
	Window        float64 `toml:"window"`          // trailing EMA window, seconds
	Rate          float64 `toml:"rate"`            // EMA rate per event
	DeadZonePx    float64 `toml:"dead_zone_px"`    // jitter threshold
	DeadZoneDamp  float64 `toml:"dead_zone_damp"`  // rate multiplier inside dead zone
	CursorFreshMs float64 `toml:"cursor_fresh_ms"` // cursor hidden past this age
}

// ExportDefaults seed the export settings when the CLI gives none.
type ExportDefaults struct {
	Format     string `toml:"format"`
	Resolution string `toml:"resolution"`
	FPS        int    `toml:"fps"`
	Quality    string `toml:"quality"`
	Inflight   int    `toml:"inflight"` // encoder frames in flight
}

// Config is the full settings tree.
type Config struct {
	Frame     FrameStyle     `toml:"frame"`
	Cursor    CursorStyle    `toml:"cursor"`
	Webcam    WebcamStyle    `toml:"webcam"`
	Smoothing Smoothing      `toml:"smoothing"`
	Export    ExportDefaults `toml:"export"`
}
