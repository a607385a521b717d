package config

// Defaults returns the settings used when no config file exists.
func Defaults() *Config {
	return &Config{
		Frame: FrameStyle{
			Padding:       0.06,
			CornerRadius:  14,
			BorderWidth:   1.5,
			BorderColor:   "#FFFFFF33",
			ShadowBlur:    28,
			ShadowOffsetX: 0,
			ShadowOffsetY: 10,
			ShadowColor:   "#00000066",
			Background:    BackgroundGradient,
			BackgroundA:   "#1E2A4A",
			BackgroundB:   "#4A1E5A",
		},
		Cursor: CursorStyle{
			Show:           true,
			Shadow:         true,
			RippleEnabled:  true,
			RippleSize:     36,
			RippleDuration: 0.6,
			RippleColor:    "#FFFFFF99",
			ScaleEnabled:   true,
			ScaleAmount:    0.8,
			ScaleDuration:  0.25,
		},
		Webcam: WebcamStyle{
			Shape:        WebcamCircle,
			CornerRadius: 18,
			Size:         0.22,
			ZoomSize:     0.14,
			ShadowBlur:   16,
			ShadowColor:  "#00000080",
			FlipH:        true,
			ScaleOnZoom:  true,
			Anchor:       AnchorBottomRight,
			Margin:       0.03,
		},
		Smoothing: Smoothing{
			Window:        0.4,
			Rate:          0.3,
			DeadZonePx:    2,
			DeadZoneDamp:  0.3,
			CursorFreshMs: 100,
		},
		Export: ExportDefaults{
			Format:     "mp4",
			Resolution: "1080p",
			FPS:        30,
			Quality:    "high",
			Inflight:   2,
		},
	}
}
