package config

import "fmt"

// Validate rejects settings the renderer cannot honor.
func (c *Config) Validate() error {
	if c.Frame.Padding < 0 || c.Frame.Padding >= 0.5 {
		return fmt.Errorf("frame.padding must be in [0, 0.5), got %v", c.Frame.Padding)
	}
	if c.Frame.CornerRadius < 0 {
		return fmt.Errorf("frame.corner_radius must be >= 0")
	}
	switch c.Frame.Background {
	case BackgroundSolid, BackgroundGradient, BackgroundImage:
	default:
		return fmt.Errorf("frame.background %q is not solid, gradient or image", c.Frame.Background)
	}
	if c.Frame.Background == BackgroundImage && c.Frame.BackgroundImg == "" {
		return fmt.Errorf("frame.background_image is required for image backgrounds")
	}
	if c.Cursor.RippleDuration < 0 || c.Cursor.ScaleDuration < 0 {
		return fmt.Errorf("cursor effect durations must be >= 0")
	}
	switch c.Webcam.Shape {
	case WebcamCircle, WebcamSquare, WebcamRectangle:
	default:
		return fmt.Errorf("webcam.shape %q is not circle, square or rectangle", c.Webcam.Shape)
	}
	switch c.Webcam.Anchor {
	case AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight, AnchorBottomCenter:
	default:
		return fmt.Errorf("webcam.anchor %q is not a corner or edge anchor", c.Webcam.Anchor)
	}
	if c.Webcam.Size <= 0 || c.Webcam.Size > 1 || c.Webcam.ZoomSize <= 0 || c.Webcam.ZoomSize > 1 {
		return fmt.Errorf("webcam sizes must be in (0, 1]")
	}
	if c.Smoothing.Window <= 0 {
		return fmt.Errorf("smoothing.window must be > 0")
	}
	if c.Smoothing.Rate <= 0 || c.Smoothing.Rate > 1 {
		return fmt.Errorf("smoothing.rate must be in (0, 1]")
	}
	if c.Export.FPS <= 0 {
		return fmt.Errorf("export.fps must be > 0")
	}
	if c.Export.Inflight <= 0 {
		return fmt.Errorf("export.inflight must be > 0")
	}
	return nil
}
