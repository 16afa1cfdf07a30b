// Package timeline converts between media timestamps and screen
// positions on the editor timeline. All functions are stateless; the
// zoom/scroll display state lives in Viewport.
package timeline

// Zoom bounds for the timeline viewport.
const (
	MinZoom = 0.5
	MaxZoom = 4.0
)

// Viewport is pure display state. It never changes stored time values,
// only how the mapper projects them onto pixels.
type Viewport struct {
	Zoom         float64 `json:"zoom"`
	ScrollOffset float64 `json:"scroll_offset"`
}

// DefaultViewport returns a viewport at 1x zoom with no scroll.
func DefaultViewport() Viewport {
	return Viewport{Zoom: 1}
}

// SetZoom clamps z into [MinZoom, MaxZoom] and applies it.
func (v *Viewport) SetZoom(z float64) {
	v.Zoom = Clamp(z, MinZoom, MaxZoom)
}

// SetScrollOffset applies a new horizontal scroll offset in pixels.
func (v *Viewport) SetScrollOffset(px float64) {
	v.ScrollOffset = px
}

// TimeToPosition maps a timestamp to a percentage offset along the
// zoomed timeline strip. A zero or negative duration yields 0 rather
// than NaN.
func TimeToPosition(t, duration, zoom float64) float64 {
	if duration <= 0 {
		return 0
	}
	return (t / duration) * 100 * zoom
}

// PositionToTime maps a pointer position back to a timestamp. clientX
// is the pointer's viewport x coordinate, rectLeft/rectWidth describe
// the timeline container, scrollOffset is the container's horizontal
// scroll. The result is clamped to [0, duration] so pointer positions
// outside the container still yield a valid time. Degenerate geometry
// (zero duration, width or zoom) yields 0.
func PositionToTime(clientX, rectLeft, rectWidth, scrollOffset, zoom, duration float64) float64 {
	if duration <= 0 || rectWidth <= 0 || zoom <= 0 {
		return 0
	}
	t := ((clientX - rectLeft + scrollOffset) / (rectWidth * zoom)) * duration
	return Clamp(t, 0, duration)
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
