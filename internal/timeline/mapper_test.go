package timeline

import (
	"math"
	"testing"
)

func TestTimeToPosition(t *testing.T) {
	tests := []struct {
		name     string
		time     float64
		duration float64
		zoom     float64
		want     float64
	}{
		{name: "midpoint at 1x", time: 5, duration: 10, zoom: 1, want: 50},
		{name: "midpoint at 2x", time: 5, duration: 10, zoom: 2, want: 100},
		{name: "start", time: 0, duration: 10, zoom: 1, want: 0},
		{name: "end at half zoom", time: 10, duration: 10, zoom: 0.5, want: 50},
		{name: "zero duration yields zero", time: 3, duration: 0, zoom: 1, want: 0},
		{name: "negative duration yields zero", time: 3, duration: -1, zoom: 1, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TimeToPosition(tc.time, tc.duration, tc.zoom)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("TimeToPosition(%v, %v, %v) = %v; want %v", tc.time, tc.duration, tc.zoom, got, tc.want)
			}
		})
	}
}

func TestPositionToTime_Clamping(t *testing.T) {
	const (
		rectLeft  = 100.0
		rectWidth = 800.0
		duration  = 10.0
	)

	tests := []struct {
		name    string
		clientX float64
		scroll  float64
		zoom    float64
		want    float64
	}{
		{name: "left edge", clientX: 100, zoom: 1, want: 0},
		{name: "right edge", clientX: 900, zoom: 1, want: 10},
		{name: "middle", clientX: 500, zoom: 1, want: 5},
		{name: "pointer left of container clamps to zero", clientX: -50, zoom: 1, want: 0},
		{name: "pointer far right clamps to duration", clientX: 5000, zoom: 1, want: 10},
		{name: "scroll offset shifts window", clientX: 100, scroll: 400, zoom: 1, want: 5},
		{name: "zoomed in halves visible span", clientX: 900, zoom: 2, want: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PositionToTime(tc.clientX, rectLeft, rectWidth, tc.scroll, tc.zoom, duration)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("PositionToTime = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestPositionToTime_DegenerateGeometry(t *testing.T) {
	if got := PositionToTime(500, 0, 0, 0, 1, 10); got != 0 {
		t.Errorf("zero width: got %v; want 0", got)
	}
	if got := PositionToTime(500, 0, 800, 0, 1, 0); got != 0 {
		t.Errorf("zero duration: got %v; want 0", got)
	}
	if got := PositionToTime(500, 0, 800, 0, 0, 10); got != 0 {
		t.Errorf("zero zoom: got %v; want 0", got)
	}
}

// Round-tripping a time through the percentage projection and back must
// land within one pixel's worth of time for a fixed zoom and duration.
func TestRoundTrip(t *testing.T) {
	const (
		rectWidth = 640.0
		duration  = 37.5
	)

	for _, zoom := range []float64{0.5, 1, 1.7, 4} {
		for _, tm := range []float64{0, 0.25, 5, 18.31, 37.5} {
			pct := TimeToPosition(tm, duration, zoom)
			// Percentage of the zoomed strip to an absolute pixel x.
			clientX := (pct / 100) * rectWidth
			got := PositionToTime(clientX, 0, rectWidth, 0, zoom, duration)

			pixelTime := duration / (rectWidth * zoom)
			if math.Abs(got-tm) > pixelTime {
				t.Errorf("round trip zoom=%v t=%v: got %v (tolerance %v)", zoom, tm, got, pixelTime)
			}
		}
	}
}

func TestViewportZoomClamp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0.1, want: MinZoom},
		{in: 0.5, want: 0.5},
		{in: 2.5, want: 2.5},
		{in: 9, want: MaxZoom},
	}

	for _, tc := range tests {
		v := DefaultViewport()
		v.SetZoom(tc.in)
		if v.Zoom != tc.want {
			t.Errorf("SetZoom(%v): zoom = %v; want %v", tc.in, v.Zoom, tc.want)
		}
	}
}
