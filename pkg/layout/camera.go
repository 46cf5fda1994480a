package layout

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Pose is a camera position: the world point at the viewport center and
// the zoom factor (world units to screen units).
type Pose struct {
	X    float64
	Y    float64
	Zoom float64
}

// FitAll returns the pose that frames every given position in a viewport
// of w×h screen units with the given padding on each side. An empty
// position set yields the identity pose over the origin.
func FitAll(positions map[string]r2.Vec, w, h, padding float64) Pose {
	if len(positions) == 0 {
		return Pose{Zoom: 1}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range positions {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	pose := Pose{
		X: (minX + maxX) / 2,
		Y: (minY + maxY) / 2,
	}

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 && spanY <= 0 {
		pose.Zoom = 1
		return pose
	}

	zoomX := math.Inf(1)
	if spanX > 0 {
		zoomX = (w - 2*padding) / spanX
	}
	zoomY := math.Inf(1)
	if spanY > 0 {
		zoomY = (h - 2*padding) / spanY
	}
	pose.Zoom = clampZoom(math.Min(zoomX, zoomY))
	return pose
}

func clampZoom(z float64) float64 {
	return math.Max(0.05, math.Min(z, 8))
}

// Tween is a fixed-duration camera transition. Transitions are
// fire-and-forget: starting a new one simply replaces the old, last call
// wins.
type Tween struct {
	From     Pose
	To       Pose
	Start    time.Time
	Duration time.Duration
}

// NewTween starts a transition from one pose to another.
func NewTween(from, to Pose, start time.Time, d time.Duration) Tween {
	return Tween{From: from, To: to, Start: start, Duration: d}
}

// At returns the interpolated pose at the given instant and whether the
// transition has completed.
func (t Tween) At(now time.Time) (Pose, bool) {
	if t.Duration <= 0 {
		return t.To, true
	}
	elapsed := now.Sub(t.Start)
	if elapsed >= t.Duration {
		return t.To, true
	}
	if elapsed <= 0 {
		return t.From, false
	}

	u := float64(elapsed) / float64(t.Duration)
	u = u * u * (3 - 2*u) // smoothstep
	return Pose{
		X:    t.From.X + (t.To.X-t.From.X)*u,
		Y:    t.From.Y + (t.To.Y-t.From.Y)*u,
		Zoom: t.From.Zoom + (t.To.Zoom-t.From.Zoom)*u,
	}, false
}
