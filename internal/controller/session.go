package controller

import "github.com/npratt/causalview/internal/theme"

// Mode is the focus state of a session.
type Mode string

// Session modes.
const (
	ModeOverview Mode = "overview"
	ModeFocused  Mode = "focused"
)

// Transform is the view pan and zoom: screen = world*K + (X, Y).
type Transform struct {
	X float64
	Y float64
	K float64
}

// Identity is the untransformed view.
func Identity() Transform {
	return Transform{K: 1}
}

// Apply maps a world point to screen coordinates.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point to world coordinates.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.K, (y - t.Y) / t.K
}

// Lerp interpolates between t and to; f is clamped to [0, 1].
func (t Transform) Lerp(to Transform, f float64) Transform {
	if f <= 0 {
		return t
	}
	if f >= 1 {
		return to
	}
	return Transform{
		X: t.X + (to.X-t.X)*f,
		Y: t.Y + (to.Y-t.Y)*f,
		K: t.K + (to.K-t.K)*f,
	}
}

// Session is the complete interaction state. It is a value: reactions build
// a new Session and the controller swaps it in only when the reaction
// succeeds.
type Session struct {
	Threshold   float64
	FocusNodeID string
	SearchTerm  string
	Theme       theme.Theme
	View        Transform
}

// Mode reports whether a node is focused.
func (s Session) Mode() Mode {
	if s.FocusNodeID != "" {
		return ModeFocused
	}
	return ModeOverview
}
