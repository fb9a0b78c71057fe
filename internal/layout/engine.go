// Package layout defines the force-directed layout engine used to position
// the visible subgraph, and a d3-force style implementation of it.
package layout

import (
	"errors"
	"math"

	"github.com/npratt/causalview/internal/graph"
)

// ErrDanglingLink is returned by SetLinks when a link has an endpoint that is
// not in the engine's current node set.
var ErrDanglingLink = errors.New("link endpoint not in node set")

// Forces configures the simulation.
type Forces struct {
	LinkDistance  float64 // Rest length of a link
	LinkStrength  float64 // Link spring strength (0..1)
	Charge        float64 // Many-body strength; negative repels
	CenterX       float64 // Centering force target
	CenterY       float64
	CollideRadius float64 // Minimum distance kept around each node
	VelocityDecay float64 // Fraction of velocity lost per step (0..1)
	AlphaMin      float64 // The simulation settles once alpha drops below this
	AlphaDecay    float64 // Per-step approach of alpha to its target
}

// DefaultForces returns the forces used by the viewer.
func DefaultForces() Forces {
	return Forces{
		LinkDistance:  200,
		LinkStrength:  0.5,
		Charge:        -800,
		CollideRadius: 50,
		VelocityDecay: 0.4,
		AlphaMin:      0.001,
		AlphaDecay:    DecayFor(0.001, 300),
	}
}

// DecayFor returns the alpha decay that takes alpha from 1 to alphaMin in
// the given number of steps.
func DecayFor(alphaMin float64, steps int) float64 {
	if steps <= 0 {
		return 1
	}
	return 1 - math.Pow(alphaMin, 1/float64(steps))
}

// Engine is an iterative layout integrator. It owns the positions and
// velocities of the nodes it is given, and advances them one step at a time.
// Engines are not safe for concurrent use; callers drive them from a single
// event loop.
type Engine interface {
	// Configure replaces the force parameters.
	Configure(f Forces)
	// SetNodes replaces the simulated node set.
	SetNodes(nodes []*graph.Node)
	// SetLinks replaces the simulated link set. Every endpoint must be in
	// the current node set.
	SetLinks(links []*graph.Link) error
	// Restart sets the energy (alpha) and marks the engine as running.
	Restart(alpha float64)
	// SetAlphaTarget sets the level alpha decays towards.
	SetAlphaTarget(target float64)
	// OnStep registers the callback invoked after every step.
	OnStep(fn func())
	// Step advances one iteration and reports whether the engine is still
	// running afterwards.
	Step() bool
	// Alpha returns the current energy.
	Alpha() float64
	// Running reports whether another step would move anything.
	Running() bool
}
