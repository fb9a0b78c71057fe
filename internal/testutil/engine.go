package testutil

import (
	"github.com/npratt/causalview/internal/graph"
	"github.com/npratt/causalview/internal/layout"
)

// FakeEngine is a deterministic layout.Engine that records how it was
// driven. Step moves nothing; it decays alpha linearly by StepDecay and
// invokes the step callback.
type FakeEngine struct {
	Forces      layout.Forces
	Nodes       []*graph.Node
	Links       []*graph.Link
	AlphaValue  float64
	AlphaTarget float64
	StepDecay   float64
	Callback    func()

	SetNodesCalls int
	SetLinksCalls int
	Restarts      []float64
	StepCount     int
	Calls         []string // method names in call order
}

// NewFakeEngine creates a FakeEngine that settles after ten steps from
// alpha 1.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{StepDecay: 0.1}
}

// Configure implements layout.Engine.
func (f *FakeEngine) Configure(forces layout.Forces) {
	f.Forces = forces
	f.Calls = append(f.Calls, "Configure")
}

// SetNodes implements layout.Engine.
func (f *FakeEngine) SetNodes(nodes []*graph.Node) {
	f.Nodes = nodes
	f.Links = nil
	f.SetNodesCalls++
	f.Calls = append(f.Calls, "SetNodes")
}

// SetLinks implements layout.Engine, enforcing the same endpoint rule as
// the real simulation.
func (f *FakeEngine) SetLinks(links []*graph.Link) error {
	f.Calls = append(f.Calls, "SetLinks")
	ids := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		ids[n.ID] = true
	}
	for _, l := range links {
		if !ids[l.SourceID] || !ids[l.TargetID] {
			return layout.ErrDanglingLink
		}
	}
	f.Links = links
	f.SetLinksCalls++
	return nil
}

// Restart implements layout.Engine.
func (f *FakeEngine) Restart(alpha float64) {
	f.AlphaValue = alpha
	f.Restarts = append(f.Restarts, alpha)
	f.Calls = append(f.Calls, "Restart")
}

// SetAlphaTarget implements layout.Engine.
func (f *FakeEngine) SetAlphaTarget(target float64) {
	f.AlphaTarget = target
	f.Calls = append(f.Calls, "SetAlphaTarget")
}

// OnStep implements layout.Engine.
func (f *FakeEngine) OnStep(fn func()) {
	f.Callback = fn
}

// Step implements layout.Engine.
func (f *FakeEngine) Step() bool {
	f.StepCount++
	if f.AlphaValue > f.AlphaTarget {
		f.AlphaValue -= f.StepDecay
		if f.AlphaValue < f.AlphaTarget {
			f.AlphaValue = f.AlphaTarget
		}
	}
	if f.Callback != nil {
		f.Callback()
	}
	return f.Running()
}

// Alpha implements layout.Engine.
func (f *FakeEngine) Alpha() float64 {
	return f.AlphaValue
}

// Running implements layout.Engine.
func (f *FakeEngine) Running() bool {
	return f.AlphaValue > 0.001 || f.AlphaTarget > 0.001
}

// Reset clears the recorded calls.
func (f *FakeEngine) Reset() {
	f.SetNodesCalls = 0
	f.SetLinksCalls = 0
	f.Restarts = nil
	f.StepCount = 0
	f.Calls = nil
}
