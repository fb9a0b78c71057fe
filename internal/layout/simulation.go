package layout

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/npratt/causalview/internal/graph"
)

const (
	// initialRadius and initialAngle place new nodes on a phyllotaxis spiral
	// around the center so no two start at the same point.
	initialRadius = 10
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Simulation is a velocity-Verlet style force simulation modeled on
// d3-force: link springs, many-body charge, centering and collision.
type Simulation struct {
	forces Forces

	nodes []*graph.Node
	inSet map[string]bool
	links []*graph.Link
	bias  []float64 // per-link share of the correction applied to the target

	placed map[string]bool
	alpha  float64
	target float64
	onStep func()
	rng    *rand.Rand
	steps  int
}

// NewSimulation creates a stopped simulation with the given forces. seed
// makes the tie-breaking jiggle reproducible.
func NewSimulation(f Forces, seed int64) *Simulation {
	return &Simulation{
		forces: f,
		inSet:  make(map[string]bool),
		placed: make(map[string]bool),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Configure implements Engine.
func (s *Simulation) Configure(f Forces) {
	s.forces = f
}

// Forces returns the current force parameters.
func (s *Simulation) Forces() Forces {
	return s.forces
}

// SetNodes implements Engine. Nodes seen before keep their positions; new
// nodes are placed on a spiral around the center. Replacing the node set
// drops the current links, which must be set again.
func (s *Simulation) SetNodes(nodes []*graph.Node) {
	s.nodes = nodes
	s.inSet = make(map[string]bool, len(nodes))
	s.links = nil
	s.bias = nil

	for i, n := range nodes {
		s.inSet[n.ID] = true
		if s.placed[n.ID] {
			continue
		}
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		n.X = s.forces.CenterX + r*math.Cos(a)
		n.Y = s.forces.CenterY + r*math.Sin(a)
		n.VX, n.VY = 0, 0
		s.placed[n.ID] = true
	}
}

// SetLinks implements Engine.
func (s *Simulation) SetLinks(links []*graph.Link) error {
	for _, l := range links {
		if !s.inSet[l.SourceID] || !s.inSet[l.TargetID] {
			return fmt.Errorf("set links %s: %w", l.Key(), ErrDanglingLink)
		}
	}

	count := make(map[string]int, len(s.nodes))
	for _, l := range links {
		count[l.SourceID]++
		count[l.TargetID]++
	}
	bias := make([]float64, len(links))
	for i, l := range links {
		bias[i] = float64(count[l.SourceID]) / float64(count[l.SourceID]+count[l.TargetID])
	}

	s.links = links
	s.bias = bias
	return nil
}

// Restart implements Engine.
func (s *Simulation) Restart(alpha float64) {
	s.alpha = alpha
}

// SetAlphaTarget implements Engine.
func (s *Simulation) SetAlphaTarget(target float64) {
	s.target = target
}

// OnStep implements Engine.
func (s *Simulation) OnStep(fn func()) {
	s.onStep = fn
}

// Alpha implements Engine.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Running implements Engine.
func (s *Simulation) Running() bool {
	return s.alpha >= s.forces.AlphaMin || s.target >= s.forces.AlphaMin
}

// Steps returns the number of steps taken since creation.
func (s *Simulation) Steps() int {
	return s.steps
}

// Step implements Engine.
func (s *Simulation) Step() bool {
	s.alpha += (s.target - s.alpha) * s.forces.AlphaDecay
	s.steps++

	s.applyLinks()
	s.applyCharge()
	s.applyCollide()

	decay := 1 - s.forces.VelocityDecay
	for _, n := range s.nodes {
		if n.Pin != nil {
			n.X, n.Y = n.Pin.X, n.Pin.Y
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= decay
		n.VY *= decay
		n.X += n.VX
		n.Y += n.VY
	}

	s.applyCenter()

	if s.onStep != nil {
		s.onStep()
	}
	return s.Running()
}

// Settle steps until the simulation stops or maxSteps is reached and
// returns the number of steps taken.
func (s *Simulation) Settle(maxSteps int) int {
	n := 0
	for n < maxSteps && s.Running() {
		s.Step()
		n++
	}
	return n
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}

func pos(n *graph.Node) r2.Vec {
	return r2.Vec{X: n.X, Y: n.Y}
}

func vel(n *graph.Node) r2.Vec {
	return r2.Vec{X: n.VX, Y: n.VY}
}

func setVel(n *graph.Node, v r2.Vec) {
	n.VX, n.VY = v.X, v.Y
}

// applyLinks pulls link endpoints towards the configured distance.
func (s *Simulation) applyLinks() {
	for i, l := range s.links {
		src, dst := l.Source, l.Target
		if src == dst {
			continue
		}
		d := r2.Sub(r2.Add(pos(dst), vel(dst)), r2.Add(pos(src), vel(src)))
		if d.X == 0 {
			d.X = s.jiggle()
		}
		if d.Y == 0 {
			d.Y = s.jiggle()
		}
		length := r2.Norm(d)
		k := (length - s.forces.LinkDistance) / length * s.alpha * s.forces.LinkStrength
		d = r2.Scale(k, d)

		b := s.bias[i]
		setVel(dst, r2.Sub(vel(dst), r2.Scale(b, d)))
		setVel(src, r2.Add(vel(src), r2.Scale(1-b, d)))
	}
}

// applyCharge applies pairwise many-body attraction or repulsion.
func (s *Simulation) applyCharge() {
	if s.forces.Charge == 0 {
		return
	}
	for i, a := range s.nodes {
		for j, b := range s.nodes {
			if i == j {
				continue
			}
			d := r2.Sub(pos(b), pos(a))
			if d.X == 0 {
				d.X = s.jiggle()
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
			}
			l2 := r2.Norm2(d)
			if l2 < 1 {
				l2 = math.Sqrt(l2)
			}
			w := s.forces.Charge * s.alpha / l2
			setVel(a, r2.Add(vel(a), r2.Scale(w, d)))
		}
	}
}

// applyCollide separates nodes closer than twice the collide radius.
func (s *Simulation) applyCollide() {
	r := s.forces.CollideRadius
	if r <= 0 {
		return
	}
	minDist := 2 * r
	for i := 0; i < len(s.nodes); i++ {
		a := s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			b := s.nodes[j]
			d := r2.Sub(r2.Add(pos(a), vel(a)), r2.Add(pos(b), vel(b)))
			l2 := r2.Norm2(d)
			if l2 >= minDist*minDist {
				continue
			}
			if d.X == 0 {
				d.X = s.jiggle()
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
			}
			l := r2.Norm(d)
			d = r2.Scale((minDist-l)/l*0.5, d)
			setVel(a, r2.Add(vel(a), d))
			setVel(b, r2.Sub(vel(b), d))
		}
	}
}

// applyCenter translates the free nodes so their mean sits on the center.
func (s *Simulation) applyCenter() {
	var sum r2.Vec
	free := 0
	for _, n := range s.nodes {
		if n.Pin != nil {
			continue
		}
		sum = r2.Add(sum, pos(n))
		free++
	}
	if free == 0 {
		return
	}
	shift := r2.Sub(r2.Scale(1/float64(free), sum), r2.Vec{X: s.forces.CenterX, Y: s.forces.CenterY})
	for _, n := range s.nodes {
		if n.Pin != nil {
			continue
		}
		n.X -= shift.X
		n.Y -= shift.Y
	}
}
