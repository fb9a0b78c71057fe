package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/npratt/causalview/internal/config"
	"github.com/npratt/causalview/internal/graph"
	"github.com/npratt/causalview/internal/layout"
)

// LayoutResult is the output of a headless layout run.
type LayoutResult struct {
	Threshold   float64        `json:"threshold"`
	Focus       string         `json:"focus,omitempty"`
	Steps       int            `json:"steps"`
	Alpha       float64        `json:"alpha"`
	Settled     bool           `json:"settled"`
	Interrupted bool           `json:"interrupted,omitempty"`
	Nodes       []NodePosition `json:"nodes"`
}

// NodePosition is one node's settled position in world coordinates.
type NodePosition struct {
	ID    string  `json:"id"`
	Group int     `json:"group"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// runLayout simulates the filtered subgraph from the initial alpha until it
// settles, maxSteps is reached, or ctx is canceled. A canceled run still returns the positions
// reached so far.
func runLayout(ctx context.Context, cfg *config.Config, store *graph.Store, threshold float64, focus string, maxSteps int) (*LayoutResult, error) {
	sub, err := graph.Filter(store, threshold, focus)
	if err != nil {
		return nil, err
	}

	sim := layout.NewSimulation(cfg.Layout.Forces(), cfg.Layout.Seed)
	sim.SetNodes(sub.Nodes)
	if err := sim.SetLinks(sub.Links); err != nil {
		return nil, err
	}
	sim.Restart(cfg.Layout.InitialAlpha)

	res := &LayoutResult{Threshold: threshold, Focus: focus}
	for sim.Steps() < maxSteps && sim.Running() {
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}
		sim.Step()
	}
	res.Steps = sim.Steps()
	res.Alpha = sim.Alpha()
	res.Settled = !sim.Running()

	res.Nodes = make([]NodePosition, 0, len(sub.Nodes))
	for _, n := range sub.Nodes {
		res.Nodes = append(res.Nodes, NodePosition{ID: n.ID, Group: n.GroupOrZero(), X: n.X, Y: n.Y})
	}
	return res, nil
}

// writeLayoutJSON writes the result as indented JSON.
func writeLayoutJSON(w io.Writer, res *LayoutResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
