package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"

	"github.com/npratt/causalview/internal/controller"
	"github.com/npratt/causalview/internal/graph"
)

// Report is the headless summary of one filter pass.
type Report struct {
	File        string       `json:"file"`
	Threshold   float64      `json:"threshold"`
	Focus       string       `json:"focus,omitempty"`
	Mode        string       `json:"mode"`
	TotalNodes  int          `json:"total_nodes"`
	TotalLinks  int          `json:"total_links"`
	Nodes       []ReportNode `json:"nodes"`
	Links       []ReportLink `json:"links"`
	Cluster     []string     `json:"cluster,omitempty"`
	Diagnostics []string     `json:"diagnostics,omitempty"`
}

// ReportNode is a visible node.
type ReportNode struct {
	ID    string `json:"id"`
	Group int    `json:"group"`
}

// ReportLink is a visible link.
type ReportLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// buildReport filters the store and, with a focus, finds its cluster.
func buildReport(file string, store *graph.Store, threshold float64, focus string) (*Report, error) {
	sub, err := graph.Filter(store, threshold, focus)
	if err != nil {
		return nil, err
	}

	r := &Report{
		File:       file,
		Threshold:  threshold,
		Focus:      focus,
		Mode:       string(controller.ModeOverview),
		TotalNodes: store.NodeCount(),
		TotalLinks: store.LinkCount(),
		Nodes:      make([]ReportNode, 0, len(sub.Nodes)),
		Links:      make([]ReportLink, 0, len(sub.Links)),
	}
	for _, n := range sub.Nodes {
		r.Nodes = append(r.Nodes, ReportNode{ID: n.ID, Group: n.GroupOrZero()})
	}
	for _, l := range sub.Links {
		r.Links = append(r.Links, ReportLink{Source: l.SourceID, Target: l.TargetID, Value: l.Value})
	}
	if focus != "" {
		r.Mode = string(controller.ModeFocused)
		for id := range graph.Cluster(store, focus) {
			r.Cluster = append(r.Cluster, id)
		}
		slices.Sort(r.Cluster)
	}
	for _, d := range store.Diagnostics() {
		r.Diagnostics = append(r.Diagnostics, d.String())
	}
	return r, nil
}

// writeReportJSON writes the report as indented JSON.
func writeReportJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// writeReportText writes the human-readable report.
func writeReportText(w io.Writer, r *Report) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	warn := color.New(color.FgYellow)

	_, _ = bold.Fprintf(w, "%s\n", r.File)
	fmt.Fprintf(w, "threshold %.2f  mode %s", r.Threshold, r.Mode)
	if r.Focus != "" {
		fmt.Fprintf(w, "  focus ")
		_, _ = color.New(color.FgGreen, color.Bold).Fprint(w, r.Focus)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "visible %d/%d nodes, %d/%d links\n\n", len(r.Nodes), r.TotalNodes, len(r.Links), r.TotalLinks)

	_, _ = bold.Fprintln(w, "Links")
	if len(r.Links) == 0 {
		_, _ = dim.Fprintln(w, "  (none above threshold)")
	}
	for _, l := range r.Links {
		fmt.Fprintf(w, "  %s -> %s  ", l.Source, l.Target)
		_, _ = strengthColor(l.Value).Fprintf(w, "%.2f\n", l.Value)
	}

	if len(r.Cluster) > 0 {
		fmt.Fprintln(w)
		_, _ = bold.Fprintf(w, "Cluster of %s (%d nodes)\n", r.Focus, len(r.Cluster))
		for _, id := range r.Cluster {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}

	if len(r.Diagnostics) > 0 {
		fmt.Fprintln(w)
		_, _ = warn.Fprintf(w, "Dropped at load (%d)\n", len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			_, _ = warn.Fprintf(w, "  %s\n", d)
		}
	}
}

// strengthColor grades a link value.
func strengthColor(v float64) *color.Color {
	switch {
	case v >= 0.5:
		return color.New(color.FgGreen)
	case v >= 0.2:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Faint)
	}
}
