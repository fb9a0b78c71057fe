package render

import (
	"math"
	"strings"
)

type highlightMode int

const (
	modeNone highlightMode = iota
	modeSearch
	modeCluster
)

type highlight struct {
	mode    highlightMode
	term    string
	focus   string
	cluster map[string]struct{}
}

// ApplySearch emphasizes nodes whose id contains term, ignoring case, and
// fades the rest. An empty term restores the baseline.
func (s *Scene) ApplySearch(term string) {
	term = strings.ToLower(term)
	if term == "" {
		s.ResetHighlight()
		return
	}
	s.hl = highlight{mode: modeSearch, term: term}
	s.reapply()
}

// ApplyCluster emphasizes focus and its cluster, and fades everything
// outside it.
func (s *Scene) ApplyCluster(focus string, cluster map[string]struct{}) {
	s.hl = highlight{mode: modeCluster, focus: focus, cluster: cluster}
	s.reapply()
}

// ResetHighlight restores baseline attributes on every element.
func (s *Scene) ResetHighlight() {
	s.hl = highlight{}
	s.reapply()
}

// Highlighted reports the active highlight: "search", "cluster" or "".
func (s *Scene) Highlighted() string {
	switch s.hl.mode {
	case modeSearch:
		return "search"
	case modeCluster:
		return "cluster"
	}
	return ""
}

func (s *Scene) reapply() {
	s.nodes.Scan(func(_ string, el *NodeElement) bool {
		s.styleNode(el)
		return true
	})
	s.links.Scan(func(_ string, el *LinkElement) bool {
		s.styleLink(el)
		return true
	})
}

func (s *Scene) baselineNode(el *NodeElement) {
	el.Radius = BaseRadius
	el.Opacity = 1
	el.LabelSize = BaseLabelSize
	el.LabelBold = false
	el.Color = s.palette.GroupColor(el.Node.GroupOrZero())
}

func (s *Scene) baselineLink(el *LinkElement) {
	el.Width = math.Sqrt(el.Link.Value)
	el.Opacity = BaseLinkOpacity
	el.Color = s.palette.Link
}

func (s *Scene) styleNode(el *NodeElement) {
	s.baselineNode(el)
	switch s.hl.mode {
	case modeSearch:
		if strings.Contains(strings.ToLower(el.ID), s.hl.term) {
			el.Radius = 15
			el.LabelSize = 12
			el.LabelBold = true
		} else {
			el.Opacity = 0.3
		}
	case modeCluster:
		_, in := s.hl.cluster[el.ID]
		switch {
		case el.ID == s.hl.focus:
			el.Radius = 15
			el.LabelSize = 14
			el.LabelBold = true
		case in:
			el.LabelSize = 10
		default:
			el.Radius = 5
			el.Opacity = 0.1
		}
	}
}

func (s *Scene) styleLink(el *LinkElement) {
	s.baselineLink(el)
	if s.hl.mode != modeCluster {
		return
	}
	_, src := s.hl.cluster[el.Key.Source]
	_, dst := s.hl.cluster[el.Key.Target]
	if src && dst {
		el.Opacity = 1
		el.Width = 2 * math.Sqrt(el.Link.Value)
	} else {
		el.Opacity = 0.1
	}
}
