package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/causalview/internal/theme"
)

// styles contains the lipgloss styles for the viewer chrome.
var styles = struct {
	// Header styles
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	SliderOn  lipgloss.Style
	SliderOff lipgloss.Style
	Focused   lipgloss.Style

	// Footer styles
	Footer lipgloss.Style
	Notice lipgloss.Style
	Prompt lipgloss.Style

	// Info panel
	PanelBorder lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelKey    lipgloss.Style
	PanelHint   lipgloss.Style

	Error lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Value: lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")),

	SliderOn: lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")),

	SliderOff: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Focused: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("82")),

	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Notice: lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")),

	Prompt: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")),

	PanelBorder: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2),

	PanelTitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")),

	PanelKey: lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")),

	PanelHint: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true),

	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),
}

// canvasStyles are the graph styles for one palette.
type canvasStyles struct {
	Link       lipgloss.Style
	LinkStrong lipgloss.Style
	LinkFaded  lipgloss.Style
	Label      lipgloss.Style
	LabelBold  lipgloss.Style
	Faded      lipgloss.Style
	Groups     []lipgloss.Style
}

// newCanvasStyles builds the graph styles for a palette.
func newCanvasStyles(p theme.Palette) canvasStyles {
	cs := canvasStyles{
		Link: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Link)),
		LinkStrong: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Highlight)),
		LinkFaded: lipgloss.NewStyle().
			Faint(true).
			Foreground(lipgloss.Color(p.Muted)),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Foreground)),
		LabelBold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Foreground)),
		Faded: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),
	}
	for _, c := range p.Groups {
		cs.Groups = append(cs.Groups, lipgloss.NewStyle().Foreground(lipgloss.Color(c)))
	}
	return cs
}
