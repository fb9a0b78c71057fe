package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// keyHelp lists the key bindings shown in the info panel.
var keyHelp = [][2]string{
	{"[ / ]", "threshold down / up one step"},
	{"{ / }", "threshold down / up ten steps"},
	{"t", "type a threshold"},
	{"/", "search node ids (tab completes)"},
	{"enter", "focus the searched node"},
	{"c", "clear focus"},
	{"r", "reset threshold, search, focus and view"},
	{"T", "toggle light / dark theme"},
	{"arrows, hjkl", "pan"},
	{"+ / -, wheel", "zoom"},
	{"drag", "move a node"},
	{"?", "toggle this panel"},
	{"q", "quit"},
}

// InfoPanel is the overlay explaining the view and its controls.
type InfoPanel struct {
	open      bool
	scrollPos int
	stats     []string
}

// NewInfoPanel creates an InfoPanel, open or closed.
func NewInfoPanel(open bool) *InfoPanel {
	return &InfoPanel{open: open}
}

// Toggle opens or closes the panel.
func (p *InfoPanel) Toggle() {
	p.open = !p.open
	p.scrollPos = 0
}

// Close closes the panel.
func (p *InfoPanel) Close() {
	p.open = false
	p.scrollPos = 0
}

// IsOpen returns true if the panel is open.
func (p *InfoPanel) IsOpen() bool {
	return p.open
}

// SetStats replaces the graph summary lines.
func (p *InfoPanel) SetStats(lines []string) {
	p.stats = lines
}

// Update handles keys while the panel is open. It reports whether the key
// was consumed.
func (p *InfoPanel) Update(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "esc", "enter", "?":
		p.Close()
		return true
	case "j", "down":
		p.scrollPos++
		return true
	case "k", "up":
		if p.scrollPos > 0 {
			p.scrollPos--
		}
		return true
	}
	return false
}

// View renders the panel sized to its parent, or "" when closed.
func (p *InfoPanel) View(parentWidth, parentHeight int) string {
	if !p.open {
		return ""
	}

	panelWidth := parentWidth * 70 / 100
	panelHeight := parentHeight * 80 / 100
	if panelWidth < 40 {
		panelWidth = 40
	}
	if panelHeight < 10 {
		panelHeight = 10
	}

	var content strings.Builder
	content.WriteString(styles.PanelTitle.Render("causalview"))
	content.WriteString("\n")
	content.WriteString("Nodes are variables; links are causal strengths.\n")
	content.WriteString("Only links stronger than the threshold are shown. Focusing a\n")
	content.WriteString("node keeps its links and highlights everything connected to it.\n\n")

	for _, s := range p.stats {
		content.WriteString(styles.Label.Render(s))
		content.WriteString("\n")
	}
	if len(p.stats) > 0 {
		content.WriteString("\n")
	}

	for _, kv := range keyHelp {
		content.WriteString(styles.PanelKey.Render(fmt.Sprintf("%-14s", kv[0])))
		content.WriteString(kv[1])
		content.WriteString("\n")
	}

	lines := strings.Split(strings.TrimRight(content.String(), "\n"), "\n")

	// Reserve lines for border, padding and footer
	visibleHeight := panelHeight - 6
	if visibleHeight < 3 {
		visibleHeight = 3
	}

	maxScroll := len(lines) - visibleHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scrollPos > maxScroll {
		p.scrollPos = maxScroll
	}

	end := p.scrollPos + visibleHeight
	if end > len(lines) {
		end = len(lines)
	}
	visible := strings.Join(lines[p.scrollPos:end], "\n")

	scrollInfo := ""
	if maxScroll > 0 {
		scrollInfo = fmt.Sprintf(" | Line %d/%d", p.scrollPos+1, len(lines))
	}
	footer := styles.PanelHint.Render("[Enter/Esc/?] close | [j/k] scroll" + scrollInfo)

	box := styles.PanelBorder.
		Width(panelWidth).
		Render(visible + "\n\n" + footer)

	return lipgloss.Place(parentWidth, parentHeight, lipgloss.Center, lipgloss.Center, box)
}
