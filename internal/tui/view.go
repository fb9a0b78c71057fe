package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/causalview/internal/controller"
)

// sliderWidth is the number of cells in the threshold slider.
const sliderWidth = 20

// View implements tea.Model. It renders the header, the canvas and the footer.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.width < minWidth || m.height < minHeight {
		return styles.Error.Render(fmt.Sprintf("Terminal too small (%dx%d, need %dx%d)", m.width, m.height, minWidth, minHeight))
	}

	w, h := m.canvasSize()
	body := renderScene(m.scene, m.display, w, h)
	if m.info.IsOpen() {
		body = m.info.View(w, h)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatus(),
		m.renderFooter(),
	)
}

// renderHeader shows the threshold slider, the focus state and counts.
func (m model) renderHeader() string {
	s := m.ctrl.Session()
	parts := []string{
		styles.Title.Render("causalview"),
		styles.Label.Render("threshold ") + m.renderSlider(s.Threshold) + " " + styles.Value.Render(fmt.Sprintf("%.2f", s.Threshold)),
	}
	if s.Mode() == controller.ModeFocused {
		parts = append(parts, styles.Focused.Render("focus: "+s.FocusNodeID))
	} else {
		parts = append(parts, styles.Label.Render(string(s.Mode())))
	}
	parts = append(parts,
		styles.Label.Render(fmt.Sprintf("nodes %d/%d links %d/%d",
			m.scene.NodeCount(), m.store.NodeCount(), m.scene.LinkCount(), m.store.LinkCount())),
		styles.Label.Render(string(s.Theme)),
	)
	return truncateLine(strings.Join(parts, "  "), m.width)
}

// renderSlider draws the threshold position between the configured bounds.
func (m model) renderSlider(v float64) string {
	lo, hi := m.cfg.Graph.MinThreshold, m.cfg.Graph.MaxThreshold
	filled := 0
	if hi > lo {
		filled = int((v - lo) / (hi - lo) * sliderWidth)
	}
	filled = max(0, min(sliderWidth, filled))
	return styles.SliderOn.Render(strings.Repeat("━", filled)) +
		styles.SliderOff.Render(strings.Repeat("─", sliderWidth-filled))
}

// renderStatus shows the prompt while typing, else the latest notice or
// the last action.
func (m model) renderStatus() string {
	switch {
	case m.mode != inputNone:
		return m.input.View()
	case m.notice != "":
		return styles.Notice.Render(truncateLine(m.notice, m.width))
	case m.ctrl.Session().SearchTerm != "":
		return styles.Label.Render(truncateLine("search: "+m.ctrl.Session().SearchTerm, m.width))
	default:
		return styles.Footer.Render(truncateLine(m.last, m.width))
	}
}

func (m model) renderFooter() string {
	hint := "[/] search  [ ] threshold  [c] clear  [r] reset  [T] theme  [?] help  [q] quit"
	if m.mode != inputNone {
		hint = "[Enter] apply  [Esc] cancel"
		if m.mode == inputSearch {
			hint = "[Tab] complete  " + hint
		}
	}
	if m.layoutRunning {
		hint += "  (layout running)"
	}
	return styles.Footer.Render(truncateLine(hint, m.width))
}

// truncateLine cuts s to at most width cells. Styled input is safe.
func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
