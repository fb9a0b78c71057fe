package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/causalview/internal/controller"
	"github.com/npratt/causalview/internal/render"
)

// World units per terminal cell. A cell is roughly twice as tall as wide.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// noStyle marks a cell drawn without a style.
const noStyle = -1

// charGrid is a 2D character grid with a style index per cell.
type charGrid struct {
	width  int
	height int
	cells  [][]rune
	styled [][]int
	styles []lipgloss.Style
}

// newGrid creates a new character grid filled with spaces.
func newGrid(width, height int) *charGrid {
	cells := make([][]rune, height)
	styled := make([][]int, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]rune, width)
		styled[y] = make([]int, width)
		for x := 0; x < width; x++ {
			cells[y][x] = ' '
			styled[y][x] = noStyle
		}
	}
	return &charGrid{
		width:  width,
		height: height,
		cells:  cells,
		styled: styled,
	}
}

// addStyle registers a style and returns its index.
func (g *charGrid) addStyle(s lipgloss.Style) int {
	g.styles = append(g.styles, s)
	return len(g.styles) - 1
}

// writeRune writes a single rune at the given position.
func (g *charGrid) writeRune(x, y int, r rune, style int) {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		g.cells[y][x] = r
		g.styled[y][x] = style
	}
}

// writeString writes a string starting at the given position.
func (g *charGrid) writeString(x, y int, s string, style int) {
	i := 0
	for _, r := range s {
		g.writeRune(x+i, y, r, style)
		i++
	}
}

// String renders the grid, styling runs of cells that share a style.
func (g *charGrid) String() string {
	lines := make([]string, 0, g.height)
	for y, row := range g.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && g.styled[y][x] == g.styled[y][start] {
				continue
			}
			run := string(row[start:x])
			if idx := g.styled[y][start]; idx != noStyle {
				run = g.styles[idx].Render(run)
			}
			b.WriteString(run)
			start = x
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// project maps a world point to a cell through the view transform.
func project(t controller.Transform, x, y float64) (int, int) {
	sx, sy := t.Apply(x, y)
	return int(math.Floor(sx / cellWidth)), int(math.Floor(sy / cellHeight))
}

// cellCenter returns the screen position of a cell's center.
func cellCenter(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * cellWidth, (float64(cy) + 0.5) * cellHeight
}

// lineRune picks the character that best follows a segment's slope.
func lineRune(dx, dy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	}
	slope := math.Abs(float64(dy) / float64(dx))
	switch {
	case slope < 0.4:
		return '─'
	case slope > 2.5:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// drawLine draws a Bresenham line between two cells, skipping the endpoints
// so node glyphs stay visible.
func (g *charGrid) drawLine(x0, y0, x1, y1 int, r rune, style int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	if max(dx, -dy) > 8*(g.width+g.height) {
		return
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if (x != x0 || y != y0) && (x != x1 || y != y1) {
			g.writeRune(x, y, r, style)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// nodeRune picks a glyph by drawn radius.
func nodeRune(radius float64) rune {
	switch {
	case radius >= 15:
		return '◉'
	case radius >= 10:
		return '●'
	default:
		return '•'
	}
}

// renderScene paints links, then nodes, then labels onto a grid.
func renderScene(scene *render.Scene, view controller.Transform, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	g := newGrid(width, height)
	cs := newCanvasStyles(scene.Palette())
	link := g.addStyle(cs.Link)
	linkStrong := g.addStyle(cs.LinkStrong)
	linkFaded := g.addStyle(cs.LinkFaded)
	label := g.addStyle(cs.Label)
	labelBold := g.addStyle(cs.LabelBold)
	faded := g.addStyle(cs.Faded)
	groups := make([]int, len(cs.Groups))
	for i, s := range cs.Groups {
		groups[i] = g.addStyle(s)
	}

	for _, el := range scene.Links() {
		x0, y0 := project(view, el.X1, el.Y1)
		x1, y1 := project(view, el.X2, el.Y2)
		style := link
		switch {
		case el.Opacity < render.BaseLinkOpacity:
			style = linkFaded
		case el.Opacity >= 1:
			style = linkStrong
		}
		g.drawLine(x0, y0, x1, y1, lineRune(x1-x0, y1-y0), style)
	}

	nodes := scene.Nodes()
	for _, el := range nodes {
		x, y := project(view, el.X, el.Y)
		style := faded
		if el.Opacity > 0.3 && len(groups) > 0 {
			group := el.Node.GroupOrZero()
			if group < 0 {
				group = -group
			}
			style = groups[group%len(groups)]
		}
		g.writeRune(x, y, nodeRune(el.Radius), style)
	}

	for _, el := range nodes {
		if el.LabelSize < render.BaseLabelSize {
			continue
		}
		x, y := project(view, el.X, el.Y)
		style := label
		switch {
		case el.Opacity <= 0.3:
			style = faded
		case el.LabelBold:
			style = labelBold
		}
		g.writeString(x+2, y, el.ID, style)
	}

	return g.String()
}
