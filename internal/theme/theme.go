// Package theme manages the light/dark color scheme and its persisted
// preference.
package theme

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme is a color scheme name.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse converts a stored or configured name into a Theme.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// category10 is the d3 categorical scheme used for node groups.
var category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Palette is the set of colors a theme draws with. All values are hex
// strings accepted by lipgloss.Color.
type Palette struct {
	Theme      Theme
	Background string
	Foreground string
	Link       string
	Muted      string
	Highlight  string
	Groups     []string
}

// GroupColor returns the color for a node group, cycling through the
// scheme for groups past its end.
func (p Palette) GroupColor(group int) string {
	if len(p.Groups) == 0 {
		return p.Foreground
	}
	if group < 0 {
		group = -group
	}
	return p.Groups[group%len(p.Groups)]
}

// PaletteFor builds the palette for t. Group colors are brightened on a dark
// background and darkened on a light one.
func PaletteFor(t Theme) Palette {
	if t == Dark {
		return Palette{
			Theme:      Dark,
			Background: "#1e1e1e",
			Foreground: "#e0e0e0",
			Link:       "#888888",
			Muted:      "#555555",
			Highlight:  "#ffd866",
			Groups:     shade(colorful.Color{R: 1, G: 1, B: 1}, 0.25),
		}
	}
	return Palette{
		Theme:      Light,
		Background: "#ffffff",
		Foreground: "#222222",
		Link:       "#999999",
		Muted:      "#cccccc",
		Highlight:  "#d4a017",
		Groups:     shade(colorful.Color{}, 0.15),
	}
}

func shade(toward colorful.Color, amount float64) []string {
	out := make([]string, len(category10))
	for i, hex := range category10 {
		c, err := colorful.Hex(hex)
		if err != nil {
			out[i] = hex
			continue
		}
		out[i] = c.BlendLab(toward, amount).Clamped().Hex()
	}
	return out
}
