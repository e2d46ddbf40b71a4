// Package overlay draws one view on top of another.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Placement controls overlay alignment.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
}

// Center places the overlay in the middle of the background.
var Center = Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center}

// Compose draws foreground over background, a width x height surface.
// Background cells outside the foreground's box stay visible.
func Compose(background string, width, height int, foreground string, p Placement) string {
	bg := normalize(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bg, "\n")
	}

	fg := strings.Split(foreground, "\n")
	fw := 0
	for _, line := range fg {
		fw = max(fw, ansi.StringWidth(line))
	}
	fw = min(fw, width)
	fh := min(len(fg), height)

	x, y := Offsets(width, height, fw, fh, p)
	for row := 0; row < fh; row++ {
		line := bg[y+row]
		left := ansi.Truncate(line, x, "")
		right := ansi.TruncateLeft(line, x+fw, "")
		bg[y+row] = left + pad(ansi.Truncate(fg[row], fw, ""), fw) + right
	}
	return strings.Join(bg, "\n")
}

// Offsets returns the top-left cell of a w x h box placed on a width x height
// surface.
func Offsets(width, height, w, h int, p Placement) (int, int) {
	x := p.MarginX
	switch p.Horizontal {
	case lipgloss.Right:
		x = width - w - p.MarginX
	case lipgloss.Center:
		x = (width - w) / 2
	}
	y := p.MarginY
	switch p.Vertical {
	case lipgloss.Bottom:
		y = height - h - p.MarginY
	case lipgloss.Center:
		y = (height - h) / 2
	}
	return clamp(x, 0, width-w), clamp(y, 0, height-h)
}

func normalize(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = pad(ansi.Truncate(lines[i], width, ""), width)
	}
	return lines
}

func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
