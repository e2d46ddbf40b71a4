package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
)

func TestComposeCentersForeground(t *testing.T) {
	bg := strings.Join([]string{"..........", "..........", ".........."}, "\n")
	got := Compose(bg, 10, 3, "ab\ncd", Center)
	want := strings.Join([]string{"....ab....", "....cd....", ".........."}, "\n")
	if got != want {
		t.Fatalf("Compose() =\n%s\nwant\n%s", got, want)
	}
}

func TestComposePadsShortBackground(t *testing.T) {
	got := Compose("xy", 4, 2, "z", Placement{Horizontal: lipgloss.Right, Vertical: lipgloss.Bottom})
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0] != "xy  " || lines[1] != "   z" {
		t.Fatalf("Compose() = %q", lines)
	}
}

func TestComposeEmptyForeground(t *testing.T) {
	got := Compose("hello", 3, 1, "", Center)
	if got != "hel" {
		t.Fatalf("Compose() = %q, want %q", got, "hel")
	}
}

func TestOffsetsClamp(t *testing.T) {
	x, y := Offsets(5, 5, 10, 10, Center)
	if x != 0 || y != 0 {
		t.Fatalf("Offsets() = %d,%d, want 0,0", x, y)
	}
	x, y = Offsets(20, 10, 4, 2, Placement{MarginX: 2, MarginY: 1})
	if x != 2 || y != 1 {
		t.Fatalf("Offsets() = %d,%d, want 2,1", x, y)
	}
}
