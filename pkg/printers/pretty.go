// Package printers renders entries, legends and month calendars for the CLI.
package printers

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
)

// PrettyPrint writes human-oriented output.
type PrettyPrint struct {
	ShowID bool
	Out    io.Writer

	colorize bool
}

// New returns a printer for out. Color is enabled only when out is a terminal.
func New(out io.Writer) *PrettyPrint {
	pp := &PrettyPrint{Out: out}
	if f, ok := out.(*os.File); ok {
		pp.colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return pp
}

func (pp *PrettyPrint) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if pp.colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// moodStyle picks the nearest terminal color to the mood's legend color.
func (pp *PrettyPrint) moodStyle(m mood.Mood) *color.Color {
	return pp.style(nearestANSI(m.Glyph().Color))
}

var ansiPalette = []struct {
	attr color.Attribute
	hex  string
}{
	{color.FgHiMagenta, "#ff87af"},
	{color.FgHiYellow, "#ffaf5f"},
	{color.FgHiGreen, "#87d7af"},
	{color.FgHiBlue, "#87afd7"},
	{color.FgMagenta, "#af87d7"},
	{color.FgWhite, "#d0d0d0"},
}

func nearestANSI(hex string) color.Attribute {
	target, err := colorful.Hex(hex)
	if err != nil {
		return color.FgWhite
	}
	best := color.FgWhite
	bestDist := 2.0
	for _, p := range ansiPalette {
		c, _ := colorful.Hex(p.hex)
		if d := target.DistanceCIEDE2000(c); d < bestDist {
			best, bestDist = p.attr, d
		}
	}
	return best
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Out)
}

func (pp *PrettyPrint) Title(title string) {
	_, _ = pp.style(color.Bold, color.Underline).Fprintln(pp.Out, title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := pp.style(color.Bold, color.Underline)
	c := pp.style(color.Faint)

	_, _ = t.Fprint(pp.Out, title)
	_, _ = c.Fprintf(pp.Out, " - %d", count)
	switch count {
	case 1:
		_, _ = c.Fprintln(pp.Out, " entry")
	default:
		_, _ = c.Fprintln(pp.Out, " entries")
	}
}

// Entries prints a table of entries, one per row.
func (pp *PrettyPrint) Entries(entries ...*entry.Entry) {
	if len(entries) == 0 {
		_, _ = pp.style(color.Faint, color.Italic).Fprint(pp.Out, " none\n\n")
		return
	}
	y := pp.style(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(entry.DefaultPreviewWidth)
	for _, e := range entries {
		g := e.Mood.Glyph()
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(e.ID))
		}
		row = append(row, e.Date, g.Face, pp.moodStyle(e.Mood).Sprint(e.Mood), entry.Preview(e.JournalText, entry.DefaultPreviewWidth))
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
	pp.NewLine()
}

// Entry prints one entry in full.
func (pp *PrettyPrint) Entry(e *entry.Entry) {
	b := pp.style(color.Bold)
	_, _ = b.Fprintf(pp.Out, "%s\n", entry.LongDate(e.Date))
	if pp.ShowID {
		_, _ = pp.style(color.Faint).Fprintf(pp.Out, "#%s\n", strconv.FormatInt(e.ID, 10))
	}
	_, _ = pp.moodStyle(e.Mood).Fprintf(pp.Out, "%s %s\n", e.Mood.Glyph().Face, e.Mood)
	if e.JournalText != "" {
		_, _ = fmt.Fprintf(pp.Out, "\n%s\n", e.JournalText)
	}
	pp.NewLine()
}

// Legend prints the mood key.
func (pp *PrettyPrint) Legend() {
	bold := pp.style(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Face"), bold.Sprint("Mood"), bold.Sprint("Aliases"))
	for _, g := range mood.All() {
		tbl.AddRow(g.Glyph().Face, pp.moodStyle(g).Sprint(g), strings.Join(g.Glyph().Aliases, ", "))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.Out, tbl)
}
