package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/timeutil"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Month prints a month grid with each day colored by its cached mood.
func (pp *PrettyPrint) Month(year int, month time.Month, byDate map[string]mood.Mood) {
	then := time.Date(year, month, 1, 12, 0, 0, 0, time.Local)
	tf := pp.style(color.FgWhite, color.Italic)

	title := entry.MonthLabel(then)
	mid := (width - len(title)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(pp.Out, "%s%s\n", strings.Repeat(" ", mid), title)
	_, _ = pp.style(color.Faint).Fprintln(pp.Out, "Su Mo Tu We Th Fr Sa")

	d := then.Weekday()
	_, _ = fmt.Fprint(pp.Out, strings.Repeat("   ", int(d)))

	empty := pp.style(color.Faint, color.FgWhite)
	today := entry.Today()
	for i, date := range timeutil.MonthDates(year, month) {
		printer := empty
		if m, ok := byDate[date]; ok {
			printer = pp.moodStyle(m)
			if date == today {
				printer = pp.style(nearestANSI(m.Glyph().Color), color.Bold, color.Underline)
			}
		} else if date == today {
			printer = pp.style(color.Bold, color.Underline)
		}
		_, _ = printer.Fprintf(pp.Out, "%2d ", i+1)

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(pp.Out, "\n")
		}
	}
	_, _ = fmt.Fprint(pp.Out, "\n\n")
}

// Report prints per-mood counts for a set of entries, happiest first.
func (pp *PrettyPrint) Report(label string, entries []*entry.Entry) {
	pp.TitleWithCount("Last "+label, len(entries))
	counts := make(map[mood.Mood]int)
	for _, e := range entries {
		counts[e.Mood]++
	}
	for _, m := range mood.All() {
		n := counts[m]
		bar := strings.Repeat("■", n)
		_, _ = fmt.Fprintf(pp.Out, "%-16s %3d ", m, n)
		_, _ = pp.moodStyle(m).Fprintln(pp.Out, bar)
	}
	pp.NewLine()
}
