// Package pager turns horizontal paging signals into cursor moves on an
// entry list.
//
// Two signals describe the same scroll position: a visibility report while
// the pages move, and a settle report when momentum ends. Either may arrive
// first. Every call to Set is stamped with its Source and a sequence number,
// and the last one wins.
package pager

import (
	"fmt"
	"math"
	"sync"
)

// ViewabilityThreshold is the visible fraction at which a page becomes current.
const ViewabilityThreshold = 0.6

// Source tags which signal moved the cursor.
type Source int

const (
	SourceViewport Source = iota
	SourceMomentum
	SourceJump
)

func (s Source) String() string {
	switch s {
	case SourceViewport:
		return "viewport"
	case SourceMomentum:
		return "momentum"
	case SourceJump:
		return "jump"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// Signal is one accepted call to Set.
type Signal struct {
	Seq    uint64
	Source Source
	Index  int
}

// Cursor is the index being driven, normally an *entrystore.Store.
type Cursor interface {
	Len() int
	Index() (int, bool)
	SetIndex(i int) bool
}

// Controller feeds paging signals into a Cursor.
type Controller struct {
	cursor Cursor

	mu        sync.Mutex
	seq       uint64
	last      Signal
	listeners []func(Signal)
}

// New returns a controller driving cursor.
func New(cursor Cursor) *Controller {
	return &Controller{cursor: cursor}
}

// OnChange registers fn to run after every signal that moves the cursor.
func (c *Controller) OnChange(fn func(Signal)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Set records a signal and moves the cursor to index. It reports whether the
// cursor moved. Out of range indexes are recorded but do nothing.
func (c *Controller) Set(index int, src Source) bool {
	c.mu.Lock()
	c.seq++
	sig := Signal{Seq: c.seq, Source: src, Index: index}
	c.last = sig
	moved := c.cursor.SetIndex(index)
	listeners := append([]func(Signal){}, c.listeners...)
	c.mu.Unlock()

	if moved {
		for _, fn := range listeners {
			fn(sig)
		}
	}
	return moved
}

// Last returns the most recent signal.
func (c *Controller) Last() Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Visibility is the visible fraction of one page.
type Visibility struct {
	Index    int
	Fraction float64
}

// VisibilityChanged makes the most visible page current once it is at least
// ViewabilityThreshold visible.
func (c *Controller) VisibilityChanged(items []Visibility) bool {
	best := -1
	bestFrac := 0.0
	for _, v := range items {
		if v.Fraction >= ViewabilityThreshold && v.Fraction > bestFrac {
			best, bestFrac = v.Index, v.Fraction
		}
	}
	if best < 0 {
		return false
	}
	return c.Set(best, SourceViewport)
}

// MomentumSettled makes round(offsetX/pageWidth) current.
func (c *Controller) MomentumSettled(offsetX, pageWidth float64) bool {
	i, ok := PageAt(offsetX, pageWidth, c.cursor.Len())
	if !ok {
		return false
	}
	return c.Set(i, SourceMomentum)
}

// JumpTo moves straight to index, as when a history row is chosen.
func (c *Controller) JumpTo(index int) bool {
	return c.Set(index, SourceJump)
}

// PageAt returns the page a settled offset rests on, clamped to [0, n-1].
func PageAt(offsetX, pageWidth float64, n int) (int, bool) {
	if pageWidth <= 0 || n <= 0 {
		return 0, false
	}
	i := int(math.Round(offsetX / pageWidth))
	if i < 0 {
		i = 0
	}
	if i > n-1 {
		i = n - 1
	}
	return i, true
}

// Offset returns the scroll offset at which page index is fully shown.
func Offset(index int, pageWidth float64) float64 {
	return float64(index) * pageWidth
}

// Visible reports the visible fraction of each of n pages of pageWidth when
// the viewport, itself one page wide, starts at offsetX. Pages that are not
// visible are omitted.
func Visible(offsetX, pageWidth float64, n int) []Visibility {
	if pageWidth <= 0 {
		return nil
	}
	out := make([]Visibility, 0, 2)
	viewEnd := offsetX + pageWidth
	for i := 0; i < n; i++ {
		start := float64(i) * pageWidth
		end := start + pageWidth
		overlap := math.Min(end, viewEnd) - math.Max(start, offsetX)
		if overlap <= 0 {
			continue
		}
		out = append(out, Visibility{Index: i, Fraction: overlap / pageWidth})
	}
	return out
}
