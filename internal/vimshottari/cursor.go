package vimshottari

import "time"

// cursor addresses one period at a fixed depth by its chain of sibling
// offsets below a cycle root. It never materializes an arena: each move
// recomputes the bounds it needs with the same childBounds arithmetic the
// tree builder uses, so a cursor walk and a built tree always agree.
//
// Advancing past the ninth Mahadasha rolls into the next 120-year cycle.
// The cycle sequence continues with the very lord it started on, because
// nine Mahadashas consume the full rotation.
type cursor struct {
	startLord Lord
	anchor    time.Time // current cycle anchor
	offsets   []int     // sibling offset per level, len == depth, each 0..8
}

// newCursor positions a cursor on the period of the given depth that
// contains from, or on the first period starting after it when from
// precedes the first cycle's anchor.
func newCursor(startLord Lord, anchor time.Time, from time.Time, depth uint8) cursor {
	c := cursor{
		startLord: startLord,
		anchor:    anchor,
		offsets:   make([]int, depth),
	}
	for !from.Before(c.anchor.Add(CycleSpan)) {
		c.anchor = c.anchor.Add(CycleSpan)
	}
	if from.Before(c.anchor) {
		return c // all-zero offsets: first period of the cycle
	}

	lord, start, dur := startLord, c.anchor, CycleSpan
	for level := range c.offsets {
		for i := 0; i < lordCount; i++ {
			s, e := childBounds(lord, start, dur, i)
			if !from.Before(s) && from.Before(e) {
				c.offsets[level] = i
				lord, start, dur = lord.Offset(i), s, e.Sub(s)
				break
			}
		}
	}
	return c
}

// node materializes the period the cursor points at.
func (c cursor) node() PeriodNode {
	lord, start, dur := c.startLord, c.anchor, CycleSpan
	var s, e time.Time
	for _, i := range c.offsets {
		s, e = childBounds(lord, start, dur, i)
		lord, start, dur = lord.Offset(i), s, e.Sub(s)
	}
	return PeriodNode{
		Lord:      lord,
		Depth:     uint8(len(c.offsets)),
		Start:     start,
		End:       start.Add(dur),
		parent:    -1,
		childBase: noChild,
	}
}

// advance moves to the next period at the cursor's depth, carrying into
// parent siblings when a level is exhausted and into the next cycle when
// the outermost level is.
func (c *cursor) advance() {
	for level := len(c.offsets) - 1; level >= 0; level-- {
		c.offsets[level]++
		if c.offsets[level] < lordCount {
			return
		}
		c.offsets[level] = 0
	}
	c.anchor = c.anchor.Add(CycleSpan)
}
