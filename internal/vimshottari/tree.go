package vimshottari

import "time"

// PeriodNode is one interval in the dasha hierarchy. Depth 1 is a Mahadasha,
// depth 2 an Antardasha, depth 3 a Pratyantardasha, and so on. Intervals are
// half-open [Start, End): an instant equal to End belongs to the following
// sibling. Nodes are immutable once built.
type PeriodNode struct {
	Lord  Lord
	Depth uint8
	Start time.Time
	End   time.Time

	parent    int32
	childBase int32
}

// Duration is the node's exact span.
func (n PeriodNode) Duration() time.Duration {
	return n.End.Sub(n.Start)
}

// Contains reports whether the instant falls inside the half-open interval.
func (n PeriodNode) Contains(at time.Time) bool {
	return !at.Before(n.Start) && at.Before(n.End)
}

const noChild = int32(-1)

// MaxTreeDepth bounds how many levels a tree may materialize. The arena
// grows ninefold per level; queries deeper than a built tree are served by
// transient expansion instead (see Chart), so there is no reason to build
// past this.
const MaxTreeDepth = 6

// Tree is a fully built dasha hierarchy for one 120-year cycle, stored as a
// flat append-only arena addressed by integer index. Index 0 is a synthetic
// cycle node spanning the whole 120 years; its nine children are the
// Mahadashas. A Tree is never mutated after New returns, so one handle may
// be read from any number of goroutines.
type Tree struct {
	nodes    []PeriodNode
	maxDepth uint8
}

// New builds the complete hierarchy down to maxDepth levels below the
// Mahadasha cycle, clamped to MaxTreeDepth. The anchor is the true cycle
// start from ResolveBalance, which may precede the birth instant. Building
// is deterministic: identical inputs always produce identical trees.
func New(startLord Lord, anchor time.Time, maxDepth uint8) *Tree {
	if maxDepth > MaxTreeDepth {
		maxDepth = MaxTreeDepth
	}
	total := 1
	for d, level := 1, uint8(1); level <= maxDepth; level++ {
		d *= lordCount
		total += d
	}

	t := &Tree{
		nodes:    make([]PeriodNode, 0, total),
		maxDepth: maxDepth,
	}
	t.nodes = append(t.nodes, PeriodNode{
		Lord:      startLord,
		Depth:     0,
		Start:     anchor,
		End:       anchor.Add(CycleSpan),
		parent:    -1,
		childBase: noChild,
	})
	t.expand(0)
	return t
}

// expand appends the nine children of nodes[id] as a contiguous block and
// recurses until maxDepth. Child starts derive from the parent start plus
// the cumulative integer weight prefix, never from a running accumulator,
// so sibling boundaries tile exactly and rounding stays at one step per
// level.
func (t *Tree) expand(id int32) {
	parent := t.nodes[id]
	if parent.Depth >= t.maxDepth {
		return
	}

	base := int32(len(t.nodes))
	t.nodes[id].childBase = base
	for i := 0; i < lordCount; i++ {
		start, end := childBounds(parent.Lord, parent.Start, parent.Duration(), i)
		t.nodes = append(t.nodes, PeriodNode{
			Lord:      parent.Lord.Offset(i),
			Depth:     parent.Depth + 1,
			Start:     start,
			End:       end,
			parent:    id,
			childBase: noChild,
		})
	}
	for i := int32(0); i < lordCount; i++ {
		t.expand(base + i)
	}
}

// cumWeight sums the years weights of the first n lords of the cycle
// rotated to begin at l. cumWeight(l, 9) is always 120.
func cumWeight(l Lord, n int) int {
	sum := 0
	for k := 0; k < n; k++ {
		sum += l.Offset(k).Years()
	}
	return sum
}

// childBounds computes the i-th child interval of a parent period. The
// child order is the nine-lord cycle starting at the parent's own lord, the
// classical self-opening rule: a lord's own sub-period always opens its
// period.
func childBounds(parentLord Lord, parentStart time.Time, parentDur time.Duration, i int) (start, end time.Time) {
	start = parentStart.Add(portionOf(parentDur, cumWeight(parentLord, i)))
	end = parentStart.Add(portionOf(parentDur, cumWeight(parentLord, i+1)))
	return start, end
}

// MaxDepth reports how many levels below the cycle node were built.
func (t *Tree) MaxDepth() uint8 {
	return t.maxDepth
}

// Start is the cycle anchor instant.
func (t *Tree) Start() time.Time {
	return t.nodes[0].Start
}

// End is the exclusive end of the 120-year span.
func (t *Tree) End() time.Time {
	return t.nodes[0].End
}

// StartLord is the lord of the first Mahadasha.
func (t *Tree) StartLord() Lord {
	return t.nodes[0].Lord
}

// Len reports the number of period nodes, excluding the synthetic cycle
// node.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Mahadashas returns the nine depth-1 periods in order.
func (t *Tree) Mahadashas() []PeriodNode {
	if t.maxDepth < 1 {
		return nil
	}
	base := t.nodes[0].childBase
	out := make([]PeriodNode, lordCount)
	copy(out, t.nodes[base:base+lordCount])
	return out
}

// children returns the contiguous child block of nodes[id], or nil for a
// leaf.
func (t *Tree) children(id int32) []PeriodNode {
	base := t.nodes[id].childBase
	if base == noChild {
		return nil
	}
	return t.nodes[base : base+lordCount]
}
