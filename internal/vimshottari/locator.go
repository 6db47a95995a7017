package vimshottari

import (
	"fmt"
	"sort"
	"time"
)

// ActivePath returns the chain of periods governing the instant, ordered
// Mahadasha first, down to the tree's built depth. Instants outside the
// 120-year span produce ErrOutOfRange; callers wanting automatic cycle
// continuation should query through Chart.Upcoming instead.
func (t *Tree) ActivePath(at time.Time) ([]PeriodNode, error) {
	root := t.nodes[0]
	if !root.Contains(at) {
		return nil, fmt.Errorf("%w: %s not in [%s, %s)",
			ErrOutOfRange, at.UTC().Format(time.RFC3339), root.Start.UTC().Format(time.RFC3339), root.End.UTC().Format(time.RFC3339))
	}

	path := make([]PeriodNode, 0, t.maxDepth)
	id := int32(0)
	for {
		base := t.nodes[id].childBase
		if base == noChild {
			return path, nil
		}
		child, err := t.activeChild(id, at)
		if err != nil {
			return nil, err
		}
		path = append(path, t.nodes[child])
		id = child
	}
}

// At returns the single period of the requested depth governing the
// instant. Depth beyond the built tree is ErrDepthExceeded; Chart recovers
// from that by transient expansion rather than failing the caller.
func (t *Tree) At(at time.Time, depth uint8) (PeriodNode, error) {
	if depth < 1 {
		return PeriodNode{}, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	if depth > t.maxDepth {
		return PeriodNode{}, fmt.Errorf("%w: want %d, built %d", ErrDepthExceeded, depth, t.maxDepth)
	}
	path, err := t.ActivePath(at)
	if err != nil {
		return PeriodNode{}, err
	}
	return path[depth-1], nil
}

// activeChild binary-searches the contiguous, sorted child block for the
// half-open interval holding the instant.
func (t *Tree) activeChild(id int32, at time.Time) (int32, error) {
	base := t.nodes[id].childBase
	kids := t.nodes[base : base+lordCount]

	i := sort.Search(lordCount, func(i int) bool {
		return at.Before(kids[i].End)
	})
	if i == lordCount || !kids[i].Contains(at) {
		// Unreachable while the tiling invariant holds; kept as a guard
		// against a corrupted arena.
		return 0, fmt.Errorf("%w: no child of node %d covers %s", ErrOutOfRange, id, at.UTC().Format(time.RFC3339))
	}
	return base + int32(i), nil
}
