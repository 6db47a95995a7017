package vimshottari

import (
	"errors"
	"fmt"
	"time"
)

// Chart is the engine's boundary with the presentation layer: one birth
// measurement turned into a queryable period hierarchy. It owns no external
// resources and is safe for concurrent reads once built.
type Chart struct {
	Longitude float64
	Birth     time.Time
	Position  Position
	Balance   Balance

	tree *Tree
}

// NewChart builds a chart from the Moon's sidereal ecliptic longitude at
// the birth instant. maxDepth is the deepest level materialized up front
// (typically 3, Pratyantardasha); deeper queries expand transiently.
func NewChart(longitude float64, birth time.Time, maxDepth uint8) (*Chart, error) {
	if maxDepth < 1 || maxDepth > MaxTreeDepth {
		return nil, fmt.Errorf("%w: maxDepth %d not in [1, %d]", ErrInvalidDepth, maxDepth, MaxTreeDepth)
	}
	pos, err := Locate(longitude)
	if err != nil {
		return nil, err
	}
	bal := ResolveBalance(pos, birth)
	return &Chart{
		Longitude: longitude,
		Birth:     birth,
		Position:  pos,
		Balance:   bal,
		tree:      New(bal.Lord, bal.Anchor, maxDepth),
	}, nil
}

// Tree exposes the materialized first 120-year cycle.
func (c *Chart) Tree() *Tree {
	return c.tree
}

// ActivePath returns the Mahadasha-to-leaf chain governing the instant
// within the first cycle. Instants outside that span surface ErrOutOfRange
// so the caller can decide whether continuation into a repeat cycle is
// meaningful for its use case.
func (c *Chart) ActivePath(at time.Time) ([]PeriodNode, error) {
	return c.tree.ActivePath(at)
}

// ActiveAt returns the single period of the requested depth governing the
// instant. Depths beyond the built tree do not fail: the containing subtree
// is expanded transiently, leaving the chart untouched.
func (c *Chart) ActiveAt(at time.Time, depth uint8) (PeriodNode, error) {
	node, err := c.tree.At(at, depth)
	if err == nil {
		return node, nil
	}
	if !errors.Is(err, ErrDepthExceeded) {
		return PeriodNode{}, err
	}
	if !at.Before(c.tree.End()) || at.Before(c.tree.Start()) {
		return PeriodNode{}, fmt.Errorf("%w: %s outside first cycle", ErrOutOfRange, at.UTC().Format(time.RFC3339))
	}
	cur := newCursor(c.tree.StartLord(), c.tree.Start(), at, depth)
	return cur.node(), nil
}

// Upcoming lists count consecutive periods of the given depth, starting
// with the one containing from (or the first one after it, when from
// precedes the cycle anchor). The walk carries across exhausted parent
// periods and, past the 120-year span, into deterministic repeat cycles,
// so it never returns ErrOutOfRange.
func (c *Chart) Upcoming(from time.Time, count int, depth uint8) ([]PeriodNode, error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	if count <= 0 {
		return nil, nil
	}
	cur := newCursor(c.tree.StartLord(), c.tree.Start(), from, depth)
	out := make([]PeriodNode, 0, count)
	for len(out) < count {
		out = append(out, cur.node())
		cur.advance()
	}
	return out, nil
}
