package vimshottari

import "time"

// Balance captures the classical balance-of-dasha at birth: how much of the
// first Mahadasha had elapsed before the birth instant, and how much remains
// after it.
type Balance struct {
	Lord Lord
	// Anchor is the true start of the full 120-year cycle; birth falls
	// Elapsed after it.
	Anchor    time.Time
	Elapsed   time.Duration
	Remaining time.Duration
}

// ResolveBalance converts nakshatra progress into the cycle anchor. The
// anchor may precede the birth instant by up to the start lord's full span;
// at birth exactly Remaining of the first Mahadasha is left.
func ResolveBalance(pos Position, birth time.Time) Balance {
	lord := pos.Lord()
	span := lord.Span()
	elapsed := time.Duration(pos.Progress * float64(span))
	return Balance{
		Lord:      lord,
		Anchor:    birth.Add(-elapsed),
		Elapsed:   elapsed,
		Remaining: span - elapsed,
	}
}
