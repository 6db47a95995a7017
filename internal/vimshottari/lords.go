package vimshottari

import (
	"fmt"
	"time"
)

// Lord identifies one of the nine Vimshottari period rulers. The zero value
// is Ketu, the ruler of Ashwini, so the cycle table below doubles as the
// nakshatra lordship table repeated three times across the 27 segments.
type Lord uint8

const (
	Ketu Lord = iota
	Venus
	Sun
	Moon
	Mars
	Rahu
	Jupiter
	Saturn
	Mercury

	lordCount = 9
)

// TotalYears is the span of one full Mahadasha cycle.
const TotalYears = 120

// Year is the fixed dasha year used for all period arithmetic. Calendar and
// locale concerns are the presentation layer's problem; the engine only ever
// adds exact multiples and fractions of this unit.
const Year = 8766 * time.Hour // 365.25 days

// CycleSpan is the duration of one full 120-year cycle.
const CycleSpan = TotalYears * Year

var lordNames = [lordCount]string{
	"Ketu", "Venus", "Sun", "Moon", "Mars", "Rahu", "Jupiter", "Saturn", "Mercury",
}

// lordYears holds the immutable years weight of each lord, in cycle order.
// The weights sum to TotalYears.
var lordYears = [lordCount]int{7, 20, 6, 10, 7, 18, 16, 19, 17}

func (l Lord) String() string {
	if int(l) >= lordCount {
		return fmt.Sprintf("Lord(%d)", uint8(l))
	}
	return lordNames[l]
}

// Years reports the lord's integer weight out of the 120-year cycle.
func (l Lord) Years() int {
	return lordYears[l%lordCount]
}

// Offset returns the lord n steps ahead in the cycle, wrapping modulo nine.
func (l Lord) Offset(n int) Lord {
	return Lord((int(l) + n) % lordCount)
}

// Span is the lord's Mahadasha duration within a full cycle.
func (l Lord) Span() time.Duration {
	return time.Duration(l.Years()) * Year
}

// ParseLord maps a lord name (case-sensitive, as emitted by String) back to
// its identity.
func ParseLord(name string) (Lord, error) {
	for i, n := range lordNames {
		if n == name {
			return Lord(i), nil
		}
	}
	return 0, fmt.Errorf("vimshottari: unknown lord %q", name)
}

// portionOf returns weight/120 of d using integer arithmetic only, so that
// equal weights over equal spans always yield identical durations and the
// weight-120 portion is exactly d. Splitting at d/120 keeps the intermediate
// products inside int64 for any span the engine produces.
func portionOf(d time.Duration, weight int) time.Duration {
	q := d / TotalYears
	r := d % TotalYears
	w := time.Duration(weight)
	return w*q + w*r/TotalYears
}
