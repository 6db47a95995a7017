package vimshottari

import (
	"fmt"
	"math"
)

const (
	// NakshatraCount divides the ecliptic into 27 equal 13°20' segments.
	NakshatraCount = 27

	segmentWidth = 360.0 / NakshatraCount
)

// Nakshatra is a zero-based index into the 27 ecliptic segments.
type Nakshatra int

// Lord returns the segment's Vimshottari ruler. Lordship repeats three
// times across the 27 segments.
func (n Nakshatra) Lord() Lord {
	return Lord(n % lordCount)
}

// Position is the Moon's location within its birth nakshatra.
type Position struct {
	Nakshatra Nakshatra
	// Progress is the fraction of the segment already traversed, in [0,1).
	Progress float64
}

// Lord is the ruler of the occupied nakshatra, the start lord of the chart.
func (p Position) Lord() Lord {
	return p.Nakshatra.Lord()
}

// Locate maps a sidereal ecliptic longitude in degrees to the occupied
// nakshatra and the fractional progress through it. Any finite longitude is
// accepted and normalized to [0,360). The caller is responsible for supplying
// a sidereal (not tropical) value; no ayanamsa correction happens here.
func Locate(longitude float64) (Position, error) {
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		return Position{}, fmt.Errorf("%w: got %v", ErrInvalidLongitude, longitude)
	}

	lon := math.Mod(longitude, 360)
	if lon < 0 {
		lon += 360
	}

	idx := int(lon / segmentWidth)
	if idx >= NakshatraCount {
		// math.Mod can return a value that divides to exactly 27 when the
		// input sits a rounding step below 360.
		idx = NakshatraCount - 1
	}

	progress := lon/segmentWidth - float64(idx)
	if progress < 0 {
		progress = 0
	} else if progress >= 1 {
		progress = math.Nextafter(1, 0)
	}

	return Position{Nakshatra: Nakshatra(idx), Progress: progress}, nil
}
