// Package vimshottari owns the dasha period arithmetic.
//
// Ownership boundary:
// - nakshatra location from a sidereal longitude
// - balance-of-dasha anchoring
// - proportional period subdivision and cycle continuation
// - active-path and upcoming-period queries
//
// The package does not compute ephemeris positions and does not apply any
// ayanamsa; callers supply a sidereal longitude. Everything here is a pure
// function of its inputs.
package vimshottari
