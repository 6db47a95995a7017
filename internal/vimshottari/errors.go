package vimshottari

import "errors"

var (
	ErrInvalidLongitude = errors.New("vimshottari: longitude must be finite")
	ErrOutOfRange       = errors.New("vimshottari: instant outside covered span")
	ErrDepthExceeded    = errors.New("vimshottari: depth exceeds built tree depth")
	ErrInvalidDepth     = errors.New("vimshottari: invalid depth")
)
