package purgatory

import (
	"github.com/pkg/errors"
)

var (
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	ErrZeroArea       = errors.New("polygon has zero area")
	ErrNonFinite      = errors.New("vertex is not finite")
	ErrInvalidSize    = errors.New("shape dimensions must be positive")
	ErrNoParts        = errors.New("compound body needs at least one part")
	ErrNoBodies       = errors.New("constraint needs at least one body")
	ErrNotLeaf        = errors.New("compound parts must be leaf bodies")
	ErrNoCategories   = errors.New("all 32 collision categories are in use")
)

var ErrCompoundPart = errors.New("body is a part of a compound body")
