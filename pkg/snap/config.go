package snap

import (
	"errors"
	"fmt"
)

// CandidateType identifies the kind of geometry a snap candidate locks onto.
// The declaration order is the tie-break priority: when two candidates are at
// equal distance, the lower value wins. Real geometry (nodes, endpoints)
// outranks derived points, and the always-available grid ranks last.
type CandidateType int

const (
	Node CandidateType = iota
	Endpoint
	Midpoint
	Perpendicular
	Intersection
	Grid
)

// String returns the candidate type name
func (t CandidateType) String() string {
	switch t {
	case Node:
		return "node"
	case Endpoint:
		return "endpoint"
	case Midpoint:
		return "midpoint"
	case Perpendicular:
		return "perpendicular"
	case Intersection:
		return "intersection"
	case Grid:
		return "grid"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// AllCandidateTypes lists every candidate type, in priority order
func AllCandidateTypes() []CandidateType {
	return []CandidateType{Node, Endpoint, Midpoint, Perpendicular, Intersection, Grid}
}

// ErrInvalidConfig is returned when a configuration update is rejected.
// The previous value stays in effect.
var ErrInvalidConfig = errors.New("snap: invalid configuration")

// Config controls snap resolution. It is read on every query, so changes
// take effect on the next FindSnap call.
type Config struct {
	// Enabled turns snapping off entirely when false
	Enabled bool
	// Types enables or disables individual candidate types
	Types map[CandidateType]bool
	// Threshold is the maximum distance at which a candidate qualifies
	Threshold float64
	// GridSpacing is the distance between grid intersections
	GridSpacing float64
}

// DefaultConfig returns a configuration with all candidate types enabled
func DefaultConfig() Config {
	types := make(map[CandidateType]bool)
	for _, t := range AllCandidateTypes() {
		types[t] = true
	}
	return Config{
		Enabled:     true,
		Types:       types,
		Threshold:   0.5,
		GridSpacing: 1.0,
	}
}

// typeEnabled reports whether a candidate type is switched on
func (c Config) typeEnabled(t CandidateType) bool {
	enabled, ok := c.Types[t]
	return ok && enabled
}
