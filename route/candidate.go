package route

import (
	"fmt"
	"searoute/geo"
)

// Bias is the lateral branch identity of a candidate path. It determines the direction
// a candidate rotates its bearing when the direct step towards the goal is blocked:
// left candidates swing counter-clockwise, right candidates clockwise. Running one
// candidate per bias makes the search follow an obstacle along both of its sides.
type Bias int

const (
	BiasLeft Bias = iota
	BiasRight
)

func (b Bias) String() string {
	switch b {
	case BiasLeft:
		return "left"
	case BiasRight:
		return "right"
	}
	return fmt.Sprintf("[!UNKNOWN Bias %d]", b)
}

// rotationSign returns the sign applied to bearing rotations of this bias.
func (b Bias) rotationSign() float64 {
	if b == BiasLeft {
		return -1
	}
	return 1
}

// State is the lifecycle state of a candidate. StateAdvancing is the only non-terminal
// state.
type State int

const (
	StateAdvancing State = iota
	StateDeadEnd
	StateComplete
	StateMerged
)

func (s State) String() string {
	switch s {
	case StateAdvancing:
		return "ADVANCING"
	case StateDeadEnd:
		return "DEAD_END"
	case StateComplete:
		return "COMPLETE"
	case StateMerged:
		return "MERGED"
	}
	return fmt.Sprintf("[!UNKNOWN State %d]", s)
}

// candidate is one path under construction, owned exclusively by the search loop.
type candidate struct {
	bias     Bias
	state    State
	points   []geo.Coordinate
	lengthKm float64

	// diverged is set once the candidate rotated away from the direct goal bearing at
	// least once. Until then both candidates walk the same straight line and merging
	// them would collapse the search prematurely.
	diverged bool
}

func newCandidate(bias Bias, start geo.Coordinate) *candidate {
	return &candidate{
		bias:   bias,
		state:  StateAdvancing,
		points: []geo.Coordinate{start},
	}
}

func (c *candidate) tip() geo.Coordinate {
	return c.points[len(c.points)-1]
}

func (c *candidate) extend(point geo.Coordinate) {
	c.lengthKm += geo.DistanceKm(c.tip(), point)
	c.points = append(c.points, point)
}
