package route

import (
	"fmt"
	"searoute/geo"
)

// Status is the outcome of a planning run. A route that cannot be found is an expected
// operational outcome, not an error, so it is reported here instead of via an error
// value.
type Status int

const (
	// StatusFound means the waypoint sequence is a complete route from start to goal.
	StatusFound Status = iota

	// StatusNoRoute means every candidate dead-ended before reaching the goal.
	StatusNoRoute

	// StatusBudgetExhausted means the iteration budget ran out. Unlike StatusNoRoute a
	// route might still exist, callers can retry with a larger budget.
	StatusBudgetExhausted
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "FOUND"
	case StatusNoRoute:
		return "NO_ROUTE"
	case StatusBudgetExhausted:
		return "BUDGET_EXHAUSTED"
	}
	return fmt.Sprintf("[!UNKNOWN Status %d]", s)
}

type Result struct {
	Status Status

	// Waypoints is the ordered route from start to goal. Empty unless Status is
	// StatusFound.
	Waypoints []geo.Coordinate

	// DistanceKm is the accumulated length of the route along its waypoints.
	DistanceKm float64

	// DirectDistanceKm is the great-circle distance between start and goal.
	DirectDistanceKm float64

	// Efficiency is DirectDistanceKm / DistanceKm in percent. 100 means the route is
	// the straight line.
	Efficiency float64

	// Iterations is the number of search iterations that were run.
	Iterations int
}

func newFoundResult(waypoints []geo.Coordinate, iterations int) *Result {
	distance := 0.0
	for i := 0; i < len(waypoints)-1; i++ {
		distance += geo.DistanceKm(waypoints[i], waypoints[i+1])
	}

	directDistance := geo.DistanceKm(waypoints[0], waypoints[len(waypoints)-1])
	efficiency := 0.0
	if distance > 0 {
		efficiency = directDistance / distance * 100
	}

	return &Result{
		Status:           StatusFound,
		Waypoints:        waypoints,
		DistanceKm:       distance,
		DirectDistanceKm: directDistance,
		Efficiency:       efficiency,
		Iterations:       iterations,
	}
}
