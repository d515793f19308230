package route

import (
	"github.com/paulmach/orb"
	"math"
	"searoute/geo"
	"searoute/land"
	"searoute/util"
	"testing"
)

// openSea is an oracle without any land at all.
type openSea struct{}

func (openSea) IsLand(geo.Coordinate) bool                        { return false }
func (openSea) DistanceToCoastKm(geo.Coordinate, float64) float64 { return math.Inf(1) }

func rectangle(minLat float64, minLon float64, maxLat float64, maxLon float64) orb.Polygon {
	return orb.Polygon{
		orb.Ring{
			{minLon, minLat},
			{maxLon, minLat},
			{maxLon, maxLat},
			{minLon, maxLat},
			{minLon, minLat},
		},
	}
}

// islandIndex returns a land index with a single island between (0, 9) and (0, 12).
func islandIndex() *land.Index {
	return land.NewFromPolygons([]orb.Polygon{rectangle(-0.3, 10.2, 0.3, 10.8)})
}

func assertWaypointsAreSafe(t *testing.T, oracle Oracle, waypoints []geo.Coordinate, clearanceKm float64) {
	for _, waypoint := range waypoints {
		util.AssertFalse(t, oracle.IsLand(waypoint))
		util.AssertTrue(t, oracle.DistanceToCoastKm(waypoint, clearanceKm) >= clearanceKm)
	}
}

func TestPlan_directRouteOnOpenSea(t *testing.T) {
	// Arrange
	start := geo.Coordinate{Lat: 0, Lon: 0}
	goal := geo.Coordinate{Lat: 2, Lon: 2}

	// Act
	result, err := Plan(openSea{}, start, goal, DefaultOptions())

	// Assert: mutually visible endpoints short-circuit to the two-point path
	util.AssertNil(t, err)
	util.AssertEqual(t, StatusFound, result.Status)
	util.AssertEqual(t, []geo.Coordinate{start, goal}, result.Waypoints)
	util.AssertEqual(t, 0, result.Iterations)
	util.AssertApprox(t, 100.0, result.Efficiency, 0.001)
}

func TestPlan_detoursAroundIsland(t *testing.T) {
	// Arrange
	index := islandIndex()
	start := geo.Coordinate{Lat: 0, Lon: 9}
	goal := geo.Coordinate{Lat: 0, Lon: 12}
	options := DefaultOptions()

	// Act
	result, err := Plan(index, start, goal, options)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, StatusFound, result.Status)
	util.AssertTrue(t, len(result.Waypoints) > 2)
	util.AssertEqual(t, start, result.Waypoints[0])
	util.AssertEqual(t, goal, result.Waypoints[len(result.Waypoints)-1])

	assertWaypointsAreSafe(t, index, result.Waypoints, options.ClearanceKm)

	// The detour must be longer than the straight line
	util.AssertTrue(t, result.DistanceKm > result.DirectDistanceKm)
	util.AssertTrue(t, result.Efficiency < 100)
}

func TestPlan_waypointSpacing(t *testing.T) {
	// Arrange
	index := islandIndex()
	options := DefaultOptions()

	// Act
	result, err := Plan(index, geo.Coordinate{Lat: 0, Lon: 9}, geo.Coordinate{Lat: 0, Lon: 12}, options)

	// Assert: all legs except the final shortcut are one step long
	util.AssertNil(t, err)
	for i := 0; i < len(result.Waypoints)-2; i++ {
		legKm := geo.DistanceKm(result.Waypoints[i], result.Waypoints[i+1])
		util.AssertApprox(t, options.StepKm, legKm, 0.1)
	}
}

func TestPlan_idempotent(t *testing.T) {
	// Arrange
	index := islandIndex()
	start := geo.Coordinate{Lat: 0, Lon: 9}
	goal := geo.Coordinate{Lat: 0, Lon: 12}

	// Act
	first, err := Plan(index, start, goal, DefaultOptions())
	util.AssertNil(t, err)
	second, err := Plan(index, start, goal, DefaultOptions())
	util.AssertNil(t, err)

	// Assert
	util.AssertEqual(t, first.Waypoints, second.Waypoints)
	util.AssertEqual(t, first.Iterations, second.Iterations)
}

func TestPlan_raisingBudgetKeepsRouteFindable(t *testing.T) {
	// Arrange
	index := islandIndex()
	start := geo.Coordinate{Lat: 0, Lon: 9}
	goal := geo.Coordinate{Lat: 0, Lon: 12}

	smallBudget := DefaultOptions()
	largeBudget := DefaultOptions()
	largeBudget.MaxIterations = 10 * smallBudget.MaxIterations

	// Act
	small, err := Plan(index, start, goal, smallBudget)
	util.AssertNil(t, err)
	large, err := Plan(index, start, goal, largeBudget)
	util.AssertNil(t, err)

	// Assert: the search is deterministic, a larger budget yields the same route
	util.AssertEqual(t, StatusFound, small.Status)
	util.AssertEqual(t, StatusFound, large.Status)
	util.AssertEqual(t, small.Waypoints, large.Waypoints)
}

func TestPlan_startOnLand(t *testing.T) {
	// Arrange
	index := islandIndex()

	// Act: start is in the middle of the island
	result, err := Plan(index, geo.Coordinate{Lat: 0, Lon: 10.5}, geo.Coordinate{Lat: 0, Lon: 12}, DefaultOptions())

	// Assert
	util.AssertErrorIs(t, ErrStartOrGoalOnLand, err)
	util.AssertNil(t, result)
}

func TestPlan_goalTooCloseToCoast(t *testing.T) {
	// Arrange
	index := islandIndex()

	// Act: goal is sea but well within the 10 km clearance of the island
	result, err := Plan(index, geo.Coordinate{Lat: 0, Lon: 9}, geo.Coordinate{Lat: 0, Lon: 10.85}, DefaultOptions())

	// Assert
	util.AssertErrorIs(t, ErrStartOrGoalOnLand, err)
	util.AssertNil(t, result)
}

func TestPlan_invalidCoordinate(t *testing.T) {
	result, err := Plan(openSea{}, geo.Coordinate{Lat: 91, Lon: 0}, geo.Coordinate{Lat: 0, Lon: 0}, DefaultOptions())

	util.AssertErrorIs(t, geo.ErrInvalidCoordinate, err)
	util.AssertNil(t, result)
}

func TestPlan_budgetExhausted(t *testing.T) {
	// Arrange: goal is ~330 km away, two iterations cannot get there
	index := islandIndex()
	options := DefaultOptions()
	options.MaxIterations = 2
	options.ShortcutInterval = 100

	// Act
	result, err := Plan(index, geo.Coordinate{Lat: 0, Lon: 9}, geo.Coordinate{Lat: 0, Lon: 12}, options)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, StatusBudgetExhausted, result.Status)
	util.AssertEqual(t, 2, result.Iterations)
	util.AssertEqual(t, 0, len(result.Waypoints))
}

// lagoonIndex returns a land index whose only sea around (0, 10) is a lagoon that is
// safe at its center but too small to take a single safe step in any direction.
func lagoonIndex() *land.Index {
	lagoon := rectangle(-1, 9, 1, 11)
	lagoon = append(lagoon, orb.Ring{
		{9.88, -0.12}, {10.12, -0.12}, {10.12, 0.12}, {9.88, 0.12}, {9.88, -0.12},
	})
	return land.NewFromPolygons([]orb.Polygon{lagoon})
}

func TestPlan_noRouteOutOfLagoon(t *testing.T) {
	// Arrange
	index := lagoonIndex()

	// Act
	result, err := Plan(index, geo.Coordinate{Lat: 0, Lon: 10}, geo.Coordinate{Lat: 0, Lon: 14}, DefaultOptions())

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, StatusNoRoute, result.Status)
	util.AssertEqual(t, 0, len(result.Waypoints))
}

func TestPlan_largerClearanceNeverShortensRoute(t *testing.T) {
	// Arrange
	index := islandIndex()
	start := geo.Coordinate{Lat: 0, Lon: 9}
	goal := geo.Coordinate{Lat: 0, Lon: 12}

	narrow := DefaultOptions()
	wide := DefaultOptions()
	wide.ClearanceKm = 15

	// Act
	narrowResult, err := Plan(index, start, goal, narrow)
	util.AssertNil(t, err)
	wideResult, err := Plan(index, start, goal, wide)
	util.AssertNil(t, err)

	// Assert
	util.AssertEqual(t, StatusFound, narrowResult.Status)
	util.AssertEqual(t, StatusFound, wideResult.Status)
	util.AssertTrue(t, wideResult.DistanceKm >= narrowResult.DistanceKm)
	assertWaypointsAreSafe(t, index, wideResult.Waypoints, wide.ClearanceKm)
}

func TestAdvance_deadEndsWhenSweepIsBlocked(t *testing.T) {
	// Arrange: land everywhere makes every step unsafe
	everywhere := land.NewFromPolygons([]orb.Polygon{rectangle(-89, -179, 89, 179)})
	c := newCandidate(BiasLeft, geo.Coordinate{Lat: 0, Lon: 10})

	// Act
	advance(everywhere, c, geo.Coordinate{Lat: 0, Lon: 14}, DefaultOptions())

	// Assert
	util.AssertEqual(t, StateDeadEnd, c.state)
	util.AssertEqual(t, 1, len(c.points))
}

func TestMergeConvergedCandidates(t *testing.T) {
	// Arrange: two diverged, advancing candidates whose tips are 0 km apart
	shorter := newCandidate(BiasLeft, geo.Coordinate{Lat: 0, Lon: 0})
	shorter.extend(geo.Coordinate{Lat: 1, Lon: 0})
	shorter.diverged = true
	longer := newCandidate(BiasRight, geo.Coordinate{Lat: 0, Lon: 0})
	longer.extend(geo.Coordinate{Lat: 0, Lon: 2})
	longer.extend(geo.Coordinate{Lat: 1, Lon: 0})
	longer.diverged = true

	// Act
	mergeConvergedCandidates([]*candidate{shorter, longer}, DefaultOptions())

	// Assert
	util.AssertEqual(t, StateAdvancing, shorter.state)
	util.AssertEqual(t, StateMerged, longer.state)
}

func TestMergeConvergedCandidates_undivergedCandidatesStay(t *testing.T) {
	// Arrange: tips coincide, but neither candidate ever left the direct bearing
	left := newCandidate(BiasLeft, geo.Coordinate{Lat: 0, Lon: 0})
	left.extend(geo.Coordinate{Lat: 1, Lon: 0})
	right := newCandidate(BiasRight, geo.Coordinate{Lat: 0, Lon: 0})
	right.extend(geo.Coordinate{Lat: 1, Lon: 0})

	// Act
	mergeConvergedCandidates([]*candidate{left, right}, DefaultOptions())

	// Assert
	util.AssertEqual(t, StateAdvancing, left.state)
	util.AssertEqual(t, StateAdvancing, right.state)
}

func TestMergeConvergedCandidates_distantTipsStay(t *testing.T) {
	// Arrange
	left := newCandidate(BiasLeft, geo.Coordinate{Lat: 0, Lon: 0})
	left.extend(geo.Coordinate{Lat: 1, Lon: 0})
	left.diverged = true
	right := newCandidate(BiasRight, geo.Coordinate{Lat: 0, Lon: 0})
	right.extend(geo.Coordinate{Lat: -1, Lon: 0})
	right.diverged = true

	// Act
	mergeConvergedCandidates([]*candidate{left, right}, DefaultOptions())

	// Assert
	util.AssertEqual(t, StateAdvancing, left.state)
	util.AssertEqual(t, StateAdvancing, right.state)
}

func TestSegmentIsClear(t *testing.T) {
	// Arrange
	index := islandIndex()
	options := DefaultOptions()

	// Act & Assert: segment through the island is blocked, a parallel one far south is
	// clear
	util.AssertFalse(t, segmentIsClear(index, geo.Coordinate{Lat: 0, Lon: 9}, geo.Coordinate{Lat: 0, Lon: 12}, options))
	util.AssertTrue(t, segmentIsClear(index, geo.Coordinate{Lat: -2, Lon: 9}, geo.Coordinate{Lat: -2, Lon: 12}, options))
}
