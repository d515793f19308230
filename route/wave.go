package route

import (
	"github.com/hauke96/sigolo/v2"
	"searoute/geo"
)

// Mean length of one degree of latitude, used to size grid cells.
const kmPerDegree = 111.195

// One planner iteration corresponds to this many processed grid cells, so the wave
// strategy honors the same MaxIterations budget as the branching strategy.
const waveCellsPerIteration = 1000

type gridCell struct {
	Lat int
	Lon int
}

// planWave floods the sea with a wave front starting at the goal: a breadth-first
// search over a quantized grid where land and clearance violations act as barriers.
// When the wave reaches the start cell, walking the parent chain yields a route that
// is shortest in grid steps.
func planWave(oracle Oracle, start geo.Coordinate, goal geo.Coordinate, options Options) *Result {
	gridSizeDegrees := options.StepKm / kmPerDegree

	startCell := quantize(start, gridSizeDegrees)
	goalCell := quantize(goal, gridSizeDegrees)
	sigolo.Debugf("Wave propagation from cell %v back to cell %v", goalCell, startCell)

	maxCells := options.MaxIterations * waveCellsPerIteration

	queue := []gridCell{goalCell}
	visited := map[gridCell]bool{goalCell: true}
	parents := map[gridCell]gridCell{}

	processed := 0
	for len(queue) > 0 && processed < maxCells {
		processed++

		current := queue[0]
		queue = queue[1:]

		if current == startCell {
			sigolo.Debugf("Wave reached the start after %d processed cells (%d visited)", processed, len(visited))
			return newFoundResult(reconstructWavePath(parents, startCell, start, goal, gridSizeDegrees), iterationsFor(processed))
		}

		for _, neighbor := range neighborCells(current) {
			if visited[neighbor] {
				continue
			}

			position := dequantize(neighbor, gridSizeDegrees)
			if !isSafeWater(oracle, position, options.ClearanceKm) {
				continue
			}

			visited[neighbor] = true
			parents[neighbor] = current
			queue = append(queue, neighbor)
		}
	}

	status := StatusNoRoute
	if len(queue) > 0 {
		status = StatusBudgetExhausted
	}
	sigolo.Debugf("Wave ended with status %s after %d processed cells", status, processed)

	return &Result{
		Status:           status,
		DirectDistanceKm: geo.DistanceKm(start, goal),
		Iterations:       iterationsFor(processed),
	}
}

// reconstructWavePath walks the parent chain from the start cell back to the goal
// cell. The first and last waypoints are replaced with the exact endpoints so the
// route starts and ends where the caller asked for.
func reconstructWavePath(parents map[gridCell]gridCell, startCell gridCell, start geo.Coordinate, goal geo.Coordinate, gridSizeDegrees float64) []geo.Coordinate {
	waypoints := []geo.Coordinate{start}

	cell, ok := parents[startCell]
	for ok {
		waypoints = append(waypoints, dequantize(cell, gridSizeDegrees))
		cell, ok = parents[cell]
	}

	// The chain ends at the goal cell, which the exact goal replaces.
	if len(waypoints) > 1 {
		waypoints[len(waypoints)-1] = goal
	} else {
		waypoints = append(waypoints, goal)
	}

	return waypoints
}

func quantize(c geo.Coordinate, gridSizeDegrees float64) gridCell {
	return gridCell{
		Lat: int(roundHalfAway(c.Lat / gridSizeDegrees)),
		Lon: int(roundHalfAway(c.Lon / gridSizeDegrees)),
	}
}

func dequantize(cell gridCell, gridSizeDegrees float64) geo.Coordinate {
	return geo.Coordinate{
		Lat: float64(cell.Lat) * gridSizeDegrees,
		Lon: float64(cell.Lon) * gridSizeDegrees,
	}
}

func roundHalfAway(value float64) float64 {
	if value < 0 {
		return float64(int(value - 0.5))
	}
	return float64(int(value + 0.5))
}

// neighborCells returns the eight surrounding cells.
func neighborCells(cell gridCell) []gridCell {
	return []gridCell{
		{cell.Lat + 1, cell.Lon},
		{cell.Lat - 1, cell.Lon},
		{cell.Lat, cell.Lon + 1},
		{cell.Lat, cell.Lon - 1},
		{cell.Lat + 1, cell.Lon + 1},
		{cell.Lat + 1, cell.Lon - 1},
		{cell.Lat - 1, cell.Lon + 1},
		{cell.Lat - 1, cell.Lon - 1},
	}
}

func iterationsFor(processedCells int) int {
	return (processedCells + waveCellsPerIteration - 1) / waveCellsPerIteration
}
