// Package route finds maritime routes between two sea coordinates that avoid land and
// keep a configured clearance distance to every coastline. The planner only talks to
// the land dataset through the Oracle interface, so any point-in-land and
// distance-to-coast implementation can back it.
package route

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"searoute/geo"
	"time"
)

// ErrStartOrGoalOnLand is returned when an endpoint of the requested route is on land
// or closer to a coastline than the configured clearance.
var ErrStartOrGoalOnLand = errors.New("route endpoint is not in safe water")

// Oracle is the geometric oracle the planner queries for every candidate waypoint.
// Implementations must be deterministic and safe for concurrent use. land.Index
// satisfies this interface.
type Oracle interface {
	IsLand(c geo.Coordinate) bool

	// DistanceToCoastKm returns the distance to the nearest coastline among polygons
	// within maxKm around the point, or a value >= maxKm (e.g. +Inf) when there is
	// none.
	DistanceToCoastKm(c geo.Coordinate, maxKm float64) float64
}

// Strategy selects the search algorithm.
type Strategy int

const (
	// StrategyBranching is the bidirectional branching greedy search: two candidates
	// with opposite lateral bias walk towards the goal and slide around obstacles.
	StrategyBranching Strategy = iota

	// StrategyWave floods a quantized grid outward from the goal (BFS) and back-tracks
	// the first wave front that reaches the start. Slower, but the resulting route is
	// shortest in grid steps.
	StrategyWave
)

type Options struct {
	// StepKm is the length of one search step. Default 10.
	StepKm float64

	// ClearanceKm is the minimum distance every waypoint keeps to any coastline.
	// Default 10.
	ClearanceKm float64

	// MaxIterations is the search iteration budget. Default 1000.
	MaxIterations int

	// RotationStepDegrees is the bearing increment of the rotation sweep when a step
	// is blocked. Default 10.
	RotationStepDegrees float64

	// MaxRotationAttempts bounds the rotation sweep per step. With the defaults a
	// candidate sweeps at most 170° away from the goal bearing before dead-ending.
	// Default 17.
	MaxRotationAttempts int

	// ShortcutInterval is the number of iterations between direct-path checks from
	// each candidate tip to the goal. Default 5.
	ShortcutInterval int

	// MergeDistanceKm is the tip proximity below which two candidates are considered
	// converged and the longer one is discarded. Default: StepKm.
	MergeDistanceKm float64

	Strategy Strategy
}

func DefaultOptions() Options {
	return Options{
		StepKm:              10,
		ClearanceKm:         10,
		MaxIterations:       1000,
		RotationStepDegrees: 10,
		MaxRotationAttempts: 17,
		ShortcutInterval:    5,
		Strategy:            StrategyBranching,
	}
}

// withDefaults fills unset fields so that a partially filled Options value behaves
// like DefaultOptions.
func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.StepKm <= 0 {
		o.StepKm = defaults.StepKm
	}
	if o.ClearanceKm <= 0 {
		o.ClearanceKm = defaults.ClearanceKm
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaults.MaxIterations
	}
	if o.RotationStepDegrees <= 0 {
		o.RotationStepDegrees = defaults.RotationStepDegrees
	}
	if o.MaxRotationAttempts <= 0 {
		o.MaxRotationAttempts = defaults.MaxRotationAttempts
	}
	if o.ShortcutInterval <= 0 {
		o.ShortcutInterval = defaults.ShortcutInterval
	}
	if o.MergeDistanceKm <= 0 {
		o.MergeDistanceKm = o.StepKm
	}
	return o
}

// Plan finds a route from start to goal over sea. Validation errors (invalid
// coordinates, endpoints on land) are returned as errors, a search that ends without a
// route is a regular result with the corresponding status.
func Plan(oracle Oracle, start geo.Coordinate, goal geo.Coordinate, options Options) (*Result, error) {
	options = options.withDefaults()

	if err := start.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid start coordinate")
	}
	if err := goal.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid goal coordinate")
	}

	if err := validateEndpoint(oracle, start, "start", options.ClearanceKm); err != nil {
		return nil, err
	}
	if err := validateEndpoint(oracle, goal, "goal", options.ClearanceKm); err != nil {
		return nil, err
	}

	sigolo.Debugf("Plan route %s -> %s (step=%.1fkm, clearance=%.1fkm, maxIterations=%d)",
		start, goal, options.StepKm, options.ClearanceKm, options.MaxIterations)
	planStartTime := time.Now()

	var result *Result
	if options.Strategy == StrategyWave {
		result = planWave(oracle, start, goal, options)
	} else {
		result = planBranching(oracle, start, goal, options)
	}

	sigolo.Debugf("Search ended with status %s after %d iterations in %s", result.Status, result.Iterations, time.Since(planStartTime))
	return result, nil
}

func validateEndpoint(oracle Oracle, c geo.Coordinate, name string, clearanceKm float64) error {
	if oracle.IsLand(c) {
		return errors.Wrapf(ErrStartOrGoalOnLand, "%s %s is on land", name, c)
	}
	if oracle.DistanceToCoastKm(c, clearanceKm) < clearanceKm {
		return errors.Wrapf(ErrStartOrGoalOnLand, "%s %s is closer than %.1f km to the coastline", name, c, clearanceKm)
	}
	return nil
}

func planBranching(oracle Oracle, start geo.Coordinate, goal geo.Coordinate, options Options) *Result {
	// Trivial case: start and goal see each other directly.
	if segmentIsClear(oracle, start, goal, options) {
		return newFoundResult([]geo.Coordinate{start, goal}, 0)
	}

	candidates := []*candidate{
		newCandidate(BiasLeft, start),
		newCandidate(BiasRight, start),
	}

	for iteration := 1; iteration <= options.MaxIterations; iteration++ {
		for _, c := range candidates {
			if c.state != StateAdvancing {
				continue
			}

			advance(oracle, c, goal, options)
			if c.state == StateComplete {
				return newFoundResult(c.points, iteration)
			}
		}

		if iteration%options.ShortcutInterval == 0 {
			for _, c := range candidates {
				if c.state != StateAdvancing {
					continue
				}
				if segmentIsClear(oracle, c.tip(), goal, options) {
					c.extend(goal)
					c.state = StateComplete
					sigolo.Tracef("Candidate %s shortcuts to the goal at iteration %d", c.bias, iteration)
					return newFoundResult(c.points, iteration)
				}
			}
		}

		mergeConvergedCandidates(candidates, options)

		if countAdvancing(candidates) == 0 {
			sigolo.Debugf("All candidates are terminal after %d iterations", iteration)
			return &Result{
				Status:           StatusNoRoute,
				DirectDistanceKm: geo.DistanceKm(start, goal),
				Iterations:       iteration,
			}
		}
	}

	return &Result{
		Status:           StatusBudgetExhausted,
		DirectDistanceKm: geo.DistanceKm(start, goal),
		Iterations:       options.MaxIterations,
	}
}

// advance tries to extend the candidate by one step towards the goal. When the direct
// step violates land or clearance, the bearing is rotated incrementally towards the
// candidate's lateral bias until a safe step is found. The candidate dead-ends when
// the whole sweep is blocked.
func advance(oracle Oracle, c *candidate, goal geo.Coordinate, options Options) {
	tip := c.tip()
	goalBearing := geo.BearingDegrees(tip, goal)

	for attempt := 0; attempt <= options.MaxRotationAttempts; attempt++ {
		bearing := goalBearing + c.bias.rotationSign()*float64(attempt)*options.RotationStepDegrees
		next := geo.PointAtBearing(tip, bearing, options.StepKm)

		if !isSafeWater(oracle, next, options.ClearanceKm) {
			continue
		}

		if attempt > 0 {
			c.diverged = true
		}
		c.extend(next)

		// Arrived within one step of the goal and the last leg is clear, so the
		// candidate is done.
		if geo.DistanceKm(next, goal) <= options.StepKm && segmentIsClear(oracle, next, goal, options) {
			c.extend(goal)
			c.state = StateComplete
		}
		return
	}

	sigolo.Tracef("Candidate %s dead-ends at %s", c.bias, tip)
	c.state = StateDeadEnd
}

// mergeConvergedCandidates discards the longer of two advancing candidates whose tips
// are within the merge distance. Both sides found the same opening, exploring it twice
// is redundant. Candidates that never left the direct goal bearing are skipped, their
// tips still coincide trivially.
func mergeConvergedCandidates(candidates []*candidate, options Options) {
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if a.state != StateAdvancing || b.state != StateAdvancing {
				continue
			}
			if !a.diverged && !b.diverged {
				continue
			}
			if geo.DistanceKm(a.tip(), b.tip()) > options.MergeDistanceKm {
				continue
			}

			longer := a
			if b.lengthKm > a.lengthKm {
				longer = b
			}
			longer.state = StateMerged
			sigolo.Tracef("Candidates converged, discarding the longer %s path (%.1f km)", longer.bias, longer.lengthKm)
		}
	}
}

func countAdvancing(candidates []*candidate) int {
	count := 0
	for _, c := range candidates {
		if c.state == StateAdvancing {
			count++
		}
	}
	return count
}

// segmentIsClear checks whether the straight segment between two coordinates is
// entirely safe water, sampled at step-length intervals including both endpoints.
func segmentIsClear(oracle Oracle, from geo.Coordinate, to geo.Coordinate, options Options) bool {
	totalDistance := geo.DistanceKm(from, to)
	bearing := geo.BearingDegrees(from, to)

	steps := int(totalDistance/options.StepKm) + 1
	for i := 0; i <= steps; i++ {
		progress := float64(i) / float64(steps)
		sample := geo.PointAtBearing(from, bearing, totalDistance*progress)
		if !isSafeWater(oracle, sample, options.ClearanceKm) {
			return false
		}
	}

	return true
}

func isSafeWater(oracle Oracle, c geo.Coordinate, clearanceKm float64) bool {
	if c.Validate() != nil {
		return false
	}
	if oracle.IsLand(c) {
		return false
	}
	return oracle.DistanceToCoastKm(c, clearanceKm) >= clearanceKm
}
