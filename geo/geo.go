// Package geo provides the spherical-earth primitives used by the land index and the
// route planner: great-circle distance, initial bearing and destination-point
// projection. All distances are kilometers, all angles decimal degrees.
package geo

import (
	"github.com/paulmach/orb/geo"
)

// DistanceKm returns the great-circle distance between two coordinates in kilometers
// (Haversine formula, spherical earth).
func DistanceKm(from Coordinate, to Coordinate) float64 {
	return geo.DistanceHaversine(from.Point(), to.Point()) / 1000.0
}

// BearingDegrees returns the initial bearing from one coordinate towards another,
// normalized to [0, 360).
func BearingDegrees(from Coordinate, to Coordinate) float64 {
	bearing := geo.Bearing(from.Point(), to.Point())
	if bearing < 0 {
		bearing += 360
	}
	return bearing
}

// PointAtBearing returns the coordinate reached by travelling the given distance along
// the given initial bearing on a great circle.
func PointAtBearing(from Coordinate, bearingDegrees float64, distanceKm float64) Coordinate {
	return FromPoint(geo.PointAtBearingAndDistance(from.Point(), bearingDegrees, distanceKm*1000.0))
}
