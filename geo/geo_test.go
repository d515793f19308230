package geo

import (
	"searoute/util"
	"testing"
)

func TestNewCoordinate_validRange(t *testing.T) {
	// Arrange & Act
	c, err := NewCoordinate(37.5665, 126.978)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 37.5665, c.Lat)
	util.AssertEqual(t, 126.978, c.Lon)
}

func TestNewCoordinate_invalidRange(t *testing.T) {
	invalidCoordinates := []Coordinate{
		{Lat: 90.1, Lon: 0},
		{Lat: -90.1, Lon: 0},
		{Lat: 0, Lon: 180.1},
		{Lat: 0, Lon: -180.1},
	}

	for _, c := range invalidCoordinates {
		_, err := NewCoordinate(c.Lat, c.Lon)
		util.AssertErrorIs(t, ErrInvalidCoordinate, err)
	}
}

func TestDistanceKm(t *testing.T) {
	// Arrange
	seoul := Coordinate{Lat: 37.5665, Lon: 126.978}
	busan := Coordinate{Lat: 35.1796, Lon: 129.0756}

	// Act
	distance := DistanceKm(seoul, busan)

	// Assert
	util.AssertApprox(t, 325.0, distance, 5.0)
	util.AssertEqual(t, 0.0, DistanceKm(seoul, seoul))
}

func TestBearingDegrees(t *testing.T) {
	origin := Coordinate{Lat: 0, Lon: 0}

	util.AssertApprox(t, 0.0, BearingDegrees(origin, Coordinate{Lat: 1, Lon: 0}), 0.1)
	util.AssertApprox(t, 90.0, BearingDegrees(origin, Coordinate{Lat: 0, Lon: 1}), 0.1)
	util.AssertApprox(t, 180.0, BearingDegrees(origin, Coordinate{Lat: -1, Lon: 0}), 0.1)
	util.AssertApprox(t, 270.0, BearingDegrees(origin, Coordinate{Lat: 0, Lon: -1}), 0.1)
}

func TestPointAtBearing_roundTrip(t *testing.T) {
	// Arrange
	start := Coordinate{Lat: 35.0, Lon: 129.0}

	// Act
	moved := PointAtBearing(start, 45, 10)

	// Assert
	util.AssertApprox(t, 10.0, DistanceKm(start, moved), 0.01)
	util.AssertApprox(t, 45.0, BearingDegrees(start, moved), 0.5)
}
