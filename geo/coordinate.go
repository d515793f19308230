package geo

import (
	"fmt"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

var ErrInvalidCoordinate = errors.New("coordinate outside valid WGS84 range")

// Coordinate is a WGS84 position in decimal degrees. Latitude must be within [-90, 90]
// and longitude within [-180, 180].
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat float64, lon float64) (Coordinate, error) {
	c := Coordinate{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return errors.Wrapf(ErrInvalidCoordinate, "lat=%f, lon=%f", c.Lat, c.Lon)
	}
	return nil
}

// Point returns the coordinate as orb point in (lon, lat) order.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

func FromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lon: p.Lon()}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Lat, c.Lon)
}
