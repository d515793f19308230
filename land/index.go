// Package land answers land/sea membership and coastline-proximity queries against an
// immutable set of land polygons. The polygon set is loaded once, indexed by an R-tree
// and then shared read-only, so all queries are cheap, deterministic and safe for
// concurrent use without locking.
package land

import (
	"github.com/dhconnelly/rtreego"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"math"
	"searoute/geo"
	"time"
)

// FarAway is the sentinel distance returned when no coastline lies within the search
// window of a distance query. Callers comparing against a clearance treat it as
// "clearance satisfied".
var FarAway = math.Inf(1)

// Mean length of one degree of latitude. Longitude degrees are scaled by the cosine of
// the latitude where needed.
const kmPerDegree = 111.195

// R-tree rects must have non-zero extent, so degenerate bounds get padded by this.
const boundEpsilon = 0.0001

type Index struct {
	polygons []orb.Polygon
	rtree    *rtreego.Rtree
}

// indexedPolygon wraps one land polygon for R-tree storage.
type indexedPolygon struct {
	polygon orb.Polygon
	bound   orb.Bound
}

// Bounds implements the rtreego.Spatial interface.
func (p *indexedPolygon) Bounds() rtreego.Rect {
	return rectForBound(p.bound)
}

func rectForBound(bound orb.Bound) rtreego.Rect {
	lonLength := bound.Max[0] - bound.Min[0]
	latLength := bound.Max[1] - bound.Min[1]
	if lonLength < boundEpsilon {
		lonLength = boundEpsilon
	}
	if latLength < boundEpsilon {
		latLength = boundEpsilon
	}

	rect, _ := rtreego.NewRect(rtreego.Point{bound.Min[0], bound.Min[1]}, []float64{lonLength, latLength})
	return rect
}

// NewFromPolygons builds an index over the given polygons. The slice is taken over by
// the index and must not be mutated afterwards.
func NewFromPolygons(polygons []orb.Polygon) *Index {
	buildStartTime := time.Now()

	rtree := rtreego.NewTree(2, 25, 50)
	for i := range polygons {
		rtree.Insert(&indexedPolygon{
			polygon: polygons[i],
			bound:   polygons[i].Bound(),
		})
	}

	sigolo.Debugf("Built R-tree over %d land polygons in %s", len(polygons), time.Since(buildStartTime))

	return &Index{
		polygons: polygons,
		rtree:    rtree,
	}
}

// PolygonCount returns the number of indexed land polygons.
func (i *Index) PolygonCount() int {
	return len(i.polygons)
}

// IsLand returns true iff the coordinate lies within or on the boundary of any land
// polygon.
func (i *Index) IsLand(c geo.Coordinate) bool {
	point := c.Point()

	for _, spatial := range i.candidatesAround(point, boundEpsilon, boundEpsilon) {
		candidate := spatial.(*indexedPolygon)
		if planar.PolygonContains(candidate.polygon, point) {
			return true
		}
	}

	return false
}

// DistanceToCoastKm returns the minimum distance from the coordinate to the nearest
// polygon boundary among polygons within a window of maxKm around the point. When no
// polygon intersects the window, FarAway is returned instead of scanning the whole
// dataset. A point on land has distance 0.
func (i *Index) DistanceToCoastKm(c geo.Coordinate, maxKm float64) float64 {
	point := c.Point()

	latWindow := maxKm / kmPerDegree
	lonScale := math.Cos(c.Lat * math.Pi / 180.0)
	if lonScale < 0.01 {
		// Close to the poles a longitude window in degrees degenerates. Fall back to
		// the full longitude range.
		lonScale = 0.01
	}
	lonWindow := maxKm / (kmPerDegree * lonScale)

	candidates := i.candidatesAround(point, lonWindow, latWindow)
	if len(candidates) == 0 {
		return FarAway
	}

	minDistance := FarAway
	for _, spatial := range candidates {
		candidate := spatial.(*indexedPolygon)
		if planar.PolygonContains(candidate.polygon, point) {
			return 0
		}
		for _, ring := range candidate.polygon {
			distance := distanceToRingKm(ring, point)
			if distance < minDistance {
				minDistance = distance
			}
		}
	}

	return minDistance
}

// IsSafeWater returns true iff the coordinate is sea and keeps at least clearanceKm
// distance to every coastline.
func (i *Index) IsSafeWater(c geo.Coordinate, clearanceKm float64) bool {
	if i.IsLand(c) {
		return false
	}
	return i.DistanceToCoastKm(c, clearanceKm) >= clearanceKm
}

func (i *Index) candidatesAround(point orb.Point, lonWindow float64, latWindow float64) []rtreego.Spatial {
	rect, _ := rtreego.NewRect(
		rtreego.Point{point[0] - lonWindow, point[1] - latWindow},
		[]float64{2 * lonWindow, 2 * latWindow},
	)
	return i.rtree.SearchIntersect(rect)
}

// distanceToRingKm computes the planar distance from the point to the nearest ring
// segment, using an equirectangular projection centered on the query point. This local
// approximation is accurate at the scale of clearance windows (tens of km).
func distanceToRingKm(ring orb.Ring, point orb.Point) float64 {
	lonScale := kmPerDegree * math.Cos(point[1]*math.Pi/180.0)
	latScale := kmPerDegree

	minDistance := math.Inf(1)
	for i := 0; i < len(ring)-1; i++ {
		ax := (ring[i][0] - point[0]) * lonScale
		ay := (ring[i][1] - point[1]) * latScale
		bx := (ring[i+1][0] - point[0]) * lonScale
		by := (ring[i+1][1] - point[1]) * latScale

		distance := distanceToSegment(ax, ay, bx, by)
		if distance < minDistance {
			minDistance = distance
		}
	}

	return minDistance
}

// distanceToSegment returns the distance from the origin to the segment (ax,ay)-(bx,by).
func distanceToSegment(ax float64, ay float64, bx float64, by float64) float64 {
	dx := bx - ax
	dy := by - ay

	if dx == 0 && dy == 0 {
		return math.Hypot(ax, ay)
	}

	t := -(ax*dx + ay*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return math.Hypot(ax+t*dx, ay+t*dy)
}
