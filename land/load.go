package land

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"os"
	"searoute/geo"
	"strings"
	"time"
)

// ErrDataUnavailable is returned when the land polygon dataset is missing or corrupt.
// Construction is not retried, callers are expected to treat this as fatal.
var ErrDataUnavailable = errors.New("land polygon dataset unavailable")

type LoadOptions struct {
	// Bound restricts the loaded polygons to those whose bounding box intersects it.
	// Nil loads the full dataset.
	Bound *orb.Bound

	// CacheDir enables an on-disk GeoJSON cache of clipped polygon sets. Only used
	// when Bound is set. Empty disables caching.
	CacheDir string
}

// BoundForRoute returns the bounding box containing both endpoints of a route plus a
// margin on every side.
func BoundForRoute(start geo.Coordinate, goal geo.Coordinate, marginKm float64) orb.Bound {
	marginDegrees := marginKm / kmPerDegree

	bound := orb.Bound{
		Min: orb.Point{
			minFloat(start.Lon, goal.Lon) - marginDegrees,
			minFloat(start.Lat, goal.Lat) - marginDegrees,
		},
		Max: orb.Point{
			maxFloat(start.Lon, goal.Lon) + marginDegrees,
			maxFloat(start.Lat, goal.Lat) + marginDegrees,
		},
	}
	return bound
}

// Load reads the land polygon dataset at the given path (either a shapefile or a
// GeoJSON file) and builds the spatial index over it. When options contain a bound,
// only polygons intersecting it are kept, which makes queries over regional routes
// cheap even with the global dataset on disk.
func Load(path string, options LoadOptions) (*Index, error) {
	loadStartTime := time.Now()

	if options.Bound != nil && options.CacheDir != "" {
		polygons, err := loadCachedPolygons(options.CacheDir, *options.Bound)
		if err == nil {
			sigolo.Infof("Loaded %d land polygons from cache in %s", len(polygons), time.Since(loadStartTime))
			return NewFromPolygons(polygons), nil
		}
		sigolo.Debugf("No usable cache entry, reading dataset: %v", err)
	}

	var polygons []orb.Polygon
	var err error
	switch {
	case strings.HasSuffix(path, ".shp"):
		polygons, err = readShapefile(path, options.Bound)
	case strings.HasSuffix(path, ".geojson") || strings.HasSuffix(path, ".json"):
		polygons, err = readGeoJsonFile(path, options.Bound)
	default:
		return nil, errors.Wrapf(ErrDataUnavailable, "unsupported dataset format '%s'", path)
	}
	if err != nil {
		return nil, err
	}

	sigolo.Infof("Loaded %d land polygons from %s in %s", len(polygons), path, time.Since(loadStartTime))

	if options.Bound != nil && options.CacheDir != "" {
		saveCachedPolygons(options.CacheDir, *options.Bound, polygons)
	}

	return NewFromPolygons(polygons), nil
}

func readShapefile(path string, bound *orb.Bound) ([]orb.Polygon, error) {
	// shp.Open also needs the .shx companion file and fails when it's missing.
	reader, err := shp.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrDataUnavailable, "unable to open shapefile %s: %v", path, err)
	}
	defer reader.Close()

	var polygons []orb.Polygon
	scanned := 0

	for reader.Next() {
		scanned++
		_, shape := reader.Shape()

		shapePolygon, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		if bound != nil && !boxIntersectsBound(shapePolygon.Box, *bound) {
			continue
		}

		polygon := shapePolygonToOrb(shapePolygon)
		if len(polygon) == 0 {
			continue
		}
		polygons = append(polygons, polygon)

		if scanned%50000 == 0 {
			sigolo.Debugf("Scanned %d shapes, kept %d in region", scanned, len(polygons))
		}
	}

	if err = reader.Err(); err != nil {
		return nil, errors.Wrapf(ErrDataUnavailable, "error reading shapefile %s: %v", path, err)
	}

	return polygons, nil
}

// shapePolygonToOrb converts the parts of a shapefile polygon into orb rings. The
// first part is the outer ring, all further parts are treated as holes. Rings with
// fewer than three distinct points are dropped.
func shapePolygonToOrb(shapePolygon *shp.Polygon) orb.Polygon {
	var polygon orb.Polygon

	for partIndex, start := range shapePolygon.Parts {
		end := int32(len(shapePolygon.Points))
		if partIndex < len(shapePolygon.Parts)-1 {
			end = shapePolygon.Parts[partIndex+1]
		}

		if end-start < 3 {
			continue
		}

		ring := make(orb.Ring, 0, end-start+1)
		for _, point := range shapePolygon.Points[start:end] {
			ring = append(ring, orb.Point{point.X, point.Y})
		}
		if ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}

		polygon = append(polygon, ring)
	}

	return polygon
}

func readGeoJsonFile(path string, bound *orb.Bound) ([]orb.Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrDataUnavailable, "unable to read GeoJSON dataset %s: %v", path, err)
	}

	featureCollection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(ErrDataUnavailable, "corrupt GeoJSON dataset %s: %v", path, err)
	}

	var polygons []orb.Polygon
	for _, feature := range featureCollection.Features {
		for _, polygon := range polygonsOfGeometry(feature.Geometry) {
			if bound != nil && !polygon.Bound().Intersects(*bound) {
				continue
			}
			polygons = append(polygons, polygon)
		}
	}

	return polygons, nil
}

func polygonsOfGeometry(geometry orb.Geometry) []orb.Polygon {
	switch g := geometry.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return g
	}
	return nil
}

func boxIntersectsBound(box shp.Box, bound orb.Bound) bool {
	return box.MinX <= bound.Max[0] && box.MaxX >= bound.Min[0] &&
		box.MinY <= bound.Max[1] && box.MaxY >= bound.Min[1]
}

func minFloat(a float64, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a float64, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
