package land

import (
	"crypto/md5"
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"os"
	"path"
)

// The cache persists a clipped polygon set as GeoJSON so that repeated planning runs
// over the same region skip scanning the full dataset. Entries are keyed by the clip
// bound. A corrupt or unreadable entry is rebuilt, never trusted.

func cacheFilePath(cacheDir string, bound orb.Bound) string {
	boundKey := fmt.Sprintf("%.4f_%.4f_%.4f_%.4f", bound.Min[1], bound.Min[0], bound.Max[1], bound.Max[0])
	hash := fmt.Sprintf("%x", md5.Sum([]byte(boundKey)))[:12]
	return path.Join(cacheDir, fmt.Sprintf("polygons_%s.geojson", hash))
}

func loadCachedPolygons(cacheDir string, bound orb.Bound) ([]orb.Polygon, error) {
	cachePath := cacheFilePath(cacheDir, bound)

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read cache file %s", cachePath)
	}

	featureCollection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupt cache file %s", cachePath)
	}

	var polygons []orb.Polygon
	for _, feature := range featureCollection.Features {
		polygons = append(polygons, polygonsOfGeometry(feature.Geometry)...)
	}

	return polygons, nil
}

// saveCachedPolygons writes the clipped polygon set to the cache. Failures only cost
// the next run a dataset scan, so they are logged and swallowed.
func saveCachedPolygons(cacheDir string, bound orb.Bound, polygons []orb.Polygon) {
	err := os.MkdirAll(cacheDir, 0755)
	if err != nil {
		sigolo.Warnf("Unable to create cache directory %s: %v", cacheDir, err)
		return
	}

	featureCollection := geojson.NewFeatureCollection()
	for _, polygon := range polygons {
		featureCollection.Append(geojson.NewFeature(polygon))
	}

	data, err := featureCollection.MarshalJSON()
	if err != nil {
		sigolo.Warnf("Unable to marshal polygon cache: %v", err)
		return
	}

	cachePath := cacheFilePath(cacheDir, bound)
	err = os.WriteFile(cachePath, data, 0644)
	if err != nil {
		sigolo.Warnf("Unable to write cache file %s: %v", cachePath, err)
		return
	}

	sigolo.Debugf("Saved %d polygons to cache file %s", len(polygons), cachePath)
}
