package io

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"io"
	"os"
	"searoute/route"
)

// WriteRouteAsGeoJsonFile writes a found route to the given file as a GeoJSON
// FeatureCollection.
func WriteRouteAsGeoJsonFile(result *route.Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "unable to create GeoJSON file %s", filename)
	}

	defer func() {
		err = file.Close()
		sigolo.FatalCheck(errors.Wrapf(err, "Unable to close file handle for GeoJSON file %s", file.Name()))
	}()

	return WriteRouteAsGeoJson(result, file)
}

// WriteRouteAsGeoJson writes the route as a FeatureCollection holding one LineString
// along the waypoints plus one Point per waypoint. The route's key figures are
// attached as properties of the LineString feature.
func WriteRouteAsGeoJson(result *route.Result, writer io.Writer) error {
	if result.Status != route.StatusFound {
		return errors.Errorf("cannot write route with status %s as GeoJSON", result.Status)
	}

	lineString := make(orb.LineString, 0, len(result.Waypoints))
	for _, waypoint := range result.Waypoints {
		lineString = append(lineString, waypoint.Point())
	}

	routeFeature := geojson.NewFeature(lineString)
	routeFeature.Properties["status"] = result.Status.String()
	routeFeature.Properties["distance_km"] = result.DistanceKm
	routeFeature.Properties["direct_distance_km"] = result.DirectDistanceKm
	routeFeature.Properties["efficiency"] = result.Efficiency
	routeFeature.Properties["iterations"] = result.Iterations

	featureCollection := geojson.NewFeatureCollection()
	featureCollection.Append(routeFeature)
	for i, waypoint := range result.Waypoints {
		waypointFeature := geojson.NewFeature(waypoint.Point())
		waypointFeature.Properties["index"] = i
		featureCollection.Append(waypointFeature)
	}

	geojsonBytes, err := featureCollection.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "unable to marshal route")
	}

	_, err = writer.Write(geojsonBytes)
	return errors.Wrap(err, "unable to write route")
}
