// Package importing builds a land polygon dataset from a raw OSM extract by
// assembling the natural=coastline ways into closed rings. The result is a GeoJSON
// file that land.Load can consume directly.
package importing

import (
	"context"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"os"
	"strings"
	"time"
)

func Import(inputFile string, outputFile string) error {
	if !strings.HasSuffix(inputFile, ".osm") && !strings.HasSuffix(inputFile, ".pbf") {
		return errors.Errorf("input file %s must be an .osm or .pbf file", inputFile)
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return errors.Wrapf(err, "unable to open input file %s", inputFile)
	}
	defer f.Close()

	var scanner osm.Scanner
	if strings.HasSuffix(inputFile, ".osm") {
		scanner = osmxml.New(context.Background(), f)
	} else {
		scanner = osmpbf.New(context.Background(), f, 1)
	}
	defer scanner.Close()

	sigolo.Debug("Start processing input data")
	importStartTime := time.Now()

	// Nodes appear before ways in OSM files, so one pass is enough when all node
	// positions are kept around until the coastline ways arrive.
	nodePositions := map[osm.NodeID]orb.Point{}
	var segments [][]orb.Point
	skippedWays := 0

	for scanner.Scan() {
		switch osmObj := scanner.Object().(type) {
		case *osm.Node:
			nodePositions[osmObj.ID] = orb.Point{osmObj.Lon, osmObj.Lat}
		case *osm.Way:
			if osmObj.Tags.Find("natural") != "coastline" {
				continue
			}

			segment, complete := resolveWayNodes(osmObj, nodePositions)
			if !complete {
				skippedWays++
				continue
			}
			segments = append(segments, segment)
		}
	}
	if err = scanner.Err(); err != nil {
		return errors.Wrapf(err, "error scanning input file %s", inputFile)
	}

	if skippedWays > 0 {
		sigolo.Warnf("Skipped %d coastline ways referencing nodes outside the extract", skippedWays)
	}
	sigolo.Debugf("Collected %d coastline ways in %s", len(segments), time.Since(importStartTime))

	rings, openChains := assembleRings(segments)
	if openChains > 0 {
		sigolo.Warnf("Dropped %d open coastline chains (coastline clipped by the extract boundary)", openChains)
	}
	sigolo.Infof("Assembled %d closed land polygons from %d coastline ways", len(rings), len(segments))

	return writePolygons(rings, outputFile)
}

func resolveWayNodes(way *osm.Way, nodePositions map[osm.NodeID]orb.Point) ([]orb.Point, bool) {
	segment := make([]orb.Point, 0, len(way.Nodes))
	for _, wayNode := range way.Nodes {
		position, ok := nodePositions[wayNode.ID]
		if !ok {
			return nil, false
		}
		segment = append(segment, position)
	}
	return segment, len(segment) >= 2
}

// assembleRings chains coastline segments end-to-end into closed rings. Segments whose
// direction doesn't match the chain tip are reversed, so the input order and
// orientation don't matter. Chains that cannot be closed (coastline leaving the
// extract) are dropped and counted.
func assembleRings(segments [][]orb.Point) ([]orb.Ring, int) {
	pending := make([][]orb.Point, len(segments))
	copy(pending, segments)

	var rings []orb.Ring
	openChains := 0

	for len(pending) > 0 {
		chain := pending[0]
		pending = pending[1:]

		for {
			if len(chain) >= 4 && chain[0] == chain[len(chain)-1] {
				rings = append(rings, orb.Ring(chain))
				break
			}

			next := findConnectingSegment(chain[len(chain)-1], pending)
			if next == -1 {
				openChains++
				break
			}

			segment := pending[next]
			pending = append(pending[:next], pending[next+1:]...)
			if segment[len(segment)-1] == chain[len(chain)-1] {
				segment = reverseSegment(segment)
			}
			chain = append(chain, segment[1:]...)
		}
	}

	return rings, openChains
}

// findConnectingSegment returns the index of a pending segment that starts or ends at
// the given tip, or -1.
func findConnectingSegment(tip orb.Point, pending [][]orb.Point) int {
	for i, segment := range pending {
		if segment[0] == tip || segment[len(segment)-1] == tip {
			return i
		}
	}
	return -1
}

func reverseSegment(segment []orb.Point) []orb.Point {
	reversed := make([]orb.Point, len(segment))
	for i, point := range segment {
		reversed[len(segment)-1-i] = point
	}
	return reversed
}

func writePolygons(rings []orb.Ring, outputFile string) error {
	featureCollection := geojson.NewFeatureCollection()
	for _, ring := range rings {
		featureCollection.Append(geojson.NewFeature(orb.Polygon{ring}))
	}

	data, err := featureCollection.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "unable to marshal land polygons")
	}

	err = os.WriteFile(outputFile, data, 0644)
	if err != nil {
		return errors.Wrapf(err, "unable to write dataset file %s", outputFile)
	}

	sigolo.Infof("Wrote %d land polygons to %s", len(rings), outputFile)
	return nil
}
