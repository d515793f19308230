package main

import (
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"
	"searoute/geo"
	"searoute/importing"
	ownIo "searoute/io"
	"searoute/land"
	"searoute/route"
	"searoute/web"
	"strings"
)

const VERSION = "v0.1.0"

var cli struct {
	Logging  string      `help:"Logging verbosity." enum:"info,debug,trace" short:"l" default:"info"`
	Version  VersionFlag `help:"Print version information and quit" name:"version" short:"v"`
	Data     string      `help:"Path to the land polygon dataset (.shp or .geojson)." short:"d" default:"land-polygons/land_polygons.shp"`
	CacheDir string      `help:"Directory for cached clipped polygon sets. Empty disables caching." default:"cache"`
	Check    struct {
		Lat float64 `help:"Latitude in decimal degrees." arg:""`
		Lon float64 `help:"Longitude in decimal degrees." arg:""`
	} `cmd:"" help:"Checks whether the given coordinate is on land or at sea."`
	Route struct {
		StartLat      float64 `help:"Start latitude." arg:""`
		StartLon      float64 `help:"Start longitude." arg:""`
		GoalLat       float64 `help:"Goal latitude." arg:""`
		GoalLon       float64 `help:"Goal longitude." arg:""`
		Step          float64 `help:"Length of one search step in km." default:"10"`
		Clearance     float64 `help:"Minimum distance to any coastline in km." default:"10"`
		MaxIterations int     `help:"Search iteration budget." default:"1000"`
		Wave          bool    `help:"Use the wave propagation strategy instead of the branching search."`
		Output        string  `help:"GeoJSON output file for the found route." default:"route.geojson"`
	} `cmd:"" help:"Finds a sea route between two coordinates."`
	Import struct {
		Input  string `help:"The input file. Either .osm or .osm.pbf." placeholder:"<input-file>" arg:"" type:"existingfile"`
		Output string `help:"The GeoJSON dataset file to write." placeholder:"<output-file>" arg:""`
	} `cmd:"" help:"Builds a land polygon dataset from the coastlines of an OSM extract."`
	Server struct {
		Port string `help:"Port to listen on." default:"8080"`
	} `cmd:"" help:"Serves the check and route operations over HTTP."`
}

// checkClipMarginKm is the margin around the queried coordinates when clipping the
// dataset for one-shot CLI calls.
const checkClipMarginKm = 200.0

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("searoute"),
		kong.Description("An offline land/sea checker and coastline-aware maritime route planner based on OSM land polygons."),
		kong.Vars{
			"version": VERSION,
		},
	)

	if strings.ToLower(cli.Logging) == "debug" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	} else if strings.ToLower(cli.Logging) == "trace" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	} else if strings.ToLower(cli.Logging) == "info" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	} else {
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", cli.Logging)
	}

	switch ctx.Command() {
	case "check <lat> <lon>":
		runCheck()
	case "route <start-lat> <start-lon> <goal-lat> <goal-lon>":
		runRoute()
	case "import <input> <output>":
		err := importing.Import(cli.Import.Input, cli.Import.Output)
		sigolo.FatalCheck(err)
	case "server":
		landIndex, err := land.Load(cli.Data, land.LoadOptions{CacheDir: cli.CacheDir})
		sigolo.FatalCheck(err)
		web.StartServer(cli.Server.Port, landIndex)
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
	}
}

func runCheck() {
	coordinate, err := geo.NewCoordinate(cli.Check.Lat, cli.Check.Lon)
	sigolo.FatalCheck(err)

	clipBound := land.BoundForRoute(coordinate, coordinate, checkClipMarginKm)
	landIndex, err := land.Load(cli.Data, land.LoadOptions{Bound: &clipBound, CacheDir: cli.CacheDir})
	sigolo.FatalCheck(err)

	if landIndex.IsLand(coordinate) {
		fmt.Printf("%s is on land\n", coordinate)
	} else {
		fmt.Printf("%s is at sea\n", coordinate)
	}
}

func runRoute() {
	start, err := geo.NewCoordinate(cli.Route.StartLat, cli.Route.StartLon)
	sigolo.FatalCheck(err)
	goal, err := geo.NewCoordinate(cli.Route.GoalLat, cli.Route.GoalLon)
	sigolo.FatalCheck(err)

	options := route.DefaultOptions()
	options.StepKm = cli.Route.Step
	options.ClearanceKm = cli.Route.Clearance
	options.MaxIterations = cli.Route.MaxIterations
	if cli.Route.Wave {
		options.Strategy = route.StrategyWave
	}

	clipBound := land.BoundForRoute(start, goal, clipMarginKm(options.ClearanceKm))
	landIndex, err := land.Load(cli.Data, land.LoadOptions{Bound: &clipBound, CacheDir: cli.CacheDir})
	sigolo.FatalCheck(err)

	result, err := route.Plan(landIndex, start, goal, options)
	sigolo.FatalCheck(err)

	switch result.Status {
	case route.StatusFound:
		fmt.Printf("Found a route with %d waypoints, %.1f km long (direct distance %.1f km, efficiency %.1f%%)\n",
			len(result.Waypoints), result.DistanceKm, result.DirectDistanceKm, result.Efficiency)
		for _, waypoint := range result.Waypoints {
			fmt.Printf("  %s\n", waypoint)
		}
		err = ownIo.WriteRouteAsGeoJsonFile(result, cli.Route.Output)
		sigolo.FatalCheck(err)
	case route.StatusNoRoute:
		fmt.Println("No route found: all search branches dead-ended.")
	case route.StatusBudgetExhausted:
		fmt.Printf("No route found within %d iterations. Try raising --max-iterations.\n", options.MaxIterations)
	}
}

// clipMarginKm sizes the dataset clip margin around a route the same way the planner
// sizes its detours: generous enough that a detour never leaves the clipped region.
func clipMarginKm(clearanceKm float64) float64 {
	margin := 5 * clearanceKm
	if margin < checkClipMarginKm {
		margin = checkClipMarginKm
	}
	return margin
}
