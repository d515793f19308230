// Package web serves the land/sea check and the route planner over HTTP. The land
// index is built once at router creation and shared read-only across all requests.
package web

import (
	"encoding/json"
	"github.com/gorilla/mux"
	"github.com/hauke96/sigolo/v2"
	"net/http"
	"searoute/geo"
	ownIo "searoute/io"
	"searoute/land"
	"searoute/route"
	"strconv"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type CheckResponse struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Land bool    `json:"land"`
}

type RouteFailureResponse struct {
	Status     string `json:"status"`
	Iterations int    `json:"iterations"`
}

type RouteRequest struct {
	Start         geo.Coordinate `json:"start"`
	Goal          geo.Coordinate `json:"goal"`
	StepKm        float64        `json:"step,omitempty"`
	ClearanceKm   float64        `json:"clearance,omitempty"`
	MaxIterations int            `json:"max_iterations,omitempty"`
}

func StartServer(port string, landIndex *land.Index) {
	r := initRouter(landIndex)
	sigolo.Infof("Start server on port %s", port)
	err := http.ListenAndServe(":"+port, r)
	sigolo.FatalCheck(err)
}

func initRouter(landIndex *land.Index) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/check", func(writer http.ResponseWriter, request *http.Request) {
		handleCheck(writer, request, landIndex)
	}).Methods(http.MethodGet)
	r.HandleFunc("/route", func(writer http.ResponseWriter, request *http.Request) {
		handleRoute(writer, request, landIndex)
	}).Methods(http.MethodPost)
	return r
}

func handleCheck(writer http.ResponseWriter, request *http.Request, landIndex *land.Index) {
	writer.Header().Set("Content-Type", "application/json")

	coordinate, err := parseCoordinate(request.URL.Query().Get("lat"), request.URL.Query().Get("lon"))
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Invalid coordinate", err)
		return
	}

	sigolo.Debugf("Check %s", coordinate)
	writeJson(writer, CheckResponse{
		Lat:  coordinate.Lat,
		Lon:  coordinate.Lon,
		Land: landIndex.IsLand(coordinate),
	})
}

func handleRoute(writer http.ResponseWriter, request *http.Request, landIndex *land.Index) {
	writer.Header().Set("Content-Type", "application/json")

	var routeRequest RouteRequest
	err := json.NewDecoder(request.Body).Decode(&routeRequest)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	options := route.DefaultOptions()
	if routeRequest.StepKm > 0 {
		options.StepKm = routeRequest.StepKm
	}
	if routeRequest.ClearanceKm > 0 {
		options.ClearanceKm = routeRequest.ClearanceKm
	}
	if routeRequest.MaxIterations > 0 {
		options.MaxIterations = routeRequest.MaxIterations
	}

	result, err := route.Plan(landIndex, routeRequest.Start, routeRequest.Goal, options)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Unable to plan route", err)
		return
	}

	if result.Status != route.StatusFound {
		writeJson(writer, RouteFailureResponse{
			Status:     result.Status.String(),
			Iterations: result.Iterations,
		})
		return
	}

	err = ownIo.WriteRouteAsGeoJson(result, writer)
	if err != nil {
		sigolo.Errorf("Error writing route result: %+v", err)
		writeError(writer, http.StatusInternalServerError, "Error writing route result", err)
	}
}

func parseCoordinate(latParam string, lonParam string) (geo.Coordinate, error) {
	lat, err := strconv.ParseFloat(latParam, 64)
	if err != nil {
		return geo.Coordinate{}, err
	}
	lon, err := strconv.ParseFloat(lonParam, 64)
	if err != nil {
		return geo.Coordinate{}, err
	}
	return geo.NewCoordinate(lat, lon)
}

func writeJson(writer http.ResponseWriter, payload any) {
	err := json.NewEncoder(writer).Encode(payload)
	if err != nil {
		sigolo.Errorf("Error writing response: %+v", err)
	}
}

func writeError(writer http.ResponseWriter, status int, message string, err error) {
	sigolo.Errorf("%s: %+v", message, err)
	writer.WriteHeader(status)

	details := ""
	if err != nil {
		details = err.Error()
	}
	writeJson(writer, ErrorResponse{Error: message, Details: details})
}
