// Package routing talks to an OSRM-compatible routing engine. Every route and
// distance starts and ends at the depot.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/ports"

	"github.com/pkg/errors"
)

const (
	codeOK      = "Ok"
	codeNoRoute = "NoRoute"
)

var ErrUnexpectedResponse = errors.New("unexpected routing response")

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

type tableResponse struct {
	Code      string       `json:"code"`
	Distances [][]*float64 `json:"distances"`
}

// Client implements ports.RoutingGateway over HTTP.
type Client struct {
	baseURL    string
	depot      kernel.GeoPoint
	httpClient *http.Client
}

// NewClient creates a routing engine client. Every route starts and ends at
// depot, and each request is bounded by timeout.
func NewClient(baseURL string, depot kernel.GeoPoint, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		depot:      depot,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// RouteForTour returns the depot round trip through points, in order.
// No points or an engine answering NoRoute gives a nil route.
func (c *Client) RouteForTour(ctx context.Context, points []kernel.GeoPoint) (*tour.Route, error) {
	if len(points) == 0 {
		return nil, nil
	}

	stops := make([]kernel.GeoPoint, 0, len(points)+2)
	stops = append(stops, c.depot)
	stops = append(stops, points...)
	stops = append(stops, c.depot)

	url := fmt.Sprintf("%s/route/v1/driving/%s?overview=full&geometries=polyline", c.baseURL, coordinates(stops))

	var body routeResponse
	if err := c.get(ctx, url, &body); err != nil {
		return nil, err
	}
	if body.Code == codeNoRoute {
		return nil, nil
	}
	if body.Code != codeOK || len(body.Routes) == 0 {
		return nil, errors.Wrapf(ErrUnexpectedResponse, "route code %q", body.Code)
	}

	best := body.Routes[0]
	route, err := tour.NewRoute(best.Geometry, best.Distance/1000, best.Duration/60)
	if err != nil {
		return nil, errors.Wrap(err, "routing route")
	}
	return route, nil
}

// BatchDistances asks for one depot-to-many distance table. Unreachable
// waypoints are missing from the result.
func (c *Client) BatchDistances(ctx context.Context, waypoints []ports.Waypoint) (map[string]float64, error) {
	result := make(map[string]float64, len(waypoints))
	if len(waypoints) == 0 {
		return result, nil
	}

	stops := make([]kernel.GeoPoint, 0, len(waypoints)+1)
	stops = append(stops, c.depot)
	for _, w := range waypoints {
		stops = append(stops, w.Point)
	}

	url := fmt.Sprintf("%s/table/v1/driving/%s?sources=0&annotations=distance", c.baseURL, coordinates(stops))

	var body tableResponse
	if err := c.get(ctx, url, &body); err != nil {
		return nil, err
	}
	if body.Code != codeOK || len(body.Distances) != 1 || len(body.Distances[0]) != len(stops) {
		return nil, errors.Wrapf(ErrUnexpectedResponse, "table code %q", body.Code)
	}

	for i, w := range waypoints {
		if meters := body.Distances[0][i+1]; meters != nil {
			result[w.ID] = *meters / 1000
		}
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "routing request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "routing call")
	}
	defer resp.Body.Close()

	// OSRM answers NoRoute with 400 and a JSON body.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return errors.Wrapf(ErrUnexpectedResponse, "status %d", resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "routing decode")
	}
	return nil
}

// coordinates renders points as "lon,lat;lon,lat".
func coordinates(points []kernel.GeoPoint) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, fmt.Sprintf("%.6f,%.6f", p.Lon(), p.Lat()))
	}
	return strings.Join(parts, ";")
}
