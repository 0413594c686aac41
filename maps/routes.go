package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type routeLocation struct {
	Location struct {
		LatLng struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"latLng"`
	} `json:"location"`
}

func newRouteLocation(p LatLng) routeLocation {
	var l routeLocation
	l.Location.LatLng.Latitude = p.Lat
	l.Location.LatLng.Longitude = p.Lng
	return l
}

type computeRoutesRequest struct {
	Origin                   routeLocation `json:"origin"`
	Destination              routeLocation `json:"destination"`
	TravelMode               string        `json:"travelMode"`
	RoutingPreference        string        `json:"routingPreference"`
	ComputeAlternativeRoutes bool          `json:"computeAlternativeRoutes"`
	Units                    string        `json:"units"`
	LanguageCode             string        `json:"languageCode"`
}

type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters int `json:"distanceMeters"`
	} `json:"routes"`
}

type routesClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewRouter returns a Routes API (computeRoutes) client. An empty baseURL
// uses the public endpoint.
func NewRouter(baseURL, apiKey string, httpClient *http.Client) Router {
	if baseURL == "" {
		baseURL = DefaultRoutesURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &routesClient{baseURL: baseURL, apiKey: apiKey, http: httpClient}
}

func (c *routesClient) DrivingDistance(ctx context.Context, origin, destination LatLng) (int, error) {
	ctx, span := otel.Tracer("maps").Start(ctx, "Router.DrivingDistance")
	defer span.End()

	meters, err := c.drivingDistance(ctx, origin, destination)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.Int("maps.distance_meters", meters))
	return meters, nil
}

func (c *routesClient) drivingDistance(ctx context.Context, origin, destination LatLng) (int, error) {
	if c.apiKey == "" {
		return 0, fmt.Errorf("%w: GOOGLE_MAPS_API_KEY is not set", ErrConfiguration)
	}

	payload, err := json.Marshal(computeRoutesRequest{
		Origin:                   newRouteLocation(origin),
		Destination:              newRouteLocation(destination),
		TravelMode:               "DRIVE",
		RoutingPreference:        "TRAFFIC_AWARE",
		ComputeAlternativeRoutes: false,
		Units:                    "METRIC",
		LanguageCode:             "pt-BR",
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/directions/v2:computeRoutes", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", "routes.distanceMeters")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("%w: routes endpoint %d: %s", ErrConfiguration, resp.StatusCode, string(b))
	case resp.StatusCode != http.StatusOK:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("%w: routes endpoint %d: %s", ErrTransport, resp.StatusCode, string(b))
	}

	var body computeRoutesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: decode routes response: %w", ErrTransport, err)
	}
	if len(body.Routes) == 0 {
		return 0, ErrRouteNotFound
	}
	return body.Routes[0].DistanceMeters, nil
}
