package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string `json:"formatted_address"`
	PartialMatch     bool   `json:"partial_match"`
	Geometry         struct {
		Location     LatLng `json:"location"`
		LocationType string `json:"location_type"`
	} `json:"geometry"`
}

type geocodingClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewGeocoder returns a Geocoding API client. An empty baseURL uses the
// public endpoint.
func NewGeocoder(baseURL, apiKey string, httpClient *http.Client) Geocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &geocodingClient{baseURL: baseURL, apiKey: apiKey, http: httpClient}
}

func (c *geocodingClient) Geocode(ctx context.Context, address string) (LatLng, error) {
	ctx, span := otel.Tracer("maps").Start(ctx, "Geocoder.Geocode")
	defer span.End()

	loc, err := c.geocode(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return loc, err
}

func (c *geocodingClient) geocode(ctx context.Context, address string) (LatLng, error) {
	if c.apiKey == "" {
		return LatLng{}, fmt.Errorf("%w: GOOGLE_MAPS_API_KEY is not set", ErrConfiguration)
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)
	q.Set("language", "pt-BR")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return LatLng{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return LatLng{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return LatLng{}, fmt.Errorf("%w: geocode endpoint %d: %s", ErrTransport, resp.StatusCode, string(b))
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return LatLng{}, fmt.Errorf("%w: decode geocode response: %w", ErrTransport, err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return LatLng{}, fmt.Errorf("%w: %q", ErrAddressNotFound, address)
	case "REQUEST_DENIED":
		return LatLng{}, fmt.Errorf("%w: %s", ErrConfiguration, body.ErrorMessage)
	default:
		return LatLng{}, fmt.Errorf("%w: geocode status %s: %s", ErrTransport, body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return LatLng{}, fmt.Errorf("%w: %q", ErrAddressNotFound, address)
	}

	best := pickBestResult(body.Results)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("maps.location_type", best.Geometry.LocationType),
		attribute.Bool("maps.partial_match", best.PartialMatch),
	)
	return best.Geometry.Location, nil
}

// pickBestResult prefers the first exact rooftop match and falls back to the
// first result, warning when that one is imprecise.
func pickBestResult(results []geocodeResult) geocodeResult {
	for _, r := range results {
		if r.Geometry.LocationType == "ROOFTOP" && !r.PartialMatch {
			return r
		}
	}
	first := results[0]
	switch {
	case first.PartialMatch,
		first.Geometry.LocationType == "RANGE_INTERPOLATED",
		first.Geometry.LocationType == "APPROXIMATE":
		log.Printf("Warning: imprecise geocoding for %q (location_type=%s, partial=%v)",
			first.FormattedAddress, first.Geometry.LocationType, first.PartialMatch)
	}
	return first
}
