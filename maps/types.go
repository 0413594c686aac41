package maps

import (
	"context"
	"errors"
)

// Failure classes shared by the geocoding and routing clients. Callers
// classify with errors.Is.
var (
	ErrConfiguration   = errors.New("maps: missing or rejected api key")
	ErrAddressNotFound = errors.New("maps: address not found")
	ErrRouteNotFound   = errors.New("maps: no route between points")
	ErrTransport       = errors.New("maps: upstream request failed")
)

const (
	DefaultGeocodingURL = "https://maps.googleapis.com/maps/api/geocode/json"
	DefaultRoutesURL    = "https://routes.googleapis.com"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder resolves a free-text address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (LatLng, error)
}

// Router returns the driving distance in meters between two coordinates.
type Router interface {
	DrivingDistance(ctx context.Context, origin, destination LatLng) (int, error)
}
