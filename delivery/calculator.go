package delivery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"delivery-backend/maps"
	"delivery-backend/models"
)

// Calculator chains geocoding and routing into a driving distance.
type Calculator struct {
	Geocoder maps.Geocoder
	Router   maps.Router
}

func NewCalculator(g maps.Geocoder, r maps.Router) *Calculator {
	return &Calculator{Geocoder: g, Router: r}
}

// DistanceKm returns the driving distance from the establishment to the
// client address. Stored establishment coordinates skip the first geocode.
// Any failure aborts the calculation.
func (c *Calculator) DistanceKm(ctx context.Context, est *models.Establishment, clientAddress string) (float64, error) {
	var origin maps.LatLng
	if est.HasCoordinates() {
		origin = maps.LatLng{Lat: *est.Latitude, Lng: *est.Longitude}
	} else {
		loc, err := c.Geocoder.Geocode(ctx, EstablishmentAddress(est))
		if err != nil {
			log.Printf("Failed to geocode establishment %s: %v", est.ID, err)
			if errors.Is(err, maps.ErrConfiguration) {
				return 0, err
			}
			return 0, fmt.Errorf("%w: establishment address could not be geocoded: %v", maps.ErrAddressNotFound, err)
		}
		origin = loc
	}

	dest, err := c.Geocoder.Geocode(ctx, clientAddress)
	if err != nil {
		return 0, err
	}

	meters, err := c.Router.DrivingDistance(ctx, origin, dest)
	if err != nil {
		return 0, err
	}
	return float64(meters) / 1000, nil
}

// RoundKm rounds a distance to two decimals for responses.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
