package maps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDrivingDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/directions/v2:computeRoutes" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Error("missing api key header")
		}
		if r.Header.Get("X-Goog-FieldMask") != "routes.distanceMeters" {
			t.Error("missing field mask header")
		}
		var req computeRoutesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if req.TravelMode != "DRIVE" || req.RoutingPreference != "TRAFFIC_AWARE" || req.Units != "METRIC" {
			t.Errorf("unexpected payload %+v", req)
		}
		if req.Origin.Location.LatLng.Latitude != -23.5 || req.Destination.Location.LatLng.Longitude != -46.7 {
			t.Errorf("coordinates not forwarded: %+v", req)
		}
		w.Write([]byte(`{"routes":[{"distanceMeters":4321}]}`))
	}))
	defer srv.Close()

	meters, err := NewRouter(srv.URL, "test-key", srv.Client()).DrivingDistance(context.Background(),
		LatLng{Lat: -23.5, Lng: -46.6}, LatLng{Lat: -23.6, Lng: -46.7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meters != 4321 {
		t.Errorf("expected 4321, got %d", meters)
	}
}

func TestDrivingDistanceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"no routes", http.StatusOK, `{}`, ErrRouteNotFound},
		{"empty routes", http.StatusOK, `{"routes":[]}`, ErrRouteNotFound},
		{"forbidden", http.StatusForbidden, `{"error":{"status":"PERMISSION_DENIED"}}`, ErrConfiguration},
		{"unauthorized", http.StatusUnauthorized, ``, ErrConfiguration},
		{"server error", http.StatusBadGateway, `oops`, ErrTransport},
		{"bad json", http.StatusOK, `[`, ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewRouter(srv.URL, "test-key", srv.Client()).DrivingDistance(context.Background(), LatLng{}, LatLng{})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDrivingDistanceMissingKey(t *testing.T) {
	_, err := NewRouter("", "", nil).DrivingDistance(context.Background(), LatLng{}, LatLng{})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestDrivingDistanceKeepsContextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRouter(srv.URL, "test-key", nil).DrivingDistance(ctx, LatLng{Lat: -23.55, Lng: -46.63}, LatLng{Lat: -23.56, Lng: -46.64})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected transport error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}
