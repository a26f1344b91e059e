package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sairajtravels/trip-api/internal/core/domain"
)

// Client calls the OpenRouteService directions API. It implements
// ports.DirectionsProvider and makes exactly one attempt per call; retry and
// fallback policy belong to the planner.
type Client struct {
	baseURL string
	apiKey  string
	profile string
	http    *http.Client
}

// New creates an OpenRouteService client for the given routing profile
// (e.g. "driving-car").
func New(baseURL, apiKey, profile string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		profile: profile,
		http:    &http.Client{Timeout: timeout},
	}
}

type directionsRequest struct {
	Coordinates  [][2]float64 `json:"coordinates"`
	Instructions bool         `json:"instructions"`
}

// The API answers in one of two shapes depending on content negotiation:
// a GeoJSON FeatureCollection, or a "routes" array whose geometry is an
// encoded polyline string. Both are handled here.
type directionsResponse struct {
	Features []struct {
		Geometry   domain.LineString `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
	Routes []struct {
		Geometry json.RawMessage `json:"geometry"`
		Distance float64         `json:"distance"`
		Duration float64         `json:"duration"`
	} `json:"routes"`
}

// FetchRoute requests a route between origin and destination. Any transport,
// status, or parse failure comes back as a *domain.ProviderError.
func (c *Client) FetchRoute(ctx context.Context, origin, destination domain.GeoPoint) (*domain.RouteResult, error) {
	body, err := json.Marshal(directionsRequest{
		Coordinates: [][2]float64{
			{origin.Lng, origin.Lat},
			{destination.Lng, destination.Lat},
		},
		Instructions: false,
	})
	if err != nil {
		return nil, &domain.ProviderError{Err: err}
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, c.profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.ProviderError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.ProviderError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("directions request rejected: %s", detail),
		}
	}

	var parsed directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &domain.ProviderError{Err: fmt.Errorf("decode response: %w", err)}
	}

	switch {
	case len(parsed.Features) > 0:
		f := parsed.Features[0]
		return &domain.RouteResult{
			Geometry:        f.Geometry,
			DistanceMeters:  f.Properties.Summary.Distance,
			DurationSeconds: f.Properties.Summary.Duration,
			Source:          domain.RouteSourceProvider,
		}, nil

	case len(parsed.Routes) > 0:
		r := parsed.Routes[0]
		geom, err := parseRouteGeometry(r.Geometry)
		if err != nil {
			return nil, &domain.ProviderError{Err: err}
		}
		return &domain.RouteResult{
			Geometry:        geom,
			DistanceMeters:  r.Distance,
			DurationSeconds: r.Duration,
			Source:          domain.RouteSourceProvider,
		}, nil
	}

	return nil, &domain.ProviderError{Err: fmt.Errorf("response has neither features nor routes")}
}

// parseRouteGeometry handles the routes-shape geometry, which is either an
// encoded polyline string or an inline GeoJSON object.
func parseRouteGeometry(raw json.RawMessage) (domain.LineString, error) {
	if len(raw) == 0 {
		return domain.LineString{}, fmt.Errorf("route has no geometry")
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return domain.LineString{}, fmt.Errorf("decode geometry string: %w", err)
		}
		points, err := decodePolyline(encoded)
		if err != nil {
			return domain.LineString{}, fmt.Errorf("decode polyline: %w", err)
		}
		return domain.LineString{Points: points}, nil
	}

	var line domain.LineString
	if err := json.Unmarshal(raw, &line); err != nil {
		return domain.LineString{}, fmt.Errorf("decode geometry object: %w", err)
	}
	return line, nil
}
