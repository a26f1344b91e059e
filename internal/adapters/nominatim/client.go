package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sairajtravels/trip-api/internal/core/domain"
)

// Client is a reverse-geocoding client for a Nominatim-compatible endpoint.
// It implements ports.ReverseGeocoder.
type Client struct {
	baseURL   string
	userAgent string
	zoom      int
	http      *http.Client
}

// New creates a Nominatim client. userAgent must identify the application;
// the public instance rejects anonymous traffic.
func New(baseURL, userAgent string, zoom int, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		zoom:      zoom,
		http:      &http.Client{Timeout: timeout},
	}
}

// reverseResponse is the subset of the jsonv2 payload we care about. Older
// deployments still emit "class" instead of "category"; both are accepted.
type reverseResponse struct {
	Category string `json:"category"`
	Class    string `json:"class"`
	Type     string `json:"type"`
	Lat      string `json:"lat"`
	Lon      string `json:"lon"`
	Error    string `json:"error"`
}

// Reverse classifies the place at the given coordinate. Every failure mode
// (transport, status, parse, geocoder-reported error) comes back as a
// *domain.GeocodeError.
func (c *Client) Reverse(ctx context.Context, point domain.GeoPoint) (*domain.PlaceClassification, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(point.Lng, 'f', -1, 64))
	q.Set("zoom", strconv.Itoa(c.zoom))
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, &domain.GeocodeError{Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.GeocodeError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.GeocodeError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	}

	var raw reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &domain.GeocodeError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if raw.Error != "" {
		return nil, &domain.GeocodeError{Err: fmt.Errorf("geocoder: %s", raw.Error)}
	}

	category := raw.Category
	if category == "" {
		category = raw.Class
	}

	pc := &domain.PlaceClassification{
		Category: category,
		Subtype:  raw.Type,
	}

	// The geocoder reports the matched way's own coordinate as strings. When
	// both parse, prefer that point over the probe location.
	if raw.Lat != "" && raw.Lon != "" {
		lat, latErr := strconv.ParseFloat(raw.Lat, 64)
		lng, lngErr := strconv.ParseFloat(raw.Lon, 64)
		if latErr == nil && lngErr == nil {
			pc.Snapped = &domain.GeoPoint{Lat: lat, Lng: lng}
		}
	}

	return pc, nil
}
