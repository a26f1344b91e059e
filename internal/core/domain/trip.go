package domain

import "time"

// RouteSource identifies how a route estimate was produced.
type RouteSource string

const (
	// RouteSourceProvider marks a route obtained from the external directions provider.
	RouteSourceProvider RouteSource = "provider"
	// RouteSourceFallback marks a straight-line estimate computed locally.
	RouteSourceFallback RouteSource = "fallback"
)

// TripRequest is a single trip-planning request. It lives for the duration of
// one call and is never persisted.
type TripRequest struct {
	Origin      GeoPoint
	Destination GeoPoint
	RoundTrip   bool
}

// PlaceClassification is the result of one reverse-geocode lookup, used only
// to decide whether a point sits on the routable road network.
type PlaceClassification struct {
	Category string    // geocoder "class", e.g. "highway", "building"
	Subtype  string    // geocoder "type", e.g. "residential", "hotel"
	Snapped  *GeoPoint // the geocoder's own coordinate for the matched way, if any
}

// routableSubtypes are the way types a routing engine will accept as an endpoint.
var routableSubtypes = map[string]bool{
	"residential":  true,
	"service":      true,
	"road":         true,
	"tertiary":     true,
	"secondary":    true,
	"primary":      true,
	"unclassified": true,
	"track":        true,
	"footway":      true,
	"pedestrian":   true,
	"path":         true,
}

// Routable reports whether the classified place lies on or next to a traversable way.
func (pc *PlaceClassification) Routable() bool {
	if pc == nil {
		return false
	}
	if pc.Category == "highway" {
		return true
	}
	return routableSubtypes[pc.Subtype]
}

// RouteResult is a normalized route between two points. Geometry always holds
// at least the two endpoints; distance and duration are non-negative.
type RouteResult struct {
	Geometry        LineString
	DistanceMeters  float64
	DurationSeconds float64
	Source          RouteSource
}

// CostBreakdown is the monetary estimate derived from a route distance.
type CostBreakdown struct {
	FuelCost float64
	TollCost float64
}

// TripPlan is the terminal artifact returned to the caller.
type TripPlan struct {
	Route        RouteResult
	Cost         CostBreakdown
	RoundTrip    bool
	UsedFallback bool
	Note         string
}

// SavedRoute is a curated route from the travel catalogue (e.g. Pune–Shirdi).
type SavedRoute struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	OriginName      string    `json:"origin_name"`
	DestinationName string    `json:"destination_name"`
	Origin          GeoPoint  `json:"origin"`
	Destination     GeoPoint  `json:"destination"`
	DistanceKm      float64   `json:"distance_km"`
	TypicalDuration string    `json:"typical_duration,omitempty"`
	Highlights      string    `json:"highlights,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TripLogEntry records one planned trip for later analysis.
type TripLogEntry struct {
	ID              string    `json:"id"`
	Origin          GeoPoint  `json:"origin"`
	Destination     GeoPoint  `json:"destination"`
	DistanceMeters  float64   `json:"distance_meters"`
	DurationSeconds float64   `json:"duration_seconds"`
	RoundTrip       bool      `json:"round_trip"`
	UsedFallback    bool      `json:"used_fallback"`
	CreatedAt       time.Time `json:"created_at"`
}
