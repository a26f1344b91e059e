package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sairajtravels/trip-api/internal/core/domain"
	"github.com/sairajtravels/trip-api/internal/core/ports"
	"github.com/sairajtravels/trip-api/internal/pkg/geospatial"
	"github.com/sairajtravels/trip-api/internal/pkg/metrics"
)

// Probe pattern for finding a routable road near an arbitrary point: the
// point itself, then 8 compass bearings at each ring radius. Worst case is
// 1 + 5*8 = 41 reverse-geocode calls per endpoint.
var (
	snapRadii    = []float64{100, 300, 600, 1000, 2000}
	snapBearings = []float64{0, 45, 90, 135, 180, 225, 270, 315}
)

// SnapService moves arbitrary coordinates onto the routable road network so
// the directions provider will accept them as endpoints.
type SnapService struct {
	geocoder ports.ReverseGeocoder
	cache    ports.CacheService
}

// NewSnapService creates a new SnapService.
func NewSnapService(geocoder ports.ReverseGeocoder, cache ports.CacheService) *SnapService {
	return &SnapService{geocoder: geocoder, cache: cache}
}

// Snap returns the nearest routable coordinate to the given point, searching
// outward ring by ring. A point that is already routable comes back unchanged;
// so does a point with nothing routable anywhere near it (the second result
// tells the two apart).
func (s *SnapService) Snap(ctx context.Context, point domain.GeoPoint) (domain.GeoPoint, bool) {
	probes := 1
	if pc := s.classify(ctx, point); pc.Routable() {
		metrics.SnapProbes.Observe(float64(probes))
		return point, true
	}

	for _, radius := range snapRadii {
		for _, bearing := range snapBearings {
			lat, lng := geospatial.ProjectPoint(point.Lat, point.Lng, bearing, radius)
			probe := domain.GeoPoint{Lat: lat, Lng: lng}
			probes++
			if pc := s.classify(ctx, probe); pc.Routable() {
				metrics.SnapProbes.Observe(float64(probes))
				return snappedOrProbe(pc, probe), true
			}
		}
	}

	metrics.SnapProbes.Observe(float64(probes))
	return point, false
}

// classify reverse-geocodes one probe point, with a read-through cache keyed
// on the rounded coordinate. A geocode failure counts as "nothing routable
// here" so the ring search keeps going.
func (s *SnapService) classify(ctx context.Context, point domain.GeoPoint) *domain.PlaceClassification {
	cacheKey := fmt.Sprintf("geocode:%.6f:%.6f", point.Lat, point.Lng)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var pc domain.PlaceClassification
			if err := json.Unmarshal(data, &pc); err == nil {
				metrics.CacheHits.WithLabelValues("geocode").Inc()
				return &pc
			}
		}
		metrics.CacheMisses.WithLabelValues("geocode").Inc()
	}

	pc, err := s.geocoder.Reverse(ctx, point)
	if err != nil {
		metrics.GeocodeLookups.WithLabelValues("error").Inc()
		return nil
	}

	if pc.Routable() {
		metrics.GeocodeLookups.WithLabelValues("routable").Inc()
	} else {
		metrics.GeocodeLookups.WithLabelValues("non_routable").Inc()
	}

	// Road classifications are stable; cache for an hour
	if s.cache != nil {
		if data, err := json.Marshal(pc); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}

	return pc
}

// snappedOrProbe prefers the geocoder's own coordinate for the matched way
// over the ring probe that found it. Only probe hits go through here; an
// already-routable input point is returned as-is.
func snappedOrProbe(pc *domain.PlaceClassification, probe domain.GeoPoint) domain.GeoPoint {
	if pc.Snapped != nil && pc.Snapped.Valid() {
		return *pc.Snapped
	}
	return probe
}
