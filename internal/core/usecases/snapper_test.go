package usecases_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/sairajtravels/trip-api/internal/core/domain"
	"github.com/sairajtravels/trip-api/internal/core/usecases"
)

// --- Mock ReverseGeocoder ---

type mockGeocoder struct {
	reverseFn func(ctx context.Context, point domain.GeoPoint) (*domain.PlaceClassification, error)
	calls     int
}

func (m *mockGeocoder) Reverse(ctx context.Context, point domain.GeoPoint) (*domain.PlaceClassification, error) {
	m.calls++
	if m.reverseFn != nil {
		return m.reverseFn(ctx, point)
	}
	return &domain.PlaceClassification{Category: "building", Subtype: "hotel"}, nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Tests ---

func TestSnap_AlreadyOnRoadReturnsPointUnchanged(t *testing.T) {
	// Even when the geocoder reports its own coordinate for the matched way,
	// a point that is already routable must come back untouched.
	snapped := &domain.GeoPoint{Lat: 18.9999, Lng: 73.9999}
	geo := &mockGeocoder{
		reverseFn: func(ctx context.Context, p domain.GeoPoint) (*domain.PlaceClassification, error) {
			return &domain.PlaceClassification{Category: "highway", Subtype: "residential", Snapped: snapped}, nil
		},
	}

	origin := domain.GeoPoint{Lat: 18.52, Lng: 73.85}
	svc := usecases.NewSnapService(geo, nil)
	got, ok := svc.Snap(context.Background(), origin)

	if !ok {
		t.Fatal("expected a routable match")
	}
	if geo.calls != 1 {
		t.Errorf("expected 1 geocode call, got %d", geo.calls)
	}
	if got != origin {
		t.Errorf("already-routable point not returned unchanged: got %+v, want %+v", got, origin)
	}
}

func TestSnap_ProbeHitPrefersGeocoderCoordinate(t *testing.T) {
	origin := domain.GeoPoint{Lat: 18.52, Lng: 73.85}
	snapped := domain.GeoPoint{Lat: 18.5209, Lng: 73.8503}

	// The point itself is not routable; the first ring probe is, and the
	// geocoder reports the matched way's own coordinate for it.
	geo := &mockGeocoder{}
	geo.reverseFn = func(ctx context.Context, p domain.GeoPoint) (*domain.PlaceClassification, error) {
		if p == origin {
			return &domain.PlaceClassification{Category: "building", Subtype: "hotel"}, nil
		}
		return &domain.PlaceClassification{Category: "highway", Subtype: "residential", Snapped: &snapped}, nil
	}

	svc := usecases.NewSnapService(geo, nil)
	got, ok := svc.Snap(context.Background(), origin)

	if !ok {
		t.Fatal("expected a routable match")
	}
	if got != snapped {
		t.Errorf("expected geocoder's coordinate %+v, got %+v", snapped, got)
	}
}

func TestSnap_ProbeHitWithoutSnappedCoordinateReturnsProbePoint(t *testing.T) {
	origin := domain.GeoPoint{Lat: 18.52, Lng: 73.85}

	geo := &mockGeocoder{}
	geo.reverseFn = func(ctx context.Context, p domain.GeoPoint) (*domain.PlaceClassification, error) {
		if p == origin {
			return &domain.PlaceClassification{Category: "building", Subtype: "hotel"}, nil
		}
		return &domain.PlaceClassification{Category: "highway", Subtype: "primary"}, nil
	}

	svc := usecases.NewSnapService(geo, nil)
	got, ok := svc.Snap(context.Background(), origin)

	if !ok {
		t.Fatal("expected a routable match")
	}
	if got == origin {
		t.Error("expected the probe point, not the original")
	}
	// First probe is 100 m due north of the origin
	if got.Lat <= origin.Lat {
		t.Errorf("expected probe north of origin, got %+v", got)
	}
}

func TestSnap_SearchesOutwardRadiusThenBearing(t *testing.T) {
	origin := domain.GeoPoint{Lat: 18.52, Lng: 73.85}

	// Only the probe 300 m due east is routable. That is probe number
	// 1 (origin) + 8 (100 m ring) + 3 (300 m at bearings 0, 45, 90).
	geo := &mockGeocoder{}
	geo.reverseFn = func(ctx context.Context, p domain.GeoPoint) (*domain.PlaceClassification, error) {
		if geo.calls == 12 {
			return &domain.PlaceClassification{Category: "highway", Subtype: "tertiary"}, nil
		}
		return &domain.PlaceClassification{Category: "natural", Subtype: "water"}, nil
	}

	svc := usecases.NewSnapService(geo, nil)
	got, ok := svc.Snap(context.Background(), origin)

	if !ok {
		t.Fatal("expected a routable match")
	}
	if geo.calls != 12 {
		t.Errorf("expected 12 geocode calls, got %d", geo.calls)
	}

	// Due east at 300 m: latitude unchanged, longitude increased
	if math.Abs(got.Lat-origin.Lat) > 1e-9 {
		t.Errorf("expected unchanged latitude, got %v", got.Lat)
	}
	if got.Lng <= origin.Lng {
		t.Errorf("expected longitude east of origin, got %v", got.Lng)
	}
}

func TestSnap_NothingRoutableExhaustsAllProbes(t *testing.T) {
	geo := &mockGeocoder{
		reverseFn: func(ctx context.Context, p domain.GeoPoint) (*domain.PlaceClassification, error) {
			return &domain.PlaceClassification{Category: "natural", Subtype: "water"}, nil
		},
	}

	origin := domain.GeoPoint{Lat: 18.52, Lng: 73.85}
	svc := usecases.NewSnapService(geo, nil)
	got, ok := svc.Snap(context.Background(), origin)

	if ok {
		t.Error("expected no routable match")
	}
	if geo.calls != 41 {
		t.Errorf("expected 41 geocode calls (1 + 5 rings * 8 bearings), got %d", geo.calls)
	}
	if got != origin {
		t.Errorf("expected original point back, got %+v", got)
	}
}

func TestSnap_GeocodeErrorsTreatedAsNonRoutable(t *testing.T) {
	geo := &mockGeocoder{}
	geo.reverseFn = func(ctx context.Context, p domain.GeoPoint) (*domain.PlaceClassification, error) {
		if geo.calls < 5 {
			return nil, &domain.GeocodeError{Err: errors.New("timeout")}
		}
		return &domain.PlaceClassification{Category: "highway", Subtype: "service"}, nil
	}

	svc := usecases.NewSnapService(geo, nil)
	_, ok := svc.Snap(context.Background(), domain.GeoPoint{Lat: 18.52, Lng: 73.85})

	if !ok {
		t.Fatal("expected search to continue past geocode errors")
	}
	if geo.calls != 5 {
		t.Errorf("expected 5 geocode calls, got %d", geo.calls)
	}
}

func TestSnap_CachesClassifications(t *testing.T) {
	geo := &mockGeocoder{
		reverseFn: func(ctx context.Context, p domain.GeoPoint) (*domain.PlaceClassification, error) {
			return &domain.PlaceClassification{Category: "highway", Subtype: "residential"}, nil
		},
	}

	svc := usecases.NewSnapService(geo, newMockCache())
	origin := domain.GeoPoint{Lat: 18.52, Lng: 73.85}

	if _, ok := svc.Snap(context.Background(), origin); !ok {
		t.Fatal("expected a routable match")
	}
	if _, ok := svc.Snap(context.Background(), origin); !ok {
		t.Fatal("expected a routable match")
	}

	if geo.calls != 1 {
		t.Errorf("expected second snap to hit the cache, got %d geocode calls", geo.calls)
	}
}
