package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sairajtravels/trip-api/internal/core/domain"
	"github.com/sairajtravels/trip-api/internal/core/usecases"
	"github.com/sairajtravels/trip-api/internal/pkg/geospatial"
)

// --- Mock DirectionsProvider ---

type mockProvider struct {
	fetchFn func(ctx context.Context, origin, destination domain.GeoPoint) (*domain.RouteResult, error)
	calls   int
}

func (m *mockProvider) FetchRoute(ctx context.Context, origin, destination domain.GeoPoint) (*domain.RouteResult, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, origin, destination)
	}
	return nil, &domain.ProviderError{Err: errors.New("not configured")}
}

// --- Mock TripLogRepository ---

type mockTripLog struct {
	insertFn func(ctx context.Context, entry *domain.TripLogEntry) error
	recentFn func(ctx context.Context, limit int) ([]domain.TripLogEntry, error)
}

func (m *mockTripLog) Insert(ctx context.Context, entry *domain.TripLogEntry) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, entry)
	}
	return nil
}

func (m *mockTripLog) Recent(ctx context.Context, limit int) ([]domain.TripLogEntry, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	published []*domain.TripLogEntry
	err       error
}

func (m *mockPublisher) PublishTripPlanned(ctx context.Context, entry *domain.TripLogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, entry)
	return nil
}

// --- Helpers ---

func routableGeocoder() *mockGeocoder {
	return &mockGeocoder{
		reverseFn: func(ctx context.Context, p domain.GeoPoint) (*domain.PlaceClassification, error) {
			return &domain.PlaceClassification{Category: "highway", Subtype: "residential"}, nil
		},
	}
}

func newPlanner(provider *mockProvider, geo *mockGeocoder) *usecases.PlannerService {
	return usecases.NewPlannerService(
		provider,
		usecases.NewSnapService(geo, nil),
		domain.DefaultPricing(),
		60.0,
		nil,
		nil,
	)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// --- Tests ---

func TestPlanTrip_ProviderRouteWithCosts(t *testing.T) {
	provider := &mockProvider{
		fetchFn: func(ctx context.Context, o, d domain.GeoPoint) (*domain.RouteResult, error) {
			return &domain.RouteResult{
				Geometry:        domain.Line(o, d),
				DistanceMeters:  1500,
				DurationSeconds: 180,
				Source:          domain.RouteSourceProvider,
			}, nil
		},
	}

	svc := newPlanner(provider, routableGeocoder())
	plan, err := svc.PlanTrip(context.Background(), domain.TripRequest{
		Origin:      domain.GeoPoint{Lat: 18.52, Lng: 73.85},
		Destination: domain.GeoPoint{Lat: 18.53, Lng: 73.86},
	})
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}

	if plan.UsedFallback {
		t.Error("expected provider route, not fallback")
	}
	if plan.Note != "" {
		t.Errorf("expected empty note, got %q", plan.Note)
	}

	// 1.5 km at 15 km/l and 100.99 per liter; tolls at 2.0 per km
	if !almostEqual(plan.Cost.FuelCost, 10.099) {
		t.Errorf("expected fuel cost 10.099, got %v", plan.Cost.FuelCost)
	}
	if !almostEqual(plan.Cost.TollCost, 3.0) {
		t.Errorf("expected toll cost 3.0, got %v", plan.Cost.TollCost)
	}
}

func TestPlanTrip_RoundTripDoublesBeforeCosting(t *testing.T) {
	provider := &mockProvider{
		fetchFn: func(ctx context.Context, o, d domain.GeoPoint) (*domain.RouteResult, error) {
			return &domain.RouteResult{
				Geometry:        domain.Line(o, d),
				DistanceMeters:  1500,
				DurationSeconds: 180,
				Source:          domain.RouteSourceProvider,
			}, nil
		},
	}

	svc := newPlanner(provider, routableGeocoder())
	plan, err := svc.PlanTrip(context.Background(), domain.TripRequest{
		Origin:      domain.GeoPoint{Lat: 18.52, Lng: 73.85},
		Destination: domain.GeoPoint{Lat: 18.53, Lng: 73.86},
		RoundTrip:   true,
	})
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}

	if plan.Route.DistanceMeters != 3000 {
		t.Errorf("expected doubled distance 3000, got %v", plan.Route.DistanceMeters)
	}
	if plan.Route.DurationSeconds != 360 {
		t.Errorf("expected doubled duration 360, got %v", plan.Route.DurationSeconds)
	}
	if !almostEqual(plan.Cost.FuelCost, 20.198) {
		t.Errorf("expected fuel cost 20.198, got %v", plan.Cost.FuelCost)
	}
	if !almostEqual(plan.Cost.TollCost, 6.0) {
		t.Errorf("expected toll cost 6.0, got %v", plan.Cost.TollCost)
	}
}

func TestPlanTrip_ProviderOutageFallsBackToStraightLine(t *testing.T) {
	origin := domain.GeoPoint{Lat: 18.5204, Lng: 73.8567}
	dest := domain.GeoPoint{Lat: 19.0760, Lng: 72.8777}

	provider := &mockProvider{
		fetchFn: func(ctx context.Context, o, d domain.GeoPoint) (*domain.RouteResult, error) {
			return nil, &domain.ProviderError{Status: 503, Err: errors.New("unavailable")}
		},
	}

	svc := newPlanner(provider, routableGeocoder())
	plan, err := svc.PlanTrip(context.Background(), domain.TripRequest{Origin: origin, Destination: dest})
	if err != nil {
		t.Fatalf("expected a usable plan despite the outage, got %v", err)
	}

	if !plan.UsedFallback {
		t.Fatal("expected fallback plan")
	}
	if plan.Route.Source != domain.RouteSourceFallback {
		t.Errorf("expected fallback source, got %q", plan.Route.Source)
	}
	if plan.Note == "" {
		t.Error("expected an explanatory note on the fallback plan")
	}
	if provider.calls != 1 {
		t.Errorf("expected exactly one provider attempt, got %d", provider.calls)
	}

	wantKm := geospatial.HaversineKm(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	if !almostEqual(plan.Route.DistanceMeters, wantKm*1000) {
		t.Errorf("expected straight-line distance %v m, got %v", wantKm*1000, plan.Route.DistanceMeters)
	}
	// 60 km/h average for the estimate
	if !almostEqual(plan.Route.DurationSeconds, wantKm/60.0*3600) {
		t.Errorf("unexpected fallback duration %v", plan.Route.DurationSeconds)
	}

	pts := plan.Route.Geometry.Points
	if len(pts) != 2 || pts[0] != origin || pts[1] != dest {
		t.Errorf("expected two-point geometry through the endpoints, got %+v", pts)
	}
}

func TestPlanTrip_RoundTripFallbackDoublesEstimate(t *testing.T) {
	origin := domain.GeoPoint{Lat: 18.5204, Lng: 73.8567}
	dest := domain.GeoPoint{Lat: 19.0760, Lng: 72.8777}

	provider := &mockProvider{
		fetchFn: func(ctx context.Context, o, d domain.GeoPoint) (*domain.RouteResult, error) {
			return nil, &domain.ProviderError{Status: 503, Err: errors.New("unavailable")}
		},
	}

	svc := newPlanner(provider, routableGeocoder())
	plan, err := svc.PlanTrip(context.Background(), domain.TripRequest{
		Origin:      origin,
		Destination: dest,
		RoundTrip:   true,
	})
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}
	if !plan.UsedFallback {
		t.Fatal("expected fallback plan")
	}

	oneWayKm := geospatial.HaversineKm(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	if !almostEqual(plan.Route.DistanceMeters, 2*oneWayKm*1000) {
		t.Errorf("expected doubled fallback distance %v m, got %v", 2*oneWayKm*1000, plan.Route.DistanceMeters)
	}
	if !almostEqual(plan.Route.DurationSeconds, 2*oneWayKm/60.0*3600) {
		t.Errorf("expected doubled fallback duration, got %v", plan.Route.DurationSeconds)
	}

	// Costs are derived from the doubled distance, so they are exactly twice
	// the one-way estimate.
	oneWay := domain.DefaultPricing().Estimate(oneWayKm * 1000)
	if !almostEqual(plan.Cost.FuelCost, 2*oneWay.FuelCost) {
		t.Errorf("expected fuel cost %v, got %v", 2*oneWay.FuelCost, plan.Cost.FuelCost)
	}
	if !almostEqual(plan.Cost.TollCost, 2*oneWay.TollCost) {
		t.Errorf("expected toll cost %v, got %v", 2*oneWay.TollCost, plan.Cost.TollCost)
	}
}

func TestPlanTrip_FallbackUsesOriginalCoordinates(t *testing.T) {
	origin := domain.GeoPoint{Lat: 18.52, Lng: 73.85}
	dest := domain.GeoPoint{Lat: 18.62, Lng: 73.95}
	snapped := domain.GeoPoint{Lat: 18.9, Lng: 74.3}

	// Neither endpoint is routable itself; every ring probe snaps somewhere
	// else entirely. The fallback estimate must still come from the caller's
	// coordinates.
	geo := &mockGeocoder{}
	geo.reverseFn = func(ctx context.Context, p domain.GeoPoint) (*domain.PlaceClassification, error) {
		if p == origin || p == dest {
			return &domain.PlaceClassification{Category: "building", Subtype: "hotel"}, nil
		}
		return &domain.PlaceClassification{Category: "highway", Subtype: "primary", Snapped: &snapped}, nil
	}
	provider := &mockProvider{
		fetchFn: func(ctx context.Context, o, d domain.GeoPoint) (*domain.RouteResult, error) {
			if o != snapped || d != snapped {
				t.Errorf("expected provider to get snapped coordinates, got %+v -> %+v", o, d)
			}
			return nil, &domain.ProviderError{Err: errors.New("boom")}
		},
	}

	svc := newPlanner(provider, geo)
	plan, err := svc.PlanTrip(context.Background(), domain.TripRequest{Origin: origin, Destination: dest})
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}

	wantKm := geospatial.HaversineKm(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	if !almostEqual(plan.Route.DistanceMeters, wantKm*1000) {
		t.Errorf("fallback used snapped coordinates: got %v m, want %v m",
			plan.Route.DistanceMeters, wantKm*1000)
	}
}

func TestPlanTrip_InvalidCoordinates(t *testing.T) {
	svc := newPlanner(&mockProvider{}, routableGeocoder())
	_, err := svc.PlanTrip(context.Background(), domain.TripRequest{
		Origin:      domain.GeoPoint{Lat: 91, Lng: 0},
		Destination: domain.GeoPoint{Lat: 18.53, Lng: 73.86},
	})
	if !errors.Is(err, domain.ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestPlanTrip_RecordsAndPublishes(t *testing.T) {
	var inserted *domain.TripLogEntry
	tripLog := &mockTripLog{
		insertFn: func(ctx context.Context, entry *domain.TripLogEntry) error {
			inserted = entry
			return nil
		},
	}
	pub := &mockPublisher{}

	provider := &mockProvider{
		fetchFn: func(ctx context.Context, o, d domain.GeoPoint) (*domain.RouteResult, error) {
			return &domain.RouteResult{
				Geometry:        domain.Line(o, d),
				DistanceMeters:  2000,
				DurationSeconds: 240,
				Source:          domain.RouteSourceProvider,
			}, nil
		},
	}

	svc := usecases.NewPlannerService(
		provider,
		usecases.NewSnapService(routableGeocoder(), nil),
		domain.DefaultPricing(),
		60.0,
		tripLog,
		pub,
	)

	origin := domain.GeoPoint{Lat: 18.52, Lng: 73.85}
	dest := domain.GeoPoint{Lat: 18.53, Lng: 73.86}
	if _, err := svc.PlanTrip(context.Background(), domain.TripRequest{Origin: origin, Destination: dest}); err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}

	if inserted == nil {
		t.Fatal("expected a trip log insert")
	}
	if inserted.Origin != origin || inserted.Destination != dest {
		t.Errorf("log entry has wrong endpoints: %+v", inserted)
	}
	if inserted.DistanceMeters != 2000 {
		t.Errorf("expected logged distance 2000, got %v", inserted.DistanceMeters)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected one trip.planned event, got %d", len(pub.published))
	}
}

func TestPlanTrip_RecordingFailuresDoNotFailThePlan(t *testing.T) {
	tripLog := &mockTripLog{
		insertFn: func(ctx context.Context, entry *domain.TripLogEntry) error {
			return errors.New("db down")
		},
	}
	pub := &mockPublisher{err: errors.New("nats down")}

	provider := &mockProvider{
		fetchFn: func(ctx context.Context, o, d domain.GeoPoint) (*domain.RouteResult, error) {
			return &domain.RouteResult{
				Geometry:        domain.Line(o, d),
				DistanceMeters:  1000,
				DurationSeconds: 120,
				Source:          domain.RouteSourceProvider,
			}, nil
		},
	}

	svc := usecases.NewPlannerService(
		provider,
		usecases.NewSnapService(routableGeocoder(), nil),
		domain.DefaultPricing(),
		60.0,
		tripLog,
		pub,
	)

	plan, err := svc.PlanTrip(context.Background(), domain.TripRequest{
		Origin:      domain.GeoPoint{Lat: 18.52, Lng: 73.85},
		Destination: domain.GeoPoint{Lat: 18.53, Lng: 73.86},
	})
	if err != nil {
		t.Fatalf("expected plan despite recording failures, got %v", err)
	}
	if plan.Route.DistanceMeters != 1000 {
		t.Errorf("unexpected distance %v", plan.Route.DistanceMeters)
	}
}
