package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/sairajtravels/trip-api/internal/core/domain"
	"github.com/sairajtravels/trip-api/internal/core/ports"
	"github.com/sairajtravels/trip-api/internal/pkg/geospatial"
	"github.com/sairajtravels/trip-api/internal/pkg/metrics"
)

// fallbackNote is surfaced to the caller when the plan was estimated locally.
const fallbackNote = "Live routing unavailable; showing straight-line estimate."

// PlannerService orchestrates trip planning: snap endpoints to the road
// network, ask the directions provider, and fall back to a straight-line
// estimate when the provider cannot answer. A request that reaches this
// service always yields a usable plan.
type PlannerService struct {
	provider         ports.DirectionsProvider
	snapper          *SnapService
	pricing          domain.Pricing
	fallbackSpeedKmh float64
	tripLog          ports.TripLogRepository
	events           ports.EventPublisher
}

// NewPlannerService creates a new PlannerService. tripLog and events may be
// nil; recording and event publishing are best-effort.
func NewPlannerService(
	provider ports.DirectionsProvider,
	snapper *SnapService,
	pricing domain.Pricing,
	fallbackSpeedKmh float64,
	tripLog ports.TripLogRepository,
	events ports.EventPublisher,
) *PlannerService {
	return &PlannerService{
		provider:         provider,
		snapper:          snapper,
		pricing:          pricing,
		fallbackSpeedKmh: fallbackSpeedKmh,
		tripLog:          tripLog,
		events:           events,
	}
}

// PlanTrip produces a route and cost estimate for the request. Provider and
// geocoder failures are absorbed into the fallback estimate; the only errors
// returned are for requests that cannot be planned at all.
func (s *PlannerService) PlanTrip(ctx context.Context, req domain.TripRequest) (*domain.TripPlan, error) {
	if !req.Origin.Valid() || !req.Destination.Valid() {
		return nil, domain.ErrInvalidCoordinates
	}

	// Snapping only improves the provider's chances; the fallback estimate
	// always works from the caller's original coordinates.
	snappedFrom, _ := s.snapper.Snap(ctx, req.Origin)
	snappedTo, _ := s.snapper.Snap(ctx, req.Destination)

	start := time.Now()
	route, err := s.provider.FetchRoute(ctx, snappedFrom, snappedTo)
	metrics.ProviderRequestDuration.Observe(time.Since(start).Seconds())

	usedFallback := false
	note := ""
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("error").Inc()
		metrics.FallbackPlans.Inc()
		slog.Warn("directions provider failed, estimating locally", "error", err)
		route = s.fallbackRoute(req.Origin, req.Destination)
		usedFallback = true
		note = fallbackNote
	} else {
		metrics.ProviderRequests.WithLabelValues("success").Inc()
	}

	// Round trips double distance and duration before costing
	if req.RoundTrip {
		route.DistanceMeters *= 2
		route.DurationSeconds *= 2
	}

	plan := &domain.TripPlan{
		Route:        *route,
		Cost:         s.pricing.Estimate(route.DistanceMeters),
		RoundTrip:    req.RoundTrip,
		UsedFallback: usedFallback,
		Note:         note,
	}

	s.record(ctx, req, plan)

	return plan, nil
}

// fallbackRoute builds a straight-line estimate between the original
// endpoints, assuming a steady average speed.
func (s *PlannerService) fallbackRoute(origin, destination domain.GeoPoint) *domain.RouteResult {
	km := geospatial.HaversineKm(origin.Lat, origin.Lng, destination.Lat, destination.Lng)
	return &domain.RouteResult{
		Geometry:        domain.Line(origin, destination),
		DistanceMeters:  km * 1000,
		DurationSeconds: km / s.fallbackSpeedKmh * 3600,
		Source:          domain.RouteSourceFallback,
	}
}

// record persists the planned trip and emits a trip.planned event. Neither
// is allowed to fail the plan.
func (s *PlannerService) record(ctx context.Context, req domain.TripRequest, plan *domain.TripPlan) {
	entry := &domain.TripLogEntry{
		Origin:          req.Origin,
		Destination:     req.Destination,
		DistanceMeters:  plan.Route.DistanceMeters,
		DurationSeconds: plan.Route.DurationSeconds,
		RoundTrip:       plan.RoundTrip,
		UsedFallback:    plan.UsedFallback,
		CreatedAt:       time.Now().UTC(),
	}

	if s.tripLog != nil {
		if err := s.tripLog.Insert(ctx, entry); err != nil {
			slog.Warn("trip log insert failed", "error", err)
		}
	}

	if s.events != nil {
		if err := s.events.PublishTripPlanned(ctx, entry); err != nil {
			slog.Warn("trip.planned publish failed", "error", err)
		}
	}
}
