package ports

import (
	"context"

	"github.com/sairajtravels/trip-api/internal/core/domain"
)

// DirectionsProvider fetches a driving route between two points from an
// external routing service. Implementations return *domain.ProviderError on
// any transport, status, or parse failure and never retry on their own.
type DirectionsProvider interface {
	FetchRoute(ctx context.Context, origin, destination domain.GeoPoint) (*domain.RouteResult, error)
}

// ReverseGeocoder classifies the place found at a coordinate. Implementations
// return *domain.GeocodeError on any failure.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, point domain.GeoPoint) (*domain.PlaceClassification, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishTripPlanned(ctx context.Context, entry *domain.TripLogEntry) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
