package ports

import (
	"context"

	"github.com/sairajtravels/trip-api/internal/core/domain"
)

// SavedRouteRepository reads the curated route catalogue.
type SavedRouteRepository interface {
	List(ctx context.Context) ([]domain.SavedRoute, error)
	GetByID(ctx context.Context, id string) (*domain.SavedRoute, error)
}

// TripLogRepository persists planned trips for analytics.
type TripLogRepository interface {
	Insert(ctx context.Context, entry *domain.TripLogEntry) error
	Recent(ctx context.Context, limit int) ([]domain.TripLogEntry, error)
}
