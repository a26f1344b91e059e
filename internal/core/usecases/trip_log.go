package usecases

import (
	"context"

	"github.com/sairajtravels/trip-api/internal/core/domain"
	"github.com/sairajtravels/trip-api/internal/core/ports"
)

// TripLogService reads the history of planned trips.
type TripLogService struct {
	tripLog ports.TripLogRepository
}

// NewTripLogService creates a new TripLogService.
func NewTripLogService(tripLog ports.TripLogRepository) *TripLogService {
	return &TripLogService{tripLog: tripLog}
}

// Recent returns the most recently planned trips, newest first.
func (s *TripLogService) Recent(ctx context.Context, limit int) ([]domain.TripLogEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.tripLog.Recent(ctx, limit)
}
