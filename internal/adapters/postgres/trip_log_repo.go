package postgres

import (
	"context"

	"github.com/sairajtravels/trip-api/internal/core/domain"
)

// TripLogRepo implements ports.TripLogRepository.
type TripLogRepo struct {
	db *DB
}

func NewTripLogRepo(db *DB) *TripLogRepo { return &TripLogRepo{db: db} }

func (r *TripLogRepo) Insert(ctx context.Context, entry *domain.TripLogEntry) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO trip_log (origin_lat, origin_lng, destination_lat, destination_lng,
		                      distance_meters, duration_seconds, round_trip, used_fallback)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, entry.Origin.Lat, entry.Origin.Lng, entry.Destination.Lat, entry.Destination.Lng,
		entry.DistanceMeters, entry.DurationSeconds, entry.RoundTrip, entry.UsedFallback,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *TripLogRepo) Recent(ctx context.Context, limit int) ([]domain.TripLogEntry, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, origin_lat, origin_lng, destination_lat, destination_lng,
		       distance_meters, duration_seconds, round_trip, used_fallback, created_at
		FROM trip_log ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.TripLogEntry
	for rows.Next() {
		var e domain.TripLogEntry
		if err := rows.Scan(&e.ID, &e.Origin.Lat, &e.Origin.Lng,
			&e.Destination.Lat, &e.Destination.Lng,
			&e.DistanceMeters, &e.DurationSeconds, &e.RoundTrip, &e.UsedFallback,
			&e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
