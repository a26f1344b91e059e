package postgres

import (
	"context"

	"github.com/sairajtravels/trip-api/internal/core/domain"
)

// SavedRouteRepo implements ports.SavedRouteRepository.
type SavedRouteRepo struct {
	db *DB
}

func NewSavedRouteRepo(db *DB) *SavedRouteRepo { return &SavedRouteRepo{db: db} }

func (r *SavedRouteRepo) List(ctx context.Context) ([]domain.SavedRoute, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, origin_name, destination_name,
		       origin_lat, origin_lng, destination_lat, destination_lng,
		       distance_km, typical_duration, highlights, created_at
		FROM saved_routes ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []domain.SavedRoute
	for rows.Next() {
		var sr domain.SavedRoute
		if err := rows.Scan(&sr.ID, &sr.Name, &sr.OriginName, &sr.DestinationName,
			&sr.Origin.Lat, &sr.Origin.Lng, &sr.Destination.Lat, &sr.Destination.Lng,
			&sr.DistanceKm, &sr.TypicalDuration, &sr.Highlights, &sr.CreatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, sr)
	}
	return routes, rows.Err()
}

func (r *SavedRouteRepo) GetByID(ctx context.Context, id string) (*domain.SavedRoute, error) {
	var sr domain.SavedRoute
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, origin_name, destination_name,
		       origin_lat, origin_lng, destination_lat, destination_lng,
		       distance_km, typical_duration, highlights, created_at
		FROM saved_routes WHERE id = $1
	`, id).Scan(&sr.ID, &sr.Name, &sr.OriginName, &sr.DestinationName,
		&sr.Origin.Lat, &sr.Origin.Lng, &sr.Destination.Lat, &sr.Destination.Lng,
		&sr.DistanceKm, &sr.TypicalDuration, &sr.Highlights, &sr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}
