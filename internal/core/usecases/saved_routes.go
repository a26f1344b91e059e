package usecases

import (
	"context"
	"encoding/json"

	"github.com/sairajtravels/trip-api/internal/core/domain"
	"github.com/sairajtravels/trip-api/internal/core/ports"
	"github.com/sairajtravels/trip-api/internal/pkg/metrics"
)

// SavedRouteService serves the curated route catalogue.
type SavedRouteService struct {
	routes ports.SavedRouteRepository
	cache  ports.CacheService
}

// NewSavedRouteService creates a new SavedRouteService.
func NewSavedRouteService(routes ports.SavedRouteRepository, cache ports.CacheService) *SavedRouteService {
	return &SavedRouteService{routes: routes, cache: cache}
}

// List returns the full catalogue.
func (s *SavedRouteService) List(ctx context.Context) ([]domain.SavedRoute, error) {
	cacheKey := "routes:catalogue"
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var routes []domain.SavedRoute
			if err := json.Unmarshal(data, &routes); err == nil {
				metrics.CacheHits.WithLabelValues("routes").Inc()
				return routes, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("routes").Inc()
	}

	routes, err := s.routes.List(ctx)
	if err != nil {
		return nil, err
	}

	// Catalogue changes rarely; cache for 5 minutes
	if s.cache != nil {
		if data, err := json.Marshal(routes); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return routes, nil
}

// GetByID returns a single catalogue route.
func (s *SavedRouteService) GetByID(ctx context.Context, id string) (*domain.SavedRoute, error) {
	cacheKey := "routes:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var route domain.SavedRoute
			if err := json.Unmarshal(data, &route); err == nil {
				return &route, nil
			}
		}
	}

	route, err := s.routes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(route); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return route, nil
}
