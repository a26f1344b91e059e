package http

import (
	"github.com/nats-io/nats.go"
	"github.com/sairajtravels/trip-api/internal/adapters/postgres"
	"github.com/sairajtravels/trip-api/internal/adapters/valkey"
	"github.com/sairajtravels/trip-api/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Planner     *usecases.PlannerService
	SavedRoutes *usecases.SavedRouteService
	TripLog     *usecases.TripLogService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
}
