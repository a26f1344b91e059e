package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sairajtravels/trip-api/internal/core/domain"
)

// tripPlanRequest is the trip planning request body. from and to are pointers
// so that a missing field can be told apart from a zero coordinate.
type tripPlanRequest struct {
	From      *domain.GeoPoint `json:"from"`
	To        *domain.GeoPoint `json:"to"`
	RoundTrip bool             `json:"roundTrip"`
}

// tripPlanResponse is the wire shape the booking frontend consumes.
type tripPlanResponse struct {
	Geometry  domain.LineString `json:"geometry"`
	Distance  float64           `json:"distance"` // meters
	Duration  float64           `json:"duration"` // seconds
	FuelCost  float64           `json:"fuelCost"`
	TollCost  float64           `json:"tollCost"`
	RoundTrip bool              `json:"roundTrip"`
	Fallback  bool              `json:"fallback"`
	Message   string            `json:"message,omitempty"`
}

// TripPlanHandler plans a trip between two coordinates and prices it.
// The response is always 200 with a usable plan unless the request itself
// is malformed.
func TripPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tripPlanRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Missing from/to in request"})
		}
		if req.From == nil || req.To == nil {
			return c.Status(400).JSON(fiber.Map{"error": "Missing from/to in request"})
		}

		plan, err := deps.Planner.PlanTrip(c.UserContext(), domain.TripRequest{
			Origin:      *req.From,
			Destination: *req.To,
			RoundTrip:   req.RoundTrip,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCoordinates) {
				return c.Status(400).JSON(fiber.Map{"error": err.Error()})
			}
			return errInternal(c, err.Error())
		}

		return c.JSON(tripPlanResponse{
			Geometry:  plan.Route.Geometry,
			Distance:  plan.Route.DistanceMeters,
			Duration:  plan.Route.DurationSeconds,
			FuelCost:  plan.Cost.FuelCost,
			TollCost:  plan.Cost.TollCost,
			RoundTrip: plan.RoundTrip,
			Fallback:  plan.UsedFallback,
			Message:   plan.Note,
		})
	}
}

// ListSavedRoutesHandler returns the curated route catalogue.
func ListSavedRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.SavedRoutes == nil {
			return errInternal(c, "route catalogue not available")
		}

		routes, err := deps.SavedRoutes.List(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}

		// Apply offset/limit pagination on the full list
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(routes)
		if offset >= total {
			routes = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			routes = routes[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: routes, Pagination: pg})
	}
}

// GetSavedRouteHandler returns a single catalogue route by ID.
func GetSavedRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.SavedRoutes == nil {
			return errInternal(c, "route catalogue not available")
		}

		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "route id is required")
		}
		route, err := deps.SavedRoutes.GetByID(c.UserContext(), id)
		if err != nil {
			return errNotFound(c, "route not found")
		}
		return c.JSON(route)
	}
}

// RecentTripsHandler returns the most recently planned trips.
func RecentTripsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.TripLog == nil {
			return errInternal(c, "trip log not available")
		}

		limit := c.QueryInt("limit", 20)
		trips, err := deps.TripLog.Recent(c.UserContext(), limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(trips)
	}
}
