package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/sairajtravels/trip-api/internal/core/domain"
)

var errNoCatalogue = errors.New("route catalogue not available")

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	savedRouteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SavedRoute",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"name":             &graphql.Field{Type: graphql.String},
			"origin_name":      &graphql.Field{Type: graphql.String},
			"destination_name": &graphql.Field{Type: graphql.String},
			"origin":           &graphql.Field{Type: geoPointType},
			"destination":      &graphql.Field{Type: geoPointType},
			"distance_km":      &graphql.Field{Type: graphql.Float},
			"typical_duration": &graphql.Field{Type: graphql.String},
			"highlights":       &graphql.Field{Type: graphql.String},
		},
	})

	tripLogType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PlannedTrip",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"origin":           &graphql.Field{Type: geoPointType},
			"destination":      &graphql.Field{Type: geoPointType},
			"distance_meters":  &graphql.Field{Type: graphql.Float},
			"duration_seconds": &graphql.Field{Type: graphql.Float},
			"round_trip":       &graphql.Field{Type: graphql.Boolean},
			"used_fallback":    &graphql.Field{Type: graphql.Boolean},
		},
	})

	tripPlanType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripPlan",
		Fields: graphql.Fields{
			"distance":  &graphql.Field{Type: graphql.Float},
			"duration":  &graphql.Field{Type: graphql.Float},
			"fuelCost":  &graphql.Field{Type: graphql.Float},
			"tollCost":  &graphql.Field{Type: graphql.Float},
			"roundTrip": &graphql.Field{Type: graphql.Boolean},
			"fallback":  &graphql.Field{Type: graphql.Boolean},
			"message":   &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"planTrip": &graphql.Field{
				Type:        tripPlanType,
				Description: "Plan and price a trip between two coordinates",
				Args: graphql.FieldConfigArgument{
					"fromLat":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"fromLng":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"toLat":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"toLng":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"roundTrip": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req := domain.TripRequest{
						Origin:      domain.GeoPoint{Lat: p.Args["fromLat"].(float64), Lng: p.Args["fromLng"].(float64)},
						Destination: domain.GeoPoint{Lat: p.Args["toLat"].(float64), Lng: p.Args["toLng"].(float64)},
						RoundTrip:   p.Args["roundTrip"].(bool),
					}
					plan, err := deps.Planner.PlanTrip(p.Context, req)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"distance":  plan.Route.DistanceMeters,
						"duration":  plan.Route.DurationSeconds,
						"fuelCost":  plan.Cost.FuelCost,
						"tollCost":  plan.Cost.TollCost,
						"roundTrip": plan.RoundTrip,
						"fallback":  plan.UsedFallback,
						"message":   plan.Note,
					}, nil
				},
			},
			"savedRoutes": &graphql.Field{
				Type:        graphql.NewList(savedRouteType),
				Description: "List the curated route catalogue",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if deps.SavedRoutes == nil {
						return nil, errNoCatalogue
					}
					return deps.SavedRoutes.List(p.Context)
				},
			},
			"savedRoute": &graphql.Field{
				Type:        savedRouteType,
				Description: "Get a catalogue route by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if deps.SavedRoutes == nil {
						return nil, errNoCatalogue
					}
					id := p.Args["id"].(string)
					return deps.SavedRoutes.GetByID(p.Context, id)
				},
			},
			"recentTrips": &graphql.Field{
				Type:        graphql.NewList(tripLogType),
				Description: "Recently planned trips, newest first",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if deps.TripLog == nil {
						return nil, errors.New("trip log not available")
					}
					limit := p.Args["limit"].(int)
					return deps.TripLog.Recent(p.Context, limit)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
