package telemetry

// SLI metric names used for instrumentation and dashboard queries.
const (
	// Upstream health
	MetricProviderLatency   = "directions.provider_latency"
	MetricProviderErrorRate = "directions.provider_error_rate"
	MetricGeocodeLatency    = "geocode.lookup_latency"

	// Business
	MetricTripsPlanned  = "business.trips_planned"
	MetricFallbackShare = "business.fallback_share"
)
