package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinates is returned when a coordinate falls outside the
// WGS 84 latitude/longitude ranges. It is the only planning error surfaced
// to callers as a 400; everything else is absorbed into a fallback plan.
var ErrInvalidCoordinates = errors.New("coordinates out of range")

// ProviderError wraps any failure talking to the external directions
// provider: transport errors, non-2xx statuses, and unparseable payloads.
// The planner absorbs it by switching to the fallback estimate.
type ProviderError struct {
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("directions provider: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("directions provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// GeocodeError wraps any failure talking to the reverse-geocoding provider.
// The snapper treats it as "not routable" and keeps searching.
type GeocodeError struct {
	Err error
}

func (e *GeocodeError) Error() string { return fmt.Sprintf("reverse geocode: %v", e.Err) }

func (e *GeocodeError) Unwrap() error { return e.Err }
