package ors

import (
	"fmt"

	"github.com/sairajtravels/trip-api/internal/core/domain"
)

// decodePolyline decodes a Google encoded polyline (precision 5) into
// coordinates. OpenRouteService uses this encoding for the non-GeoJSON
// response shape.
func decodePolyline(encoded string) ([]domain.GeoPoint, error) {
	var points []domain.GeoPoint
	var lat, lng int64

	i := 0
	for i < len(encoded) {
		dLat, next, err := decodeVarint(encoded, i)
		if err != nil {
			return nil, err
		}
		lat += dLat
		i = next

		dLng, next, err := decodeVarint(encoded, i)
		if err != nil {
			return nil, err
		}
		lng += dLng
		i = next

		points = append(points, domain.GeoPoint{
			Lat: float64(lat) / 1e5,
			Lng: float64(lng) / 1e5,
		})
	}

	return points, nil
}

// decodeVarint reads one zigzag-encoded delta starting at index i and returns
// the delta plus the index of the next unread byte.
func decodeVarint(encoded string, i int) (int64, int, error) {
	var result int64
	var shift uint

	for {
		if i >= len(encoded) {
			return 0, 0, fmt.Errorf("truncated polyline at byte %d", i)
		}
		b := int64(encoded[i]) - 63
		if b < 0 {
			return 0, 0, fmt.Errorf("invalid polyline byte %q at %d", encoded[i], i)
		}
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}
