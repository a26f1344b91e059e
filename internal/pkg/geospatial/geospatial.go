package geospatial

import "math"

const earthRadiusKm = 6371.0

// metersPerDegree is the approximate length of one degree of latitude.
const metersPerDegree = 111000.0

// HaversineKm calculates the great-circle distance in kilometers between two points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// ProjectPoint offsets a point by distanceMeters along the given compass bearing
// (degrees, 0 = north) using a local flat-Earth approximation. Good enough for
// offsets under ~2 km away from the poles; it is not a geodesic solution.
func ProjectPoint(lat, lon, bearingDeg, distanceMeters float64) (float64, float64) {
	rad := toRad(bearingDeg)
	dNorth := distanceMeters * math.Cos(rad)
	dEast := distanceMeters * math.Sin(rad)

	newLat := lat + dNorth/metersPerDegree
	newLon := lon + dEast/(metersPerDegree*math.Cos(toRad(lat)))
	return newLat, newLon
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
