// Package geo computes great-circle distances between coordinate pairs.
package geo

import (
	"math"

	"menumerge/internal/entity"
)

// EarthRadiusMeters is the mean Earth radius used by Haversine.
const EarthRadiusMeters = 6_371_000.0

// HaversineMeters returns the great-circle distance between two points given
// in decimal degrees.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// Rounding can push a marginally above 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// Distance returns the distance between two coordinate pairs. The boolean is
// false when either pair is missing or invalid.
func Distance(a, b *entity.Coordinates) (float64, bool) {
	if !a.Valid() || !b.Valid() {
		return 0, false
	}
	return HaversineMeters(a.Lat, a.Lon, b.Lat, b.Lon), true
}

// OffsetNorth returns the point d meters due north of c along its meridian.
// Tests and fixtures use it to place entities at exact distances.
func OffsetNorth(c entity.Coordinates, meters float64) entity.Coordinates {
	deltaLat := meters / EarthRadiusMeters * 180 / math.Pi
	return entity.Coordinates{Lat: c.Lat + deltaLat, Lon: c.Lon}
}
