package geo

import (
	"FoodBridge-Backend/domain"
	"math"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// Coordinate is an immutable latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return domain.ErrInvalidCoordinates
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return domain.ErrInvalidCoordinates
	}
	return nil
}

// Distance computes the great-circle distance between two coordinates in
// kilometers, rounded to 2 decimal places so downstream comparisons are
// not sensitive to float noise.
func Distance(a, b Coordinate) float64 {
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)

	lat1 := toRad(a.Latitude)
	lat2 := toRad(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	distance := earthRadiusKm * c

	return math.Round(distance*100) / 100
}

func toRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}
