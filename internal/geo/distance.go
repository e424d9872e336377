package geo

import "math"

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between two points in
// kilometers, rounded to 2 decimal places (half up). Symmetric and
// zero for identical points.
func Distance(a, b Coordinate) float64 {
	return Round2(haversine(a, b))
}

// RouteDistance sums the legs of an ordered route. Routes with fewer
// than two points have no legs and yield 0. Legs are summed unrounded
// and the total is rounded once at the end.
func RouteDistance(points []Coordinate) float64 {
	if len(points) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += haversine(points[i-1], points[i])
	}
	return Round2(total)
}

func haversine(a, b Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Round2 rounds a non-negative value to 2 decimal places, half up.
func Round2(value float64) float64 {
	return math.Floor(value*100+0.5) / 100
}
