package geomath

import (
	"math"

	"github.com/golang/geo/s2"
)

const earthRadiusKm = 6371.0
const kmToNm = 0.539957

// HaversineNM returns the great-circle distance between two points, in
// nautical miles. The central angle comes from s2.LatLng.Distance rather
// than a hand-rolled haversine formula; for the distances this simulator
// deals with (a few nautical miles between a vessel and a GPX waypoint)
// it agrees with the classic haversine formula well within the 0.1 nm
// tolerance used by the test suite.
func HaversineNM(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	angle := p1.Distance(p2)
	return angle.Radians() * earthRadiusKm * kmToNm
}

// InitialBearing returns the initial bearing, in degrees [0, 360), from
// point 1 to point 2 along a great circle.
func InitialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := ToRadians(lat1)
	phi2 := ToRadians(lat2)
	dLambda := ToRadians(lon2 - lon1)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	theta := math.Atan2(y, x)
	return NormalizeDegrees(ToDegrees(theta))
}
