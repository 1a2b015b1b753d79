package fleet

import (
	"math"
	"math/rand"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
)

const nmToMeters = 1852.0

// uniformDiskOffsetNM draws a point uniformly inside a disk of radius
// radiusNM, returned as (dyNM north, dxNM east) in the local offset
// convention.
func uniformDiskOffsetNM(rng *rand.Rand, radiusNM float64) (dyNM, dxNM float64) {
	r := radiusNM * math.Sqrt(rng.Float64())
	theta := rng.Float64() * 2 * math.Pi
	return r * math.Cos(theta), r * math.Sin(theta)
}

// offsetLatLon applies a local (dyNM north, dxNM east) displacement to a
// geodetic point by projecting through UTM, shifting the planar
// easting/northing, and converting back.
func offsetLatLon(latDeg, lonDeg, dyNM, dxNM float64) (float64, float64) {
	latlng := s2.LatLng{Lat: s1.Angle(latDeg) * s1.Degree, Lng: s1.Angle(lonDeg) * s1.Degree}

	utm, err := coordconv.DefaultUTMConverter.ConvertFromGeodetic(latlng, 0)
	if err != nil {
		return fallbackOffset(latDeg, lonDeg, dyNM, dxNM)
	}

	utm.Easting += dxNM * nmToMeters
	utm.Northing += dyNM * nmToMeters

	back, err := coordconv.DefaultUTMConverter.ConvertToGeodetic(utm)
	if err != nil {
		return fallbackOffset(latDeg, lonDeg, dyNM, dxNM)
	}

	return back.Lat.Degrees(), back.Lng.Degrees()
}

// fallbackOffset applies the same displacement via a flat-earth
// approximation, used when a coordinate falls outside the UTM converter's
// domain (e.g. near the poles).
func fallbackOffset(latDeg, lonDeg, dyNM, dxNM float64) (float64, float64) {
	newLat := latDeg + dyNM/60
	newLon := lonDeg
	if math.Abs(latDeg) < 89.99 {
		newLon = lonDeg + dxNM/(60*math.Cos(latDeg*math.Pi/180))
	}
	return newLat, newLon
}
