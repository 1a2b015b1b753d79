// Package geomath collects the small set of angular and distance helpers
// shared by the encoders, kinematics, GPX replay and AIS fleet packages.
package geomath

import (
	"math"

	"github.com/golang/geo/s1"
)

// ToRadians converts degrees to radians using golang/geo's s1.Angle, which
// is how the rest of the pack (and this module) does degree/radian
// conversion rather than hand-rolling the multiply-by-Pi/180 everywhere.
func ToRadians(degrees float64) float64 {
	return (s1.Angle(degrees) * s1.Degree).Radians()
}

// ToDegrees converts radians to degrees via s1.Angle.
func ToDegrees(radians float64) float64 {
	return s1.Angle(radians).Degrees()
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// NormalizeSigned wraps an angle into (-180, 180], used for TWA/AWA.
func NormalizeSigned(deg float64) float64 {
	deg = NormalizeDegrees(deg)
	if deg > 180 {
		deg -= 360
	}
	return deg
}

// WrapLongitude wraps a longitude value into (-180, 180].
func WrapLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon <= 0 {
		lon += 360
	}
	return lon - 180
}

// ClampLatitude saturates latitude at the poles: a move that would
// carry it past +/-90 simply stops there.
func ClampLatitude(lat float64) float64 {
	if lat > 90 {
		return 90
	}
	if lat < -90 {
		return -90
	}
	return lat
}
