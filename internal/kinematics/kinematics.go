// Package kinematics advances own-ship position and wind state tick by tick
// a position step from (course, speed, dt), a bounded random walk on
// sog/cog/tws/twd, and the derived magnetic/metric/apparent-wind values.
package kinematics

import (
	"math"
	"math/rand"

	"github.com/northstarmarine/nmeasim/internal/geomath"
)

// State is the subset of own-ship fields the kinematics step reads and
// writes; callers embed or convert to/from their own state records.
type State struct {
	LatDeg float64
	LonDeg float64
	SOGKn  float64
	COGDeg float64
	TWSKn  float64
	TWDDeg float64
}

// uniform draws a value uniformly in [-span, span].
func uniform(rng *rand.Rand, span float64) float64 {
	return (rng.Float64()*2 - 1) * span
}

// Step advances lat/lon by (sog, cog, dt) and applies the bounded random
// walk to sog/cog/tws/twd.
func Step(s State, intervalSec float64, rng *rand.Rand) State {
	hours := intervalSec / 3600
	distanceNM := s.SOGKn * hours
	cogRad := geomath.ToRadians(s.COGDeg)

	dLat := (distanceNM / 60) * math.Cos(cogRad)
	newLat := s.LatDeg + dLat

	newLon := s.LonDeg
	if math.Abs(s.LatDeg) < 89.99 {
		latRad := geomath.ToRadians(s.LatDeg)
		dLon := (distanceNM / (60 * math.Cos(latRad))) * math.Sin(cogRad)
		newLon = s.LonDeg + dLon
	}

	s.LatDeg = geomath.ClampLatitude(newLat)
	s.LonDeg = geomath.WrapLongitude(newLon)

	s.SOGKn = clamp(s.SOGKn+uniform(rng, 0.2), 0, 15)
	s.COGDeg = geomath.NormalizeDegrees(s.COGDeg + uniform(rng, 2.0))
	s.TWSKn, s.TWDDeg = WindWalk(s.TWSKn, s.TWDDeg, rng)

	return s
}

// WindWalk applies the bounded random walk to true wind speed/direction
// alone, used in GPX-replay mode where position and cog/sog come
// from the track rather than Step's random walk.
func WindWalk(twsKn, twdDeg float64, rng *rand.Rand) (float64, float64) {
	return clamp(twsKn+uniform(rng, 0.3), 0, 30), geomath.NormalizeDegrees(twdDeg + uniform(rng, 3.0))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Wind holds the derived magnetic, metric, and apparent-wind values.
type Wind struct {
	COGMagnetic float64
	TWDMagnetic float64
	SOGKmh      float64
	TWSMps      float64
	TWA         float64
	AWA         float64
	AWS         float64
}

// DeriveWind computes the wind-derived fields for the current state.
// Apparent wind gets a fresh random perturbation each call; below 1 kn sog
// the apparent and true wind are taken as equal (docked approximation).
func DeriveWind(s State, magVarDeg float64, rng *rand.Rand) Wind {
	w := Wind{
		COGMagnetic: math.Mod(s.COGDeg-magVarDeg+360, 360),
		TWDMagnetic: math.Mod(s.TWDDeg-magVarDeg+360, 360),
		SOGKmh:      s.SOGKn * 1.852,
		TWSMps:      s.TWSKn * 0.514444,
	}
	w.TWA = geomath.NormalizeSigned(s.TWDDeg - s.COGDeg)

	if s.SOGKn < 1 {
		w.AWA = w.TWA
		w.AWS = s.TWSKn
		return w
	}

	w.AWA = w.TWA * (0.8 + rng.Float64()*0.3)
	w.AWS = s.TWSKn * (0.9 + rng.Float64()*0.6)
	return w
}
