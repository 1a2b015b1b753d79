package kinematics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestStepOneHourDueEastAtEquator(t *testing.T) {
	s := State{LatDeg: 0, LonDeg: 0, SOGKn: 60, COGDeg: 90}
	rng := rand.New(rand.NewSource(1))
	next := Step(s, 3600, rng)

	assert.InDelta(t, 0.0, next.LatDeg, 1e-9)
	assert.InDelta(t, 1.0, next.LonDeg, 1e-9)
}

func TestStepClampsAndWraps(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := State{
			LatDeg: rapid.Float64Range(-90, 90).Draw(rt, "lat"),
			LonDeg: rapid.Float64Range(-180, 180).Draw(rt, "lon"),
			SOGKn:  rapid.Float64Range(0, 15).Draw(rt, "sog"),
			COGDeg: rapid.Float64Range(0, 360).Draw(rt, "cog"),
			TWSKn:  rapid.Float64Range(0, 30).Draw(rt, "tws"),
			TWDDeg: rapid.Float64Range(0, 360).Draw(rt, "twd"),
		}
		seed := rapid.Int64().Draw(rt, "seed")
		rng := rand.New(rand.NewSource(seed))
		next := Step(s, 60, rng)

		if next.LatDeg >= 89.999 || next.LatDeg <= -89.999 {
			rt.Skip("near pole, lon clamp rule not exercised")
		}
		if next.LatDeg < -90 || next.LatDeg > 90 {
			rt.Fatalf("lat out of range: %v", next.LatDeg)
		}
		if next.LonDeg <= -180 || next.LonDeg > 180 {
			rt.Fatalf("lon out of range: %v", next.LonDeg)
		}
		if next.SOGKn < 0 || next.SOGKn > 15 {
			rt.Fatalf("sog out of range: %v", next.SOGKn)
		}
		if next.COGDeg < 0 || next.COGDeg >= 360 {
			rt.Fatalf("cog out of range: %v", next.COGDeg)
		}
		if next.TWSKn < 0 || next.TWSKn > 30 {
			rt.Fatalf("tws out of range: %v", next.TWSKn)
		}
		if next.TWDDeg < 0 || next.TWDDeg >= 360 {
			rt.Fatalf("twd out of range: %v", next.TWDDeg)
		}
	})
}

func TestDeriveWindDockedApproximation(t *testing.T) {
	s := State{COGDeg: 45, TWDDeg: 90, SOGKn: 0.5, TWSKn: 10}
	rng := rand.New(rand.NewSource(2))
	w := DeriveWind(s, 5, rng)

	assert.Equal(t, w.TWA, w.AWA)
	assert.Equal(t, s.TWSKn, w.AWS)
}

func TestDeriveWindMagneticAndMetric(t *testing.T) {
	s := State{COGDeg: 10, TWDDeg: 20, SOGKn: 5, TWSKn: 10}
	rng := rand.New(rand.NewSource(3))
	w := DeriveWind(s, 15, rng)

	assert.InDelta(t, 355.0, w.COGMagnetic, 1e-9)
	assert.InDelta(t, 5.0, w.TWDMagnetic, 1e-9)
	assert.InDelta(t, 9.26, w.SOGKmh, 0.01)
	assert.InDelta(t, 5.14444, w.TWSMps, 0.001)
	assert.InDelta(t, 10.0, w.TWA, 1e-9)
}
