// Package fleet maintains the AIS target fleet: initial placement around
// own-ship, per-tick evolution in free or GPX-shadow mode, and the Type 24
// static-report minute-boundary schedule.
package fleet

import (
	"math"
	"math/rand"
	"time"

	"github.com/northstarmarine/nmeasim/internal/geomath"
	"github.com/northstarmarine/nmeasim/internal/gpx"
)

const baseMMSI = 999000001

// Target is one AIS fleet member.
type Target struct {
	MMSI       int
	LatDeg     float64
	LonDeg     float64
	SOGKn      float64
	COGDeg     float64
	HeadingDeg float64
	Name       string

	// DxNM/DyNM are the target's fixed cross-track offset (east/north)
	// applied on top of whatever base position its mode computes.
	DxNM float64
	DyNM float64

	// GPX shadow along-track offsets; only one is meaningful, depending
	// on the track's indexing mode.
	TimeOffsetSec float64
	IndexOffset   int
}

// Config parameterizes fleet initialisation and per-tick perturbation
// (the ais_* configuration fields).
type Config struct {
	NumTargets           int
	MaxCOGOffsetDeg      float64
	MaxSOGOffsetKn       float64
	DistributionRadiusNM float64
	ExternalNames        []string
}

// Fleet is the live set of AIS targets, optionally shadowing a GPX track.
type Fleet struct {
	Targets []Target
	Track   *gpx.Track
	rng     *rand.Rand
}

// New initialises a fleet of cfg.NumTargets targets around the own-ship
// seed position.
func New(cfg Config, ownLatDeg, ownLonDeg, ownSOGKn, ownCOGDeg float64, track *gpx.Track, rng *rand.Rand) *Fleet {
	targets := make([]Target, cfg.NumTargets)

	var durationSec float64
	if track != nil && track.TimeIndexed {
		durationSec = track.EndTime().Sub(track.StartTime()).Seconds()
	}

	for i := range targets {
		dyNM, dxNM := uniformDiskOffsetNM(rng, cfg.DistributionRadiusNM)
		lat, lon := offsetLatLon(ownLatDeg, ownLonDeg, dyNM, dxNM)

		sog := math.Max(0, ownSOGKn+uniform(rng, cfg.MaxSOGOffsetKn))
		cog := math.Mod(ownCOGDeg+uniform(rng, cfg.MaxCOGOffsetDeg)+360, 360)

		target := Target{
			MMSI:       baseMMSI + i,
			LatDeg:     lat,
			LonDeg:     lon,
			SOGKn:      sog,
			COGDeg:     cog,
			HeadingDeg: cog,
			Name:       targetName(i, cfg.ExternalNames),
			DxNM:       dxNM,
			DyNM:       dyNM,
		}

		if track != nil {
			if track.TimeIndexed {
				span := math.Min(300, math.Max(30, durationSec/20))
				target.TimeOffsetSec = uniform(rng, span)
			} else {
				target.IndexOffset = int(math.Round(uniform(rng, 50)))
			}
		}

		targets[i] = target
	}

	return &Fleet{Targets: targets, Track: track, rng: rng}
}

func uniform(rng *rand.Rand, span float64) float64 {
	return (rng.Float64()*2 - 1) * span
}

// UpdateFree evolves every target one tick in free mode: a blended course
// and speed towards a freshly perturbed desired course/speed, then a
// position step identical in form to the own-ship kinematics.
func (f *Fleet) UpdateFree(ownSOGKn, ownCOGDeg, intervalSec float64, cfg Config) {
	hours := intervalSec / 3600
	for i := range f.Targets {
		t := &f.Targets[i]

		desiredCOG := math.Mod(ownCOGDeg+uniform(f.rng, cfg.MaxCOGOffsetDeg)+360, 360)
		t.COGDeg = math.Mod(0.8*t.COGDeg+0.2*desiredCOG, 360)

		desiredSOG := math.Max(0, ownSOGKn+uniform(f.rng, cfg.MaxSOGOffsetKn))
		t.SOGKn = math.Max(0, 0.8*t.SOGKn+0.2*desiredSOG)

		stepTarget(t, hours)
		t.HeadingDeg = t.COGDeg
	}
}

// stepTarget applies the same position-update formula as own-ship
// kinematics, using the target's own current sog/cog.
func stepTarget(t *Target, hours float64) {
	distanceNM := t.SOGKn * hours
	cogRad := geomath.ToRadians(t.COGDeg)

	newLat := t.LatDeg + (distanceNM/60)*math.Cos(cogRad)
	newLon := t.LonDeg
	if math.Abs(t.LatDeg) < 89.99 {
		latRad := geomath.ToRadians(t.LatDeg)
		newLon = t.LonDeg + (distanceNM/(60*math.Cos(latRad)))*math.Sin(cogRad)
	}

	t.LatDeg = geomath.ClampLatitude(newLat)
	t.LonDeg = geomath.WrapLongitude(newLon)
}

// UpdateGPXShadow evolves every target one tick while shadowing the
// attached track: a base position/course is sampled at the target's
// along-track offset, the target's fixed cross-track offset is applied,
// and sog/cog get a fresh perturbation each tick.
func (f *Fleet) UpdateGPXShadow(currentTime time.Time, ownCursorIndex int, cfg Config) {
	if f.Track == nil {
		return
	}

	for i := range f.Targets {
		t := &f.Targets[i]

		var base gpx.Sample
		if f.Track.TimeIndexed {
			at := currentTime.Add(time.Duration(t.TimeOffsetSec) * time.Second)
			base = f.Track.SampleAtTime(at)
		} else {
			base = f.Track.SampleAtIndex(ownCursorIndex+t.IndexOffset, t.SOGKn)
		}

		lat, lon := offsetLatLon(base.LatDeg, base.LonDeg, t.DyNM, t.DxNM)
		t.LatDeg = geomath.ClampLatitude(lat)
		t.LonDeg = geomath.WrapLongitude(lon)

		t.SOGKn = math.Max(0, base.SOGKn+uniform(f.rng, cfg.MaxSOGOffsetKn))
		t.COGDeg = math.Mod(base.COGDeg+uniform(f.rng, cfg.MaxCOGOffsetDeg)+360, 360)
		t.HeadingDeg = t.COGDeg
	}
}

// MinuteBoundaryCrossed reports whether the UTC minute changed between two
// epoch timestamps, the Type 24 static-report trigger.
func MinuteBoundaryCrossed(prevEpochSec, curEpochSec int64) bool {
	return curEpochSec/60 != prevEpochSec/60
}
