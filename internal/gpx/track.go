// Package gpx replays a parsed GPX polyline: time-indexed
// interpolation when every point carries a timestamp, or an index-stepped
// cursor otherwise. Parsing GPX XML itself is out of scope; callers hand in
// an already-built Track.
package gpx

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/northstarmarine/nmeasim/internal/geomath"
)

// Point is one vertex of a GPX track. Time is nil for non-timestamped
// tracks.
type Point struct {
	LatDeg float64
	LonDeg float64
	Time   *time.Time
}

// Track is an ordered polyline of at least two points.
type Track struct {
	Points      []Point
	TimeIndexed bool
}

// NewTrack builds a Track, detecting whether it is time-indexed: every
// point must carry a timestamp and timestamps must be non-decreasing
// (equal neighbours are allowed), otherwise the track falls back to index-stepped mode.
func NewTrack(points []Point) (*Track, error) {
	if len(points) < 2 {
		return nil, errors.New("gpx: track must have at least two points")
	}

	timeIndexed := true
	for _, p := range points {
		if p.Time == nil {
			timeIndexed = false
			break
		}
	}
	if timeIndexed {
		timeIndexed = isNonDecreasing(points)
	}

	return &Track{Points: points, TimeIndexed: timeIndexed}, nil
}

func isNonDecreasing(points []Point) bool {
	for i := 1; i < len(points); i++ {
		if points[i].Time.Before(*points[i-1].Time) {
			return false
		}
	}
	return true
}

// StartTime returns the timestamp of the first point.
func (t *Track) StartTime() time.Time { return *t.Points[0].Time }

// EndTime returns the timestamp of the last point.
func (t *Track) EndTime() time.Time { return *t.Points[len(t.Points)-1].Time }

// Sample is a position/speed/course fix produced by the replay.
type Sample struct {
	LatDeg float64
	LonDeg float64
	SOGKn  float64
	COGDeg float64
}

// SampleAtTime replays a time-indexed track at instant at. Holding
// at the first or last point reports sog = 0.
func (t *Track) SampleAtTime(at time.Time) Sample {
	start, end := t.StartTime(), t.EndTime()

	if !at.After(start) {
		p0 := t.Points[0]
		return Sample{LatDeg: p0.LatDeg, LonDeg: p0.LonDeg, SOGKn: 0, COGDeg: bearing(t.Points[0], t.Points[1])}
	}
	if !at.Before(end) {
		last := t.Points[len(t.Points)-1]
		prev := t.Points[len(t.Points)-2]
		return Sample{LatDeg: last.LatDeg, LonDeg: last.LonDeg, SOGKn: 0, COGDeg: bearing(prev, last)}
	}

	idx := sort.Search(len(t.Points), func(i int) bool {
		return t.Points[i].Time.After(at)
	})
	p0 := t.Points[idx-1]
	p1 := t.Points[idx]

	segSec := p1.Time.Sub(*p0.Time).Seconds()
	f := at.Sub(*p0.Time).Seconds() / segSec

	lat := p0.LatDeg + f*(p1.LatDeg-p0.LatDeg)
	lon := p0.LonDeg + f*(p1.LonDeg-p0.LonDeg)

	distNM := geomath.HaversineNM(p0.LatDeg, p0.LonDeg, p1.LatDeg, p1.LonDeg)
	sog := distNM / (segSec / 3600)

	return Sample{LatDeg: lat, LonDeg: lon, SOGKn: sog, COGDeg: bearing(p0, p1)}
}

func bearing(p0, p1 Point) float64 {
	return geomath.InitialBearing(p0.LatDeg, p0.LonDeg, p1.LatDeg, p1.LonDeg)
}

// IndexCursor tracks an evolving position along a non-timestamped track:
// a waypoint index plus the in-flight position between track[index] and
// track[index+1].
type IndexCursor struct {
	Index  int
	LatDeg float64
	LonDeg float64
}

// NewIndexCursor seeds a cursor at startFraction (0..1) of the way through
// the track, positioned exactly at that waypoint.
func NewIndexCursor(t *Track, startFraction float64) *IndexCursor {
	n := len(t.Points)
	idx := int(math.Round(startFraction * float64(n-1)))
	idx = clampInt(idx, 0, n-2)
	p := t.Points[idx]
	return &IndexCursor{Index: idx, LatDeg: p.LatDeg, LonDeg: p.LonDeg}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SampleAtIndex reads the track at a waypoint index, clamped to a valid
// range, reporting the bearing towards the following waypoint. It carries
// no speed information of its own, so callers supply a fallback sog. The
// AIS fleet's GPX-shadow mode uses this to sample a base position for an
// index-offset target.
func (t *Track) SampleAtIndex(idx int, fallbackSOG float64) Sample {
	n := len(t.Points)
	idx = clampInt(idx, 0, n-2)
	p := t.Points[idx]
	return Sample{LatDeg: p.LatDeg, LonDeg: p.LonDeg, SOGKn: fallbackSOG, COGDeg: bearing(t.Points[idx], t.Points[idx+1])}
}

// Step advances the cursor towards track[Index+1] by sogKn·(intervalSec/3600)
// nautical miles. When the remaining distance to the waypoint is within
// stepNM (or within 1e-3 nm), it snaps to the waypoint and advances the
// cursor, bounded to len-2. Returns the resulting position and the
// course towards the (possibly new) next waypoint.
func (c *IndexCursor) Step(t *Track, sogKn, intervalSec float64) Sample {
	next := t.Points[c.Index+1]
	cog := geomath.InitialBearing(c.LatDeg, c.LonDeg, next.LatDeg, next.LonDeg)

	stepNM := sogKn * (intervalSec / 3600)
	remainingNM := geomath.HaversineNM(c.LatDeg, c.LonDeg, next.LatDeg, next.LonDeg)

	if remainingNM <= stepNM || remainingNM <= 1e-3 {
		c.LatDeg = next.LatDeg
		c.LonDeg = next.LonDeg
		if c.Index < len(t.Points)-2 {
			c.Index++
		}
		newNext := t.Points[minInt(c.Index+1, len(t.Points)-1)]
		cog = geomath.InitialBearing(c.LatDeg, c.LonDeg, newNext.LatDeg, newNext.LonDeg)
		return Sample{LatDeg: c.LatDeg, LonDeg: c.LonDeg, SOGKn: sogKn, COGDeg: cog}
	}

	bearingRad := geomath.ToRadians(cog)
	dLat := (stepNM / 60) * math.Cos(bearingRad)
	newLat := c.LatDeg + dLat
	newLon := c.LonDeg
	if math.Abs(c.LatDeg) < 89.99 {
		latRad := geomath.ToRadians(c.LatDeg)
		dLon := (stepNM / (60 * math.Cos(latRad))) * math.Sin(bearingRad)
		newLon = c.LonDeg + dLon
	}
	c.LatDeg = geomath.ClampLatitude(newLat)
	c.LonDeg = geomath.WrapLongitude(newLon)

	return Sample{LatDeg: c.LatDeg, LonDeg: c.LonDeg, SOGKn: sogKn, COGDeg: cog}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
